package generation

import (
	"testing"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

func makeAlphaSource(t *testing.T, dims pixelformat.Dims3, numMips uint32) *texturesource.Source {
	t.Helper()
	props := texturesource.Properties{
		Dimensions:   dims,
		NumMips:      numMips,
		NumSlices:    1,
		Gamma:        pixelformat.GammaLinear,
		SourceFormat: pixelformat.SourceFormatRGBA8,
		ColorMask:    pixelformat.ColorMaskOf(pixelformat.SourceFormatRGBA8),
		ImageView:    pixelformat.View2D,
		Flags:        pixelformat.FlagMaskedAlpha,
	}
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	return src
}

func TestNewFromPropertiesDefaults(t *testing.T) {
	props := texturesource.New2D(pixelformat.Dims3{X: 8, Y: 8}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, pixelformat.FlagMaskedAlpha)
	cfg := NewFromProperties(props)
	if !cfg.GenerateFullMipChain2D {
		t.Fatal("expected full mip chain to be requested for a single-mip 8x8 source")
	}
	if !cfg.PreserveAlphaTestCoverage2D {
		t.Fatal("expected coverage preservation for a masked-alpha source")
	}
	if cfg.AlphaCutoff != 0.5 {
		t.Fatalf("AlphaCutoff = %v, want 0.5", cfg.AlphaCutoff)
	}
}

func TestPrepareRequiresCompression(t *testing.T) {
	cfg := Config{}
	props := texturesource.New2D(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	if _, err := cfg.Prepare(props); err == nil {
		t.Fatal("expected an error without a compression selected")
	}
}

func TestPrepareAppliesResizeOverrides(t *testing.T) {
	props := texturesource.New2D(pixelformat.Dims3{X: 8, Y: 8}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	cfg := NewFromProperties(props)
	cfg.Compression = compression.NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	newDims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	cfg.ResizeDimensions = &newDims

	out, err := cfg.Prepare(props)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if out.Dimensions != newDims {
		t.Fatalf("Dimensions = %v, want %v", out.Dimensions, newDims)
	}
}

func TestResizeMip2DIdentityKeepsDimensions(t *testing.T) {
	cfg := Config{MipGeneration: SelectorBox}
	src := make([]byte, 4*4*4)
	dst := make([]byte, 4*4*4)
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	if err := cfg.ResizeMip2D(dst, dims, pixelformat.SourceFormatRGBA8, 0, src, dims, pixelformat.SourceFormatRGBA8, 0); err != nil {
		t.Fatalf("ResizeMip2D: %v", err)
	}
}

func TestGenerateSliceMipChain2DRejectsNonPow2(t *testing.T) {
	cfg := Config{MipGeneration: SelectorBox}
	props := texturesource.Properties{
		Dimensions:   pixelformat.Dims3{X: 6, Y: 6, Z: 1},
		NumMips:      2,
		NumSlices:    1,
		SourceFormat: pixelformat.SourceFormatRGBA8,
		ImageView:    pixelformat.View2D,
	}
	buf := make([]byte, 6*6*4+3*3*4)
	if err := cfg.GenerateSliceMipChain2D(props, buf); err == nil {
		t.Fatal("expected an error for non power-of-two dimensions")
	}
}

func TestGenerateSliceMipChain2DFillsAllMips(t *testing.T) {
	cfg := Config{MipGeneration: SelectorBox}
	props := texturesource.New2DWithMipChain(pixelformat.Dims3{X: 8, Y: 8}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	buf := make([]byte, props.SizeInBytes())
	view0 := imageview.New(buf, props.Dimensions, props.SourceFormat, false)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			view0.Store(imageview.Coord{X: x, Y: y}, pixelformat.Rgba32F{R: 1, G: 1, B: 1, A: 1})
		}
	}
	if err := cfg.GenerateSliceMipChain2D(props, buf); err != nil {
		t.Fatalf("GenerateSliceMipChain2D: %v", err)
	}
}

func TestAlphaTestCoverage2DAllOpaqueIsFullCoverage(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			view.Store(imageview.Coord{X: x, Y: y}, pixelformat.Rgba32F{R: 1, G: 1, B: 1, A: 1})
		}
	}
	coverage := AlphaTestCoverage2D(view, 1, 0.5, nil)
	if coverage != 1 {
		t.Fatalf("coverage = %v, want 1", coverage)
	}
}

func TestAlphaTestCoverage2DAllTransparentIsZeroCoverage(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	coverage := AlphaTestCoverage2D(view, 1, 0.5, nil)
	if coverage != 0 {
		t.Fatalf("coverage = %v, want 0", coverage)
	}
}

func TestScaleBiasSaturates(t *testing.T) {
	dims := pixelformat.Dims3{X: 2, Y: 2, Z: 1}
	buf := make([]byte, 2*2*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	view.Store(imageview.Coord{X: 0, Y: 0}, pixelformat.Rgba32F{R: 0.9, G: 0.9, B: 0.9, A: 1})
	ScaleBias(view, 2, 0, nil)
	c := view.Load(imageview.Coord{X: 0, Y: 0})
	if c.R != 1 {
		t.Fatalf("R = %v, want saturated 1", c.R)
	}
}

func TestGaussianBlur2DPreservesFlatImage(t *testing.T) {
	dims := pixelformat.Dims3{X: 8, Y: 8, Z: 1}
	buf := make([]byte, 8*8*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, true)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			view.Store(imageview.Coord{X: x, Y: y}, pixelformat.Rgba32F{R: 0.5, G: 0.5, B: 0.5, A: 1})
		}
	}
	GaussianBlur2D(view, 5, false, nil)
	c := view.Load(imageview.Coord{X: 4, Y: 4})
	if c.R < 0.49 || c.R > 0.51 {
		t.Fatalf("blurred flat image changed value: got %v, want ~0.5", c.R)
	}
}

func TestContrastAdaptiveSharpeningSkipsTransparentTexels(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	ContrastAdaptiveSharpening2D(view, 0.5, true, 0.5, nil)
	c := view.Load(imageview.Coord{X: 1, Y: 1})
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected untouched transparent texel, got %+v", c)
	}
}

func TestGenerateAlphaDistanceField2DBoundary(t *testing.T) {
	dims := pixelformat.Dims3{X: 8, Y: 8, Z: 1}
	buf := make([]byte, 8*8*4)
	view := imageview.New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			a := float32(0)
			if x >= 4 {
				a = 1
			}
			view.Store(imageview.Coord{X: x, Y: y}, pixelformat.Rgba32F{A: a})
		}
	}
	GenerateAlphaDistanceField2D(view, 0.5, 0.5, nil)
	inside := view.Load(imageview.Coord{X: 7, Y: 4})
	outside := view.Load(imageview.Coord{X: 0, Y: 4})
	if inside.A <= 0.5 {
		t.Fatalf("expected inside texel encoded above 0.5, got %v", inside.A)
	}
	if outside.A >= 0.5 {
		t.Fatalf("expected outside texel encoded below 0.5, got %v", outside.A)
	}
}

func TestFloodMipChainWithAlphaDoesNotPanic(t *testing.T) {
	src := makeAlphaSource(t, pixelformat.Dims3{X: 8, Y: 8}, 4)
	w := src.WriterScope()
	FloodMipChainWithAlpha(src.Properties(), w.Bytes(), nil)
	w.Close()
}

func TestGenerateDispatchesToCompression(t *testing.T) {
	props := texturesource.New2D(pixelformat.Dims3{X: 8, Y: 8}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	cfg := NewFromProperties(props)
	cfg.Compression = compression.NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)

	res, err := cfg.Generate(src)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Format != pixelformat.FormatRGBA8UNorm {
		t.Fatalf("Format = %v, want RGBA8UNorm", res.Format)
	}
	if res.NumMips != pixelformat.FullMipCount(props.Dimensions) {
		t.Fatalf("NumMips = %d, want full chain %d", res.NumMips, pixelformat.FullMipCount(props.Dimensions))
	}
}
