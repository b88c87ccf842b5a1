package imageformat

import (
	"bytes"
	"testing"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

func makeCheckerSource(t *testing.T, w, h int) *texturesource.Source {
	t.Helper()
	props := texturesource.New2D(pixelformat.Dims3{X: uint32(w), Y: uint32(h)}, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	writer := src.WriterScope()
	view := imageview.New(writer.Bytes(), props.Dimensions, props.SourceFormat, false)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := pixelformat.Rgba32F{R: 1, G: 0, B: 0, A: 1}
			if (x+y)%2 == 0 {
				c = pixelformat.Rgba32F{R: 0, G: 1, B: 0, A: 1}
			}
			view.Store(imageview.Coord{X: x, Y: y}, c)
		}
	}
	writer.Close()
	return src
}

func TestPNGRoundtrip(t *testing.T) {
	codec := NewPNG()
	src := makeCheckerSource(t, 4, 4)

	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	roundtripped, err := codec.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if roundtripped.Width() != 4 || roundtripped.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, want 4x4", roundtripped.Width(), roundtripped.Height())
	}
}

func TestPNGImportResolvesGrayAlphaToRAWithoutWideningToRGBA(t *testing.T) {
	codec := NewPNG()
	props := texturesource.New2D(pixelformat.Dims3{X: 2, Y: 2}, pixelformat.SourceFormatRA8, pixelformat.GammaSRGB, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	writer := src.WriterScope()
	view := imageview.New(writer.Bytes(), props.Dimensions, props.SourceFormat, false)
	view.Store(imageview.Coord{X: 0, Y: 0}, pixelformat.Rgba32F{R: 0.5, G: 0.5, B: 0.5, A: 1})
	view.Store(imageview.Coord{X: 1, Y: 0}, pixelformat.Rgba32F{R: 0.25, G: 0.25, B: 0.25, A: 0.5})
	view.Store(imageview.Coord{X: 0, Y: 1}, pixelformat.Rgba32F{R: 0, G: 0, B: 0, A: 1})
	view.Store(imageview.Coord{X: 1, Y: 1}, pixelformat.Rgba32F{R: 1, G: 1, B: 1, A: 0})
	writer.Close()

	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	roundtripped, err := codec.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	// PNG export always goes through the shared 16-bit NRGBA64 bridge, so
	// the bit depth is promoted to 16 regardless of the source's bit
	// depth; what this guards is that a gray+alpha PNG resolves back to
	// the 2-channel RA format instead of widening to full RGBA.
	if got := roundtripped.Properties().SourceFormat; got != pixelformat.SourceFormatRA16 {
		t.Fatalf("SourceFormat = %v, want RA16", got)
	}
}

func TestPNGRejectsUnsupportedFormat(t *testing.T) {
	codec := NewPNG()
	props := texturesource.New2D(pixelformat.Dims3{X: 2, Y: 2}, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err == nil {
		t.Fatal("expected an error exporting RGBA32f through PNG")
	}
}

func TestBMPRoundtrip(t *testing.T) {
	codec := NewBMP()
	src := makeCheckerSource(t, 4, 4)
	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := codec.Import(&buf); err != nil {
		t.Fatalf("Import: %v", err)
	}
}

func TestJPGRoundtrip(t *testing.T) {
	codec := NewJPG()
	src := makeCheckerSource(t, 8, 8)
	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := codec.Import(&buf); err != nil {
		t.Fatalf("Import: %v", err)
	}
}

func TestTGARoundtrip(t *testing.T) {
	codec := NewTGA()
	src := makeCheckerSource(t, 4, 4)
	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	roundtripped, err := codec.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	reader := roundtripped.ReaderScope()
	defer reader.Close()
	view := imageview.New(reader.Bytes(), roundtripped.Properties().Dimensions, roundtripped.Properties().SourceFormat, false)
	c := view.Load(imageview.Coord{X: 0, Y: 0})
	if c.A < 0.99 {
		t.Fatalf("expected opaque alpha after roundtrip, got %v", c.A)
	}
}

func TestHDRRoundtrip(t *testing.T) {
	codec := NewHDR()
	props := texturesource.New2D(pixelformat.Dims3{X: 2, Y: 2}, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear, pixelformat.FlagHDR)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	writer := src.WriterScope()
	view := imageview.New(writer.Bytes(), props.Dimensions, props.SourceFormat, false)
	view.Store(imageview.Coord{X: 0, Y: 0}, pixelformat.Rgba32F{R: 4.5, G: 2.25, B: 1.0, A: 1})
	writer.Close()

	var buf bytes.Buffer
	if err := codec.Export(&buf, src); err != nil {
		t.Fatalf("Export: %v", err)
	}
	roundtripped, err := codec.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	reader := roundtripped.ReaderScope()
	defer reader.Close()
	view2 := imageview.New(reader.Bytes(), roundtripped.Properties().Dimensions, roundtripped.Properties().SourceFormat, false)
	c := view2.Load(imageview.Coord{X: 0, Y: 0})
	if c.R < 4.0 || c.R > 5.0 {
		t.Fatalf("R = %v, want ~4.5 (RGBE quantization tolerance)", c.R)
	}
}

func TestImportTextureCubeLongLatProducesSixFaces(t *testing.T) {
	hdrCodec := NewHDR()
	props := texturesource.New2D(pixelformat.Dims3{X: 16, Y: 8}, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear, pixelformat.FlagHDR)
	longlat, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	writer := longlat.WriterScope()
	view := imageview.New(writer.Bytes(), props.Dimensions, props.SourceFormat, true)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			view.Store(imageview.Coord{X: x, Y: y}, pixelformat.Rgba32F{R: float32(x) / 16, G: float32(y) / 8, B: 0.5, A: 1})
		}
	}
	writer.Close()

	var buf bytes.Buffer
	if err := hdrCodec.Export(&buf, longlat); err != nil {
		t.Fatalf("Export: %v", err)
	}

	cube, err := ImportTextureCubeLongLat(&buf, hdrCodec, 4)
	if err != nil {
		t.Fatalf("ImportTextureCubeLongLat: %v", err)
	}
	if cube.Properties().NumSlices != 6 {
		t.Fatalf("NumSlices = %d, want 6", cube.Properties().NumSlices)
	}
	if cube.Properties().ImageView != pixelformat.ViewCube {
		t.Fatalf("ImageView = %v, want Cube", cube.Properties().ImageView)
	}
}
