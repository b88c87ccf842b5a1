package textureservice

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

func TestNewDefaultServiceRegistersBuiltinCodecs(t *testing.T) {
	svc := NewDefaultService()
	if got := len(svc.AllImageFormats()); got != 5 {
		t.Fatalf("AllImageFormats() has %d entries, want 5", got)
	}
	if got := len(svc.AllTextureCompressions()); got == 0 {
		t.Fatal("expected builtin passthroughs to be registered")
	}
	if _, err := svc.ImageFormatByExtension(".png"); err != nil {
		t.Fatalf("ImageFormatByExtension(.png): %v", err)
	}
	if _, err := svc.ImageFormatByExtension(".xyz"); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
}

func TestDeregisterImageFormat(t *testing.T) {
	svc := NewService(texcore.OSFileSystem{})
	id := svc.RegisterImageFormat(newFakeFormat())
	if len(svc.AllImageFormats()) != 1 {
		t.Fatal("expected one registered codec")
	}
	svc.DeregisterImageFormat(id)
	if len(svc.AllImageFormats()) != 0 {
		t.Fatal("expected codec to be removed")
	}
}

func TestBestTextureCompressionPicksSmallestBitsPerPixel(t *testing.T) {
	svc := NewService(texcore.OSFileSystem{})
	svc.RegisterTextureCompression(compression.NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear))
	svc.RegisterStandardCompressions(pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)

	props := texturesource.Properties{
		Dimensions:   pixelformat.Dims3{X: 8, Y: 8, Z: 1},
		NumMips:      1,
		NumSlices:    1,
		Gamma:        pixelformat.GammaLinear,
		SourceFormat: pixelformat.SourceFormatRGBA8,
		ColorMask:    pixelformat.ColorMaskOf(pixelformat.SourceFormatRGBA8),
		ImageView:    pixelformat.View2D,
	}
	best := svc.BestTextureCompression(props, compression.Settings{})
	if best == nil {
		t.Fatal("expected a compression to be chosen")
	}
	if best.Format() == pixelformat.FormatRGBA8UNorm {
		t.Fatalf("expected a block-compressed format to beat the uncompressed passthrough, got %v", best.Format())
	}
}

func TestBestTextureCompressionReturnsNilWhenNoneSupport(t *testing.T) {
	svc := NewService(texcore.OSFileSystem{})
	svc.RegisterTextureCompression(compression.NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear))

	props := texturesource.Properties{
		Dimensions:   pixelformat.Dims3{X: 8, Y: 8, Z: 1},
		NumMips:      1,
		NumSlices:    1,
		Gamma:        pixelformat.GammaSRGB,
		SourceFormat: pixelformat.SourceFormatBGRA8,
		ColorMask:    pixelformat.ColorMaskOf(pixelformat.SourceFormatBGRA8),
		ImageView:    pixelformat.View2D,
	}
	if got := svc.BestTextureCompression(props, compression.Settings{}); got != nil {
		t.Fatalf("expected no match, got %v", got.Format())
	}
}

func TestImportExportTextureSourceRoundtrip(t *testing.T) {
	svc := NewDefaultService()
	dir := t.TempDir()
	path := filepath.Join(dir, "checker.png")

	props := texturesource.New2D(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}

	if err := svc.ExportTextureSource(path, src); err != nil {
		t.Fatalf("ExportTextureSource: %v", err)
	}
	roundtripped, err := svc.ImportTextureSource(path)
	if err != nil {
		t.Fatalf("ImportTextureSource: %v", err)
	}
	if roundtripped.Width() != 4 || roundtripped.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, want 4x4", roundtripped.Width(), roundtripped.Height())
	}
	if roundtripped.Bulk().SourceFile() != path {
		t.Fatalf("SourceFile = %q, want %q", roundtripped.Bulk().SourceFile(), path)
	}
}

func TestExportImportTextureContainerRoundtrip(t *testing.T) {
	svc := NewDefaultService()
	dir := t.TempDir()
	path := filepath.Join(dir, "checker.tpkg")

	props := texturesource.New2D(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	passthrough := compression.NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	res, err := passthrough.Compress2D(src, compression.Settings{})
	if err != nil {
		t.Fatalf("Compress2D: %v", err)
	}

	if err := svc.ExportTexture(path, res); err != nil {
		t.Fatalf("ExportTexture: %v", err)
	}
	roundtripped, err := svc.ImportTexture(path)
	if err != nil {
		t.Fatalf("ImportTexture: %v", err)
	}
	if roundtripped.Format != res.Format || roundtripped.NumMips != res.NumMips || roundtripped.Dimensions != res.Dimensions {
		t.Fatalf("roundtripped resource fields mismatch: got %+v, want shape of %+v", roundtripped, res)
	}
	if roundtripped.Bulk.Size() != res.Bulk.Size() {
		t.Fatalf("Bulk size = %d, want %d", roundtripped.Bulk.Size(), res.Bulk.Size())
	}
}

// fakeFormat is a minimal imageformat.Format stand-in used only to
// exercise registry bookkeeping without touching real codecs.
type fakeFormat struct{}

func newFakeFormat() fakeFormat { return fakeFormat{} }

func (fakeFormat) Kind() pixelformat.ImageFormat          { return pixelformat.ImageFormatUnknown }
func (fakeFormat) Whitelist() []pixelformat.SourceFormat  { return nil }
func (fakeFormat) Supports(pixelformat.SourceFormat) bool { return false }
func (fakeFormat) Import(r io.Reader) (*texturesource.Source, error) {
	return nil, nil
}
func (fakeFormat) Export(w io.Writer, src *texturesource.Source) error {
	return nil
}
