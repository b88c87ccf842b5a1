package compression

import (
	"testing"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

func makeSource(t *testing.T, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *texturesource.Source {
	t.Helper()
	props := texturesource.New2D(pixelformat.Dims3{X: 8, Y: 8}, format, gamma, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	return src
}

func TestPassthroughSupportsMatchingFormat(t *testing.T) {
	p := NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	src := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	if !p.Supports(src.Properties(), Settings{}) {
		t.Fatal("expected passthrough to support matching source")
	}

	other := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB)
	if p.Supports(other.Properties(), Settings{}) {
		t.Fatal("expected passthrough to reject mismatched gamma")
	}
}

func TestPassthroughCompressIsByteIdentical(t *testing.T) {
	p := NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	src := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)

	w := src.WriterScope()
	for i := range w.Bytes() {
		w.Bytes()[i] = byte(i)
	}
	w.Close()

	res, err := p.Compress2D(src, Settings{})
	if err != nil {
		t.Fatalf("Compress2D: %v", err)
	}
	reader := res.Bulk.LockRead()
	defer reader.Close()
	srcReader := src.ReaderScope()
	defer srcReader.Close()

	if len(reader.Bytes()) != len(srcReader.Bytes()) {
		t.Fatalf("size mismatch: %d vs %d", len(reader.Bytes()), len(srcReader.Bytes()))
	}
	for i := range reader.Bytes() {
		if reader.Bytes()[i] != srcReader.Bytes()[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, reader.Bytes()[i], srcReader.Bytes()[i])
		}
	}
}

func TestPassthroughRejectsWrongView(t *testing.T) {
	p := NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	src := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	if _, err := p.CompressCube(src, Settings{}); err == nil {
		t.Fatal("expected error compressing a 2D source as a cube")
	}
}

func TestBC1ProducesExpectedBlockCount(t *testing.T) {
	bc := NewBC1(pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	src := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	res, err := bc.Compress2D(src, Settings{})
	if err != nil {
		t.Fatalf("Compress2D: %v", err)
	}
	want := uint64(2*2) * 8 // 8x8 / 4x4 blocks = 2x2, 8 bytes each
	if res.Bulk.Size() != want {
		t.Fatalf("BC1 output size = %d, want %d", res.Bulk.Size(), want)
	}
}

func TestBC3ProducesExpectedBlockCount(t *testing.T) {
	bc := NewBC3(pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	src := makeSource(t, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear)
	res, err := bc.Compress2D(src, Settings{})
	if err != nil {
		t.Fatalf("Compress2D: %v", err)
	}
	want := uint64(2*2) * 16
	if res.Bulk.Size() != want {
		t.Fatalf("BC3 output size = %d, want %d", res.Bulk.Size(), want)
	}
}

func TestBuiltinPassthroughsAllImplementInterface(t *testing.T) {
	for _, p := range BuiltinPassthroughs() {
		var _ Compression = p
		if p.Format() == pixelformat.FormatUnknown {
			t.Fatal("expected a concrete format")
		}
	}
}
