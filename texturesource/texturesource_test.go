package texturesource

import (
	"testing"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
)

func TestConstructAllocatesExpectedSize(t *testing.T) {
	props := New2D(pixelformat.Dims3{X: 256, Y: 256}, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB, pixelformat.FlagSRGB)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if got, want := src.Bulk().Size(), uint64(256*256*4); got != want {
		t.Fatalf("buffer size = %d, want %d", got, want)
	}
}

func TestConstructRejectsZeroDimensions(t *testing.T) {
	props := New2D(pixelformat.Dims3{X: 0, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	if _, err := Construct(props, nil); err == nil {
		t.Fatal("expected error for zero dimension")
	}
}

func TestConstructAutoSetsHDRFlag(t *testing.T) {
	props := New2D(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear, 0)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if !src.Properties().IsHDR() {
		t.Fatal("expected HDR flag auto-set for RGBA32f")
	}
}

func TestSliceDataNonOverlapping(t *testing.T) {
	props := New2DArray(pixelformat.Dims3{X: 4, Y: 4}, 3, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	w := src.WriterScope()
	defer w.Close()
	buf := w.Bytes()

	sliceSize := 4 * 4 * 4
	for s := uint32(0); s < 3; s++ {
		data, err := src.SliceData(buf, s)
		if err != nil {
			t.Fatalf("SliceData(%d): %v", s, err)
		}
		if len(data) != sliceSize {
			t.Fatalf("slice %d size = %d, want %d", s, len(data), sliceSize)
		}
		for i := range data {
			data[i] = byte(s + 1)
		}
	}
	for s := uint32(0); s < 3; s++ {
		start := int(s) * sliceSize
		for i := 0; i < sliceSize; i++ {
			if buf[start+i] != byte(s+1) {
				t.Fatalf("slice %d byte %d = %d, want %d (slices overlap)", s, i, buf[start+i], s+1)
			}
		}
	}
}

func TestMipDataShrinksEachLevel(t *testing.T) {
	props := New2DWithMipChain(pixelformat.Dims3{X: 8, Y: 8}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	w := src.WriterScope()
	defer w.Close()
	buf := w.Bytes()

	wantSizes := []int{8 * 8 * 4, 4 * 4 * 4, 2 * 2 * 4, 1 * 1 * 4}
	for m, want := range wantSizes {
		data, err := src.MipData(buf, uint32(m), 1, 0)
		if err != nil {
			t.Fatalf("MipData(%d): %v", m, err)
		}
		if len(data) != want {
			t.Fatalf("mip %d size = %d, want %d", m, len(data), want)
		}
	}
}

func TestGenerateMipChain2DCallsResizePerMip(t *testing.T) {
	props := New2DWithMipChain(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	calls := 0
	err = src.GenerateMipChain2D(func(dst []byte, dstDims pixelformat.Dims3, dstFormat pixelformat.SourceFormat, dstFlags pixelformat.SourceFlags,
		src []byte, srcDims pixelformat.Dims3, srcFormat pixelformat.SourceFormat, srcFlags pixelformat.SourceFlags) error {
		calls++
		for i := range dst {
			dst[i] = 0x7f
		}
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateMipChain2D: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 mip-generation calls for a 3-mip chain, got %d", calls)
	}
}

func TestTearDownResetsToEmpty(t *testing.T) {
	props := New2D(pixelformat.Dims3{X: 4, Y: 4}, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear, 0)
	src, err := Construct(props, nil)
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	src.TearDown()
	if src.Bulk() != nil {
		t.Fatal("expected bulk to be nil after TearDown")
	}
	if src.Properties().ImageView != pixelformat.ViewUnknown {
		t.Fatal("expected properties reset after TearDown")
	}
}
