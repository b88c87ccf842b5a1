package resize

import (
	"testing"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

func TestResize2DIdentityBoxIsExactCopy(t *testing.T) {
	dims := pixelformat.Dims3{X: 8, Y: 8, Z: 1}
	src := make([]byte, 8*8*4)
	for i := range src {
		src[i] = byte(i % 251)
	}
	dst := make([]byte, len(src))

	pool := workerpool.New(2)
	if err := Resize2D(dst, dims, pixelformat.SourceFormatRGBA8, src, dims, pixelformat.SourceFormatRGBA8, FilterBox, false, pool); err != nil {
		t.Fatalf("Resize2D: %v", err)
	}
	for i := range src {
		if diff := int(src[i]) - int(dst[i]); diff < -1 || diff > 1 {
			t.Fatalf("byte %d: got %d, want ~%d", i, dst[i], src[i])
		}
	}
}

func TestResize2DBoxDownscaleAveragesBlock(t *testing.T) {
	// 2x2 source, box-downscale to 1x1: result must equal the average.
	dims := pixelformat.Dims3{X: 2, Y: 2, Z: 1}
	src := []byte{
		0, 0, 0, 255,
		255, 255, 255, 255,
		255, 255, 255, 255,
		0, 0, 0, 255,
	}
	dst := make([]byte, 4)
	outDims := pixelformat.Dims3{X: 1, Y: 1, Z: 1}

	pool := workerpool.New(1)
	if err := Resize2D(dst, outDims, pixelformat.SourceFormatRGBA8, src, dims, pixelformat.SourceFormatRGBA8, FilterBox, false, pool); err != nil {
		t.Fatalf("Resize2D: %v", err)
	}
	for i := 0; i < 3; i++ {
		if diff := int(dst[i]) - 127; diff < -2 || diff > 2 {
			t.Fatalf("channel %d = %d, want ~127", i, dst[i])
		}
	}
}

func TestResize2DUpscalePreservesDimensions(t *testing.T) {
	srcDims := pixelformat.Dims3{X: 2, Y: 2, Z: 1}
	dstDims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	src := make([]byte, 2*2*4)
	for i := range src {
		src[i] = byte(i * 16)
	}
	dst := make([]byte, 4*4*4)

	pool := workerpool.New(2)
	if err := Resize2D(dst, dstDims, pixelformat.SourceFormatRGBA8, src, srcDims, pixelformat.SourceFormatRGBA8, FilterMitchell, false, pool); err != nil {
		t.Fatalf("Resize2D: %v", err)
	}
}

func TestResize2DTilableWrapsNeighbors(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 1, Z: 1}
	src := []byte{255, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255}
	dst := make([]byte, 4*4)
	pool := workerpool.New(1)
	if err := Resize2D(dst, dims, pixelformat.SourceFormatRGBA8, src, dims, pixelformat.SourceFormatRGBA8, FilterMitchell, true, pool); err != nil {
		t.Fatalf("Resize2D: %v", err)
	}
}

func TestSelectFilterDefaultPicksAlphaAwareKernel(t *testing.T) {
	if got := SelectFilter(SelectorDefault, true); got != FilterCubicBSpline {
		t.Fatalf("SelectFilter(Default, alpha) = %v, want CubicBSpline", got)
	}
	if got := SelectFilter(SelectorDefault, false); got != FilterMitchell {
		t.Fatalf("SelectFilter(Default, no alpha) = %v, want Mitchell", got)
	}
}

func TestSelectFilterPostProcessUsesMitchell(t *testing.T) {
	if got := SelectFilter(SelectorGaussianBlur5, false); got != FilterMitchell {
		t.Fatalf("SelectFilter(GaussianBlur5) = %v, want Mitchell", got)
	}
	if !NeedsPostProcess(SelectorGaussianBlur5) {
		t.Fatal("expected GaussianBlur5 to need a post-process pass")
	}
	if !NeedsPostProcess(SelectorContrastAdaptiveSharpen3) {
		t.Fatal("expected CAS3 to need a post-process pass")
	}
	if NeedsPostProcess(SelectorBox) {
		t.Fatal("expected Box to not need a post-process pass")
	}
}

func TestSelectorSharpenLevel(t *testing.T) {
	if got := SelectorContrastAdaptiveSharpen5.SharpenLevel(); got != 5 {
		t.Fatalf("SharpenLevel = %d, want 5", got)
	}
	if got := SelectorGaussianBlur7.GaussianWindowSize(); got != 7 {
		t.Fatalf("GaussianWindowSize = %d, want 7", got)
	}
}
