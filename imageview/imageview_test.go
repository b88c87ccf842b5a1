package imageview

import (
	"math"
	"testing"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
)

func TestStoreThenLoadRoundtrips(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)

	c := pixelformat.Rgba32F{R: 0.25, G: 0.5, B: 0.75, A: 1}
	v.Store(Coord{1, 2, 0}, c)
	got := v.Load(Coord{1, 2, 0})
	if math.Abs(float64(got.R-c.R)) > 0.01 || math.Abs(float64(got.G-c.G)) > 0.01 {
		t.Fatalf("roundtrip = %+v, want ~%+v", got, c)
	}
}

func TestClampEdgeMode(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	v.Store(Coord{0, 0, 0}, pixelformat.Rgba32F{R: 1, A: 1})

	got := v.Load(Coord{-5, 0, 0})
	want := v.Load(Coord{0, 0, 0})
	if got != want {
		t.Fatalf("clamped load = %+v, want %+v", got, want)
	}
}

func TestWrapEdgeMode(t *testing.T) {
	dims := pixelformat.Dims3{X: 4, Y: 4, Z: 1}
	buf := make([]byte, 4*4*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, true)
	v.Store(Coord{0, 0, 0}, pixelformat.Rgba32F{R: 1, A: 1})

	got := v.Load(Coord{4, 0, 0})
	want := v.Load(Coord{0, 0, 0})
	if got != want {
		t.Fatalf("wrapped load = %+v, want %+v", got, want)
	}
	got2 := v.Load(Coord{-1, 0, 0})
	want2 := v.Load(Coord{3, 0, 0})
	if got2 != want2 {
		t.Fatalf("negative wrap load = %+v, want %+v", got2, want2)
	}
}

func TestRowReturnsExactSize(t *testing.T) {
	dims := pixelformat.Dims3{X: 5, Y: 3, Z: 1}
	buf := make([]byte, 5*3*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	row := v.Row(1, 0)
	if len(row) != 5*4 {
		t.Fatalf("row size = %d, want %d", len(row), 5*4)
	}
}

func TestLoadUVWNearestCenter(t *testing.T) {
	dims := pixelformat.Dims3{X: 2, Y: 2, Z: 1}
	buf := make([]byte, 2*2*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	v.Store(Coord{0, 0, 0}, pixelformat.Rgba32F{R: 1, A: 1})
	v.Store(Coord{1, 0, 0}, pixelformat.Rgba32F{G: 1, A: 1})

	got, err := v.LoadUVW([3]float32{-0.5, -0.5, 0}, FilterNearest)
	if err != nil {
		t.Fatalf("LoadUVW: %v", err)
	}
	if got.R < 0.9 {
		t.Fatalf("expected nearest sample near texel (0,0), got %+v", got)
	}
}

func TestLoadUVWCubicUnimplemented(t *testing.T) {
	dims := pixelformat.Dims3{X: 2, Y: 2, Z: 1}
	buf := make([]byte, 2*2*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	if _, err := v.LoadUVW([3]float32{0, 0, 0}, FilterCubic); err == nil {
		t.Fatal("expected error for cubic filter")
	}
}

func TestLoadUVWLinearBlendsNeighbors(t *testing.T) {
	dims := pixelformat.Dims3{X: 2, Y: 1, Z: 1}
	buf := make([]byte, 2*1*4)
	v := New(buf, dims, pixelformat.SourceFormatRGBA8, false)
	v.Store(Coord{0, 0, 0}, pixelformat.Rgba32F{R: 0, A: 1})
	v.Store(Coord{1, 0, 0}, pixelformat.Rgba32F{R: 1, A: 1})

	got, err := v.LoadUVW([3]float32{-0.75, 0, 0}, FilterLinear)
	if err != nil {
		t.Fatalf("LoadUVW: %v", err)
	}
	if got.R <= 0 || got.R >= 1 {
		t.Fatalf("expected a blended value strictly between 0 and 1, got %v", got.R)
	}
}
