package pixelformat

import (
	"math"
	"testing"
)

func TestSizeInBytesScalesBySliceCount(t *testing.T) {
	dims := Dims3{64, 64, 1}
	one := SizeInBytes(SourceFormatRGBA8, dims, 1, 1)
	many := SizeInBytes(SourceFormatRGBA8, dims, 1, 5)
	if many != one*5 {
		t.Fatalf("SizeInBytes(k=5) = %d, want %d", many, one*5)
	}
}

func TestSizeInBytesSumsMips(t *testing.T) {
	// 8x8 RGBA8 top mip plus 4x4 plus 2x2 plus 1x1.
	dims := Dims3{8, 8, 1}
	got := SizeInBytes(SourceFormatRGBA8, dims, 4, 1)
	want := uint64(4*(8*8 + 4*4 + 2*2 + 1*1))
	if got != want {
		t.Fatalf("SizeInBytes = %d, want %d", got, want)
	}
}

func TestFullMipCount(t *testing.T) {
	cases := []struct {
		dims Dims3
		want uint32
	}{
		{Dims3{1, 1, 1}, 1},
		{Dims3{8, 8, 1}, 4},
		{Dims3{256, 256, 1}, 9},
		{Dims3{300, 1, 1}, 9},
	}
	for _, c := range cases {
		if got := FullMipCount(c.dims); got != c.want {
			t.Errorf("FullMipCount(%v) = %d, want %d", c.dims, got, c.want)
		}
	}
}

func TestNextMipFloorsAtOne(t *testing.T) {
	got := NextMip(Dims3{1, 3, 1})
	want := Dims3{1, 1, 1}
	if got != want {
		t.Fatalf("NextMip = %v, want %v", got, want)
	}
}

func TestMipRangeMonotonic(t *testing.T) {
	dims := Dims3{16, 16, 1}
	mips := MipRange(dims, FullMipCount(dims))
	for i := 1; i < len(mips); i++ {
		prev, cur := mips[i-1], mips[i]
		if cur.X != maxU32(prev.X/2, 1) || cur.Y != maxU32(prev.Y/2, 1) {
			t.Fatalf("mip %d = %v not a halving of %v", i, cur, prev)
		}
	}
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func TestBitsPerPixelRejectsWrongAspect(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid aspect")
		}
	}()
	BitsPerPixel(FormatRGBA8UNorm, AspectDepth)
}

func TestBitsPerPixelBlockFormat(t *testing.T) {
	if got := BitsPerPixel(FormatBC1, AspectColor); got != 4 {
		t.Fatalf("BC1 bits per pixel = %d, want 4", got)
	}
	if got := BitsPerPixel(FormatBC3, AspectColor); got != 8 {
		t.Fatalf("BC3 bits per pixel = %d, want 8", got)
	}
}

func TestRoundtripRGBA8(t *testing.T) {
	enc := SourceEncoding(SourceFormatRGBA8)
	px := []byte{10, 200, 30, 255}
	c := enc.DecodeRGBA32F(px)
	out := make([]byte, 4)
	enc.EncodeRGBA32F(c, out)
	for i := range px {
		if diff := int(px[i]) - int(out[i]); diff < -1 || diff > 1 {
			t.Fatalf("roundtrip byte %d: got %d, want ~%d", i, out[i], px[i])
		}
	}
}

func TestRoundtripRGBA32f(t *testing.T) {
	enc := SourceEncoding(SourceFormatRGBA32f)
	px := make([]byte, 16)
	in := Rgba32F{1.5, -0.25, 3.0, 0.5}
	enc.EncodeRGBA32F(in, px)
	out := enc.DecodeRGBA32F(px)
	if out != in {
		t.Fatalf("roundtrip = %+v, want %+v", out, in)
	}
}

func TestHalfFloatRoundtrip(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, 3.14159, -100.25}
	for _, v := range values {
		h := Float32ToHalf(v)
		back := HalfToFloat32(h)
		if math.Abs(float64(back-v)) > 0.01 {
			t.Errorf("half roundtrip of %v = %v", v, back)
		}
	}
}

func TestParseImageFormat(t *testing.T) {
	cases := map[string]ImageFormat{
		"png":  ImageFormatPNG,
		".PNG": ImageFormatPNG,
		"TGA":  ImageFormatTGA,
		"jpeg": ImageFormatJPG,
		"xyz":  ImageFormatUnknown,
	}
	for ext, want := range cases {
		if got := ParseImageFormat(ext); got != want {
			t.Errorf("ParseImageFormat(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestImageFormatStringTGANotBuggy(t *testing.T) {
	if got := ImageFormatTGA.String(); got != "tga" {
		t.Fatalf("TGA.String() = %q, want %q", got, "tga")
	}
}

func TestCanCompressWithJPEGOnlyBGRA8(t *testing.T) {
	if !CanCompressWithJPEG(SourceFormatBGRA8) {
		t.Fatal("expected BGRA8 to support JPEG compression")
	}
	if CanCompressWithJPEG(SourceFormatRGBA8) {
		t.Fatal("expected RGBA8 to not support JPEG compression")
	}
}

func TestCanHoldHDR(t *testing.T) {
	if !CanHoldHDR(SourceFormatBGRE8) {
		t.Fatal("expected BGRE8 to hold HDR")
	}
	if !CanHoldHDR(SourceFormatRGBA32f) {
		t.Fatal("expected RGBA32f to hold HDR")
	}
	if CanHoldHDR(SourceFormatRGBA8) {
		t.Fatal("expected RGBA8 to not hold HDR")
	}
}

func TestInfosPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for FormatUnknown")
		}
	}()
	Infos(FormatUnknown)
}
