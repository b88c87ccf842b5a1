package pixelformat

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/texcore"
)

// SourceFormat is the uncompressed sample format used for authored
// texture data, before any GPU-ready compression is applied.
type SourceFormat int

const (
	SourceFormatUnknown SourceFormat = iota
	SourceFormatBGRA8
	SourceFormatBGRE8
	SourceFormatG16
	SourceFormatG8
	SourceFormatR16f
	SourceFormatRG16
	SourceFormatRG8
	SourceFormatRA16
	SourceFormatRA8
	SourceFormatRGBA16
	SourceFormatRGBA16f
	SourceFormatRGBA32f
	SourceFormatRGBA8
)

func (f SourceFormat) String() string {
	switch f {
	case SourceFormatBGRA8:
		return "BGRA8"
	case SourceFormatBGRE8:
		return "BGRE8"
	case SourceFormatG16:
		return "G16"
	case SourceFormatG8:
		return "G8"
	case SourceFormatR16f:
		return "R16f"
	case SourceFormatRG16:
		return "RG16"
	case SourceFormatRG8:
		return "RG8"
	case SourceFormatRA16:
		return "RA16"
	case SourceFormatRA8:
		return "RA8"
	case SourceFormatRGBA16:
		return "RGBA16"
	case SourceFormatRGBA16f:
		return "RGBA16f"
	case SourceFormatRGBA32f:
		return "RGBA32f"
	case SourceFormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("SourceFormat(%d)", int(f))
	}
}

type sourceFormatInfo struct {
	bytesPerPixel int
	components    int
	colorMask     ColorMask
	canHoldHDR    bool
	isFloat       bool
	canCompressJPEG bool
	canCompressPNG  bool
}

var sourceFormatTable = map[SourceFormat]sourceFormatInfo{
	SourceFormatBGRA8:   {4, 4, MaskR | MaskG | MaskB | MaskA, false, false, true, true},
	SourceFormatBGRE8:   {4, 4, MaskR | MaskG | MaskB | MaskA, true, true, false, false},
	SourceFormatG16:     {2, 1, MaskR, false, false, false, true},
	SourceFormatG8:      {1, 1, MaskR, false, false, false, true},
	SourceFormatR16f:    {2, 1, MaskR, false, true, false, false},
	SourceFormatRG16:    {4, 2, MaskR | MaskG, false, false, false, true},
	SourceFormatRG8:     {2, 2, MaskR | MaskG, false, false, false, true},
	SourceFormatRA16:    {4, 2, MaskR | MaskA, false, false, false, true},
	SourceFormatRA8:     {2, 2, MaskR | MaskA, false, false, false, true},
	SourceFormatRGBA16:  {8, 4, MaskR | MaskG | MaskB | MaskA, false, false, false, true},
	SourceFormatRGBA16f: {8, 4, MaskR | MaskG | MaskB | MaskA, true, true, false, false},
	SourceFormatRGBA32f: {16, 4, MaskR | MaskG | MaskB | MaskA, true, true, false, false},
	SourceFormatRGBA8:   {4, 4, MaskR | MaskG | MaskB | MaskA, false, false, false, true},
}

func lookupSourceFormat(f SourceFormat) sourceFormatInfo {
	info, ok := sourceFormatTable[f]
	if !ok {
		texcore.Invariant(false, "pixelformat: unknown source format %v", f)
	}
	return info
}

// BytesPerPixel returns the tightly-packed byte size of one texel of f.
func BytesPerPixel(f SourceFormat) int { return lookupSourceFormat(f).bytesPerPixel }

// Components returns the channel count of f (1 to 4).
func Components(f SourceFormat) int { return lookupSourceFormat(f).components }

// ColorMaskOf returns the default color mask implied by f's channel
// layout.
func ColorMaskOf(f SourceFormat) ColorMask { return lookupSourceFormat(f).colorMask }

// CanHoldHDR reports whether f can represent values outside [0,1]
// without clamping (BGRE8's shared exponent, or any float format).
func CanHoldHDR(f SourceFormat) bool { return lookupSourceFormat(f).canHoldHDR }

// IsFloat reports whether f stores floating-point or shared-exponent
// samples rather than normalized integers.
func IsFloat(f SourceFormat) bool { return lookupSourceFormat(f).isFloat }

// SourceCompressionIsFloat reports whether compression c only makes
// sense for floating-point payloads (mirrors ETextureSourceCompression
// semantics, reserved for future JPG/PNG-backed storage).
func SourceCompressionIsFloat(c SourceCompression) bool {
	return false
}

// CanCompressWithJPEG reports whether f is eligible for JPEG
// compression in the per-texture storage path. Only BGRA8 qualifies,
// mirroring the original's single-format whitelist.
func CanCompressWithJPEG(f SourceFormat) bool { return lookupSourceFormat(f).canCompressJPEG }

// CanCompressWithPNG reports whether f is eligible for PNG compression
// in the per-texture storage path.
func CanCompressWithPNG(f SourceFormat) bool { return lookupSourceFormat(f).canCompressPNG }

// HasAlphaChannel reports whether f carries a dedicated alpha channel
// (as opposed to simply having 4 components, e.g. BGRE8's shared
// exponent).
func HasAlphaChannel(f SourceFormat) bool {
	switch f {
	case SourceFormatRA8, SourceFormatRA16, SourceFormatRGBA8, SourceFormatRGBA16,
		SourceFormatRGBA16f, SourceFormatRGBA32f, SourceFormatBGRA8:
		return true
	default:
		return false
	}
}

// Dims3 is a triple of unsigned dimensions (width, height, depth).
type Dims3 struct {
	X, Y, Z uint32
}

func (d Dims3) Max() uint32 {
	m := d.X
	if d.Y > m {
		m = d.Y
	}
	if d.Z > m {
		m = d.Z
	}
	return m
}

// NextMip halves each dimension, flooring at 1.
func NextMip(d Dims3) Dims3 {
	return Dims3{
		X: nextMipComponent(d.X),
		Y: nextMipComponent(d.Y),
		Z: nextMipComponent(d.Z),
	}
}

func nextMipComponent(v uint32) uint32 {
	if v <= 1 {
		return 1
	}
	return v / 2
}

// FullMipCount returns floor(log2(max(dims)))+1.
func FullMipCount(d Dims3) uint32 {
	m := d.Max()
	texcore.Invariant(m > 0, "pixelformat: FullMipCount requires positive dimensions")
	count := uint32(1)
	for m > 1 {
		m >>= 1
		count++
	}
	return count
}

// MipRange returns the dimensions of every mip level from 0 to
// numMips-1 inclusive.
func MipRange(d Dims3, numMips uint32) []Dims3 {
	out := make([]Dims3, numMips)
	cur := d
	for m := uint32(0); m < numMips; m++ {
		out[m] = cur
		cur = NextMip(cur)
	}
	return out
}

// SliceRange returns the byte offset of each slice for a texture with
// numSlices slices, each of size sliceSizeInBytes.
func SliceRange(sliceSizeInBytes uint64, numSlices uint32) []uint64 {
	out := make([]uint64, numSlices)
	for s := uint32(0); s < numSlices; s++ {
		out[s] = uint64(s) * sliceSizeInBytes
	}
	return out
}

// SizeInBytes returns the total byte size of a texture source with the
// given format, dimensions, mip and slice count: the sum over mips of
// bytesPerPixel*w*h*d, times numSlices.
func SizeInBytes(f SourceFormat, d Dims3, numMips, numSlices uint32) uint64 {
	bpp := uint64(BytesPerPixel(f))
	var mipTotal uint64
	cur := d
	for m := uint32(0); m < numMips; m++ {
		mipTotal += bpp * uint64(cur.X) * uint64(cur.Y) * uint64(cur.Z)
		cur = NextMip(cur)
	}
	return mipTotal * uint64(numSlices)
}
