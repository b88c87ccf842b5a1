package pixelformat

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/texcore"
)

// Aspect is a bitset of the planes a pixel format exposes.
type Aspect uint8

const (
	AspectColor Aspect = 1 << iota
	AspectDepth
	AspectStencil
	AspectMetadata
)

func (a Aspect) Has(flag Aspect) bool { return a&flag != 0 }

// ValueType classifies how a format's color samples are stored and
// interpreted.
type ValueType int

const (
	ValueUnknown ValueType = iota
	ValueSNorm
	ValueUNorm
	ValueInt
	ValueUInt
	ValueFloat
	ValueDepth
	ValueStencil
	ValueSRGB
)

// Dim2 is a 2D block size, either {1,1} for linear formats or {4,4} for
// block-compressed formats.
type Dim2 struct{ X, Y int }

// Format enumerates every pixel format the output side of the pipeline
// can target: uncompressed GPU formats plus the block-compressed (BC)
// and ASTC families.
type Format int

const (
	FormatUnknown Format = iota
	FormatBGRA8UNorm
	FormatSBGR8A8
	FormatR16UNorm
	FormatR8UNorm
	FormatR16f
	FormatRG16UNorm
	FormatRG8UNorm
	FormatRGBA16UNorm
	FormatRGBA16f
	FormatRGBA32f
	FormatRGBA8UNorm
	FormatSRGB8A8
	FormatBC1
	FormatBC3
	FormatBC4
	FormatBC5
	FormatASTC4x4
	FormatASTC8x8
)

func (f Format) String() string {
	switch f {
	case FormatBGRA8UNorm:
		return "BGRA8_UNorm"
	case FormatSBGR8A8:
		return "sBGR8_A8"
	case FormatR16UNorm:
		return "R16_UNorm"
	case FormatR8UNorm:
		return "R8_UNorm"
	case FormatR16f:
		return "R16f"
	case FormatRG16UNorm:
		return "RG16_UNorm"
	case FormatRG8UNorm:
		return "RG8_UNorm"
	case FormatRGBA16UNorm:
		return "RGBA16_UNorm"
	case FormatRGBA16f:
		return "RGBA16f"
	case FormatRGBA32f:
		return "RGBA32f"
	case FormatRGBA8UNorm:
		return "RGBA8_UNorm"
	case FormatSRGB8A8:
		return "sRGB8_A8"
	case FormatBC1:
		return "BC1"
	case FormatBC3:
		return "BC3"
	case FormatBC4:
		return "BC4"
	case FormatBC5:
		return "BC5"
	case FormatASTC4x4:
		return "ASTC_4x4"
	case FormatASTC8x8:
		return "ASTC_8x8"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Descriptor is the static record backing Infos: aspect mask, value
// class, block dimensions and bits-per-block for color and stencil
// planes, plus channel count.
type Descriptor struct {
	Format             Format
	AspectMask         Aspect
	ValueType          ValueType
	BlockDim           Dim2
	BitsPerBlockColor  int
	BitsPerBlockStencil int
	Channels           int
}

var descriptorTable = map[Format]Descriptor{
	FormatBGRA8UNorm:  {FormatBGRA8UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 32, 0, 4},
	FormatSBGR8A8:     {FormatSBGR8A8, AspectColor, ValueSRGB, Dim2{1, 1}, 32, 0, 4},
	FormatR16UNorm:    {FormatR16UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 16, 0, 1},
	FormatR8UNorm:     {FormatR8UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 8, 0, 1},
	FormatR16f:        {FormatR16f, AspectColor, ValueFloat, Dim2{1, 1}, 16, 0, 1},
	FormatRG16UNorm:   {FormatRG16UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 32, 0, 2},
	FormatRG8UNorm:    {FormatRG8UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 16, 0, 2},
	FormatRGBA16UNorm: {FormatRGBA16UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 64, 0, 4},
	FormatRGBA16f:     {FormatRGBA16f, AspectColor, ValueFloat, Dim2{1, 1}, 64, 0, 4},
	FormatRGBA32f:     {FormatRGBA32f, AspectColor, ValueFloat, Dim2{1, 1}, 128, 0, 4},
	FormatRGBA8UNorm:  {FormatRGBA8UNorm, AspectColor, ValueUNorm, Dim2{1, 1}, 32, 0, 4},
	FormatSRGB8A8:     {FormatSRGB8A8, AspectColor, ValueSRGB, Dim2{1, 1}, 32, 0, 4},
	FormatBC1:         {FormatBC1, AspectColor, ValueUNorm, Dim2{4, 4}, 64, 0, 4},
	FormatBC3:         {FormatBC3, AspectColor, ValueUNorm, Dim2{4, 4}, 128, 0, 4},
	FormatBC4:         {FormatBC4, AspectColor, ValueUNorm, Dim2{4, 4}, 64, 0, 1},
	FormatBC5:         {FormatBC5, AspectColor, ValueUNorm, Dim2{4, 4}, 128, 0, 2},
	FormatASTC4x4:     {FormatASTC4x4, AspectColor, ValueUNorm, Dim2{4, 4}, 128, 0, 4},
	FormatASTC8x8:     {FormatASTC8x8, AspectColor, ValueUNorm, Dim2{8, 8}, 128, 0, 4},
}

// Infos returns the static descriptor for format. Panics on Unknown or
// any other unregistered value: querying the sentinel format is a
// caller bug, not a recoverable condition.
func Infos(format Format) Descriptor {
	d, ok := descriptorTable[format]
	texcore.Invariant(ok, "pixelformat: Infos called on invalid format %v", format)
	return d
}

// BitsPerPixel returns bitsPerBlock/(blockDim.x*blockDim.y) for the
// requested aspect, picking the color or stencil bit count. Asserts
// aspect is a subset of the format's aspect mask.
func BitsPerPixel(format Format, aspect Aspect) int {
	d := Infos(format)
	texcore.Invariant(d.AspectMask&aspect == aspect, "pixelformat: aspect %v not present on %v", aspect, format)
	blockTexels := d.BlockDim.X * d.BlockDim.Y
	if aspect == AspectStencil {
		return d.BitsPerBlockStencil / blockTexels
	}
	return d.BitsPerBlockColor / blockTexels
}

// ToImageAspect derives the aspect set a format exposes: Color is
// always present for the formats in this registry, Depth/Stencil are
// added when the value type implies them.
func ToImageAspect(format Format) Aspect {
	d := Infos(format)
	aspect := Aspect(0)
	if d.ValueType != ValueDepth && d.ValueType != ValueStencil {
		aspect |= AspectColor
	}
	if d.ValueType == ValueDepth {
		aspect |= AspectDepth
	}
	if d.ValueType == ValueStencil {
		aspect |= AspectStencil
	}
	return aspect
}

func IsDepth(format Format) bool        { return Infos(format).ValueType == ValueDepth }
func IsStencil(format Format) bool      { return Infos(format).ValueType == ValueStencil }
func IsDepthStencil(format Format) bool { return IsDepth(format) && IsStencil(format) }
func IsColor(format Format) bool        { return ToImageAspect(format).Has(AspectColor) }
func HasDepth(format Format) bool       { return ToImageAspect(format).Has(AspectDepth) }
func HasStencil(format Format) bool     { return ToImageAspect(format).Has(AspectStencil) }

// IsBlockCompressed reports whether format's unit is larger than a
// single texel (BC/ASTC families).
func IsBlockCompressed(format Format) bool {
	d := Infos(format)
	return d.BlockDim.X > 1 || d.BlockDim.Y > 1
}

// OutputSizeInBytes computes the byte size of an output-format texture
// with the given dimensions, mip and slice count, accounting for
// block-compressed formats (ceil(dim/blockDim) blocks per axis).
func OutputSizeInBytes(format Format, dims Dims3, numMips, numSlices uint32) uint64 {
	d := Infos(format)
	bitsPerBlock := uint64(d.BitsPerBlockColor)
	var mipTotal uint64
	cur := dims
	for m := uint32(0); m < numMips; m++ {
		blocksX := uint64(ceilDiv(int(cur.X), d.BlockDim.X))
		blocksY := uint64(ceilDiv(int(cur.Y), d.BlockDim.Y))
		mipTotal += blocksX * blocksY * uint64(cur.Z) * bitsPerBlock / 8
		cur = NextMip(cur)
	}
	return mipTotal * uint64(numSlices)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
