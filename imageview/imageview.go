// Package imageview is the typed, read-modify-write lens over a slice
// of bulk texture data: a non-owning value type carrying dimensions,
// row/slice pitch, pixel format and cached decode/encode kernels,
// exposing Load/Store at integer and normalized coordinates.
package imageview

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
)

// Filter selects the sampling kernel used by Load at float coordinates.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterCubic
)

// Coord is an integer texel address.
type Coord struct{ X, Y, Z int }

// View is a non-owning lens over bytes: dimensions, pitches, format
// and a tiling flag, plus the decode/encode kernels resolved once at
// construction from the pixel-format registry.
type View struct {
	bytes      []byte
	dims       pixelformat.Dims3
	rowPitch   int
	slicePitch int
	bpp        int
	format     pixelformat.SourceFormat
	tilable    bool
	decode     func(px []byte) pixelformat.Rgba32F
	encode     func(c pixelformat.Rgba32F, px []byte)
}

// New builds a View over buf, interpreting it as a tightly packed 2D
// (or 3D) image of dims texels in format, with rowPitch =
// width*bpp (bpp in bytes per texel) and slicePitch = rowPitch*height.
func New(buf []byte, dims pixelformat.Dims3, format pixelformat.SourceFormat, tilable bool) *View {
	enc := pixelformat.SourceEncoding(format)
	bpp := pixelformat.BytesPerPixel(format)
	rowPitch := bpp * int(dims.X)
	slicePitch := rowPitch * int(dims.Y)
	expected := slicePitch * int(dims.Z)
	texcore.Invariant(len(buf) >= expected, "imageview: buffer too small: have %d, need %d", len(buf), expected)

	return &View{
		bytes:      buf,
		dims:       dims,
		rowPitch:   rowPitch,
		slicePitch: slicePitch,
		bpp:        bpp,
		format:     format,
		tilable:    tilable,
		decode:     enc.DecodeRGBA32F,
		encode:     enc.EncodeRGBA32F,
	}
}

func (v *View) Dims() pixelformat.Dims3      { return v.dims }
func (v *View) Format() pixelformat.SourceFormat { return v.format }
func (v *View) RowPitch() int                { return v.rowPitch }
func (v *View) SlicePitch() int              { return v.slicePitch }
func (v *View) BytesPerPixel() int           { return v.bpp }
func (v *View) Tilable() bool                { return v.tilable }
func (v *View) Bytes() []byte                { return v.bytes }

// Row returns the w*bpp contiguous bytes of row y in slice z.
func (v *View) Row(y, z int) []byte {
	texcore.Invariant(y >= 0 && y < int(v.dims.Y) && z >= 0 && z < int(v.dims.Z), "imageview: Row(%d,%d) out of bounds", y, z)
	start := z*v.slicePitch + y*v.rowPitch
	return v.bytes[start : start+v.rowPitch]
}

// Slice returns the slicePitch bytes of slice z.
func (v *View) Slice(z int) []byte {
	texcore.Invariant(z >= 0 && z < int(v.dims.Z), "imageview: Slice(%d) out of bounds", z)
	start := z * v.slicePitch
	return v.bytes[start : start+v.slicePitch]
}

// Pixel returns the bpp bytes backing texel p, after wrapping or
// clamping per the tiling mode.
func (v *View) Pixel(p Coord) []byte {
	p = v.resolveCoord(p)
	offset := p.Z*v.slicePitch + p.Y*v.rowPitch + p.X*v.bpp
	return v.bytes[offset : offset+v.bpp]
}

func wrapOrClamp(i, n int, tilable bool) int {
	if tilable {
		m := i % n
		if m < 0 {
			m += n
		}
		return m
	}
	return mathutil.Clamp(i, 0, n-1)
}

func (v *View) resolveCoord(p Coord) Coord {
	return Coord{
		X: wrapOrClamp(p.X, int(v.dims.X), v.tilable),
		Y: wrapOrClamp(p.Y, int(v.dims.Y), v.tilable),
		Z: wrapOrClamp(p.Z, int(v.dims.Z), v.tilable),
	}
}

// Load decodes the texel at integer coordinate p.
func (v *View) Load(p Coord) pixelformat.Rgba32F {
	texcore.Invariant(v.decode != nil, "imageview: format %v has no decode kernel", v.format)
	return v.decode(v.Pixel(p))
}

// Store encodes c into the texel at integer coordinate p.
func (v *View) Store(p Coord, c pixelformat.Rgba32F) {
	texcore.Invariant(v.encode != nil, "imageview: format %v has no encode kernel", v.format)
	v.encode(c, v.Pixel(p))
}

const epsilon = 1e-5

// LoadUVW samples at normalized texture coordinates uvw in [-1,1]^3
// using the requested filter.
func (v *View) LoadUVW(uvw [3]float32, filter Filter) (pixelformat.Rgba32F, error) {
	switch filter {
	case FilterNearest:
		return v.loadNearest(uvw), nil
	case FilterLinear:
		return v.loadLinear(uvw), nil
	case FilterCubic:
		return pixelformat.Rgba32F{}, fmt.Errorf("%w: cubic filtering is not implemented", texcore.ErrInvalidArgument)
	default:
		return pixelformat.Rgba32F{}, fmt.Errorf("%w: unknown filter %d", texcore.ErrInvalidArgument, filter)
	}
}

func (v *View) texelCoord(uvw [3]float32) [3]float32 {
	dims := [3]float32{float32(v.dims.X), float32(v.dims.Y), float32(v.dims.Z)}
	var out [3]float32
	for i := 0; i < 3; i++ {
		out[i] = (uvw[i]+1)/2*dims[i] + (0.5 - epsilon)
	}
	return out
}

func (v *View) loadNearest(uvw [3]float32) pixelformat.Rgba32F {
	pf := v.texelCoord(uvw)
	p := Coord{
		X: int(floorf(pf[0])),
		Y: int(floorf(pf[1])),
		Z: int(floorf(pf[2])),
	}
	return v.Load(p)
}

func floorf(f float32) float32 {
	i := float32(int64(f))
	if f < 0 && i != f {
		i--
	}
	return i
}

func (v *View) loadLinear(uvw [3]float32) pixelformat.Rgba32F {
	pointf := v.texelCoord(uvw)
	p000 := Coord{int(floorf(pointf[0])), int(floorf(pointf[1])), int(floorf(pointf[2]))}
	dimsMax := Coord{int(v.dims.X) - 1, int(v.dims.Y) - 1, int(v.dims.Z) - 1}
	p111 := Coord{
		X: minInt(p000.X+1, dimsMax.X),
		Y: minInt(p000.Y+1, dimsMax.Y),
		Z: minInt(p000.Z+1, dimsMax.Z),
	}
	if p000 == p111 {
		return v.Load(p000)
	}

	fx := mathutil.Smoothstep(pointf[0] - float32(p000.X))
	fy := mathutil.Smoothstep(pointf[1] - float32(p000.Y))

	c00 := lerpColor(v.Load(Coord{p000.X, p000.Y, p000.Z}), v.Load(Coord{p111.X, p000.Y, p000.Z}), fx)
	c10 := lerpColor(v.Load(Coord{p000.X, p111.Y, p000.Z}), v.Load(Coord{p111.X, p111.Y, p000.Z}), fx)
	top := lerpColor(c00, c10, fy)

	if p111.Z == p000.Z {
		return top
	}

	fz := mathutil.Smoothstep(pointf[2] - float32(p000.Z))
	c01 := lerpColor(v.Load(Coord{p000.X, p000.Y, p111.Z}), v.Load(Coord{p111.X, p000.Y, p111.Z}), fx)
	c11 := lerpColor(v.Load(Coord{p000.X, p111.Y, p111.Z}), v.Load(Coord{p111.X, p111.Y, p111.Z}), fx)
	bottom := lerpColor(c01, c11, fy)

	return lerpColor(top, bottom, fz)
}

func lerpColor(a, b pixelformat.Rgba32F, t float32) pixelformat.Rgba32F {
	return pixelformat.Rgba32F{
		R: mathutil.Lerp(a.R, b.R, t),
		G: mathutil.Lerp(a.G, b.G, t),
		B: mathutil.Lerp(a.B, b.B, t),
		A: mathutil.Lerp(a.A, b.A, t),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
