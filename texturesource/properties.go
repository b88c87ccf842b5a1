// Package texturesource implements the canonical in-memory texture
// representation: a properties record plus an owned bulk byte buffer,
// with mip/slice byte-range arithmetic and scoped reader/writer access.
package texturesource

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
)

// Properties is the plain record describing a texture source's shape:
// dimensions, mip/slice counts, gamma, flags, source pixel format,
// color mask and view kind, plus provenance fields naming where the
// data came from.
type Properties struct {
	Dimensions   pixelformat.Dims3
	NumMips      uint32
	NumSlices    uint32
	Gamma        pixelformat.GammaSpace
	Flags        pixelformat.SourceFlags
	SourceFormat pixelformat.SourceFormat
	ColorMask    pixelformat.ColorMask
	ImageView    pixelformat.View
	Compression  pixelformat.SourceCompression

	// Name and SourceFile are informational provenance, not part of the
	// byte layout: Name is an arbitrary caller-assigned label, SourceFile
	// the import path (if any) used for re-export attribution.
	Name       string
	SourceFile string
}

func (p Properties) Width() uint32  { return p.Dimensions.X }
func (p Properties) Height() uint32 { return p.Dimensions.Y }
func (p Properties) Depth() uint32  { return p.Dimensions.Z }

func (p Properties) NumComponents() int { return pixelformat.Components(p.SourceFormat) }

func (p Properties) HasAlpha() bool {
	return p.ColorMask&pixelformat.MaskA != 0 && p.NumComponents() >= 2 && p.formatHasAlphaChannel()
}

func (p Properties) formatHasAlphaChannel() bool {
	switch p.SourceFormat {
	case pixelformat.SourceFormatRA8, pixelformat.SourceFormatRA16,
		pixelformat.SourceFormatRGBA8, pixelformat.SourceFormatRGBA16,
		pixelformat.SourceFormatRGBA16f, pixelformat.SourceFormatRGBA32f,
		pixelformat.SourceFormatBGRA8:
		return true
	default:
		return false
	}
}

func (p Properties) HasMaskedAlpha() bool {
	return p.HasAlpha() && p.Flags.Has(pixelformat.FlagMaskedAlpha)
}

func (p Properties) HasPreMultipliedAlpha() bool {
	return p.Flags.Has(pixelformat.FlagPreMultipliedAlpha)
}

func (p Properties) IsHDR() bool {
	return p.Flags.Has(pixelformat.FlagHDR)
}

func (p Properties) IsLongLatCubemap() bool {
	return p.Flags.Has(pixelformat.FlagLongLatCubemap)
}

func (p Properties) IsTilable() bool {
	return p.Flags.Has(pixelformat.FlagTilable)
}

func (p Properties) IsSRGB() bool {
	return p.Flags.Has(pixelformat.FlagSRGB) || p.Gamma == pixelformat.GammaSRGB
}

// SizeInBytes returns the total byte size implied by dimensions, mip
// and slice count.
func (p Properties) SizeInBytes() uint64 {
	return pixelformat.SizeInBytes(p.SourceFormat, p.Dimensions, p.NumMips, p.NumSlices)
}

// MipDimensions returns the dimensions of mip level m.
func (p Properties) MipDimensions(m uint32) pixelformat.Dims3 {
	d := p.Dimensions
	for i := uint32(0); i < m; i++ {
		d = pixelformat.NextMip(d)
	}
	return d
}

// MipRange returns the dimensions of every mip level.
func (p Properties) MipRange() []pixelformat.Dims3 {
	return pixelformat.MipRange(p.Dimensions, p.NumMips)
}

// SliceRange returns the byte offset of every slice.
func (p Properties) SliceRange() []uint64 {
	sliceSize := pixelformat.SizeInBytes(p.SourceFormat, p.Dimensions, p.NumMips, 1)
	return pixelformat.SliceRange(sliceSize, p.NumSlices)
}

func (p *Properties) validate() error {
	if p.NumMips == 0 {
		return fmt.Errorf("%w: numMips must be >= 1", texcore.ErrInvalidArgument)
	}
	if p.Dimensions.X == 0 || p.Dimensions.Y == 0 || p.Dimensions.Z == 0 {
		return fmt.Errorf("%w: dimensions must be strictly positive", texcore.ErrInvalidArgument)
	}
	if p.ImageView == pixelformat.ViewUnknown {
		return fmt.Errorf("%w: image view must be set", texcore.ErrInvalidArgument)
	}
	maxMips := pixelformat.FullMipCount(p.Dimensions)
	if p.NumMips > maxMips {
		return fmt.Errorf("%w: numMips %d exceeds full mip count %d", texcore.ErrInvalidArgument, p.NumMips, maxMips)
	}
	return nil
}

func (p *Properties) finalize() {
	p.FinalizeDerived()
}

// FinalizeDerived fills in fields that follow mechanically from the
// others: NumSlices defaults to 1, and the HDR flag is set whenever
// the source format can hold HDR values. Callers building Properties
// by hand (rather than through the New* constructors) should call
// this before Construct.
func (p *Properties) FinalizeDerived() {
	if p.NumSlices == 0 {
		p.NumSlices = 1
	}
	if pixelformat.CanHoldHDR(p.SourceFormat) {
		p.Flags |= pixelformat.FlagHDR
	}
}

// New2D builds properties for a single 2D slice, one mip by default.
func New2D(dims pixelformat.Dims3, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	p := Properties{
		Dimensions:   pixelformat.Dims3{X: dims.X, Y: dims.Y, Z: 1},
		NumMips:      1,
		NumSlices:    1,
		Gamma:        gamma,
		Flags:        flags,
		SourceFormat: format,
		ColorMask:    pixelformat.ColorMaskOf(format),
		ImageView:    pixelformat.View2D,
	}
	p.finalize()
	return p
}

// New2DWithMipChain builds properties for a 2D slice with a full mip
// chain down to 1x1.
func New2DWithMipChain(dims pixelformat.Dims3, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	p := New2D(dims, format, gamma, flags)
	p.NumMips = pixelformat.FullMipCount(p.Dimensions)
	return p
}

// New2DArray builds properties for a stack of numSlices 2D layers.
func New2DArray(dims pixelformat.Dims3, numSlices uint32, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	p := New2D(dims, format, gamma, flags)
	p.NumSlices = numSlices
	p.ImageView = pixelformat.View2DArray
	return p
}

// NewCubeWithMipChain builds properties for a 6-slice cube with a full
// mip chain.
func NewCubeWithMipChain(faceDims pixelformat.Dims3, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	p := New2DWithMipChain(faceDims, format, gamma, flags)
	p.NumSlices = 6
	p.ImageView = pixelformat.ViewCube
	return p
}

// NewCubeArrayWithMipChain builds properties for numCubes*6 slices with
// a full mip chain.
func NewCubeArrayWithMipChain(faceDims pixelformat.Dims3, numCubes uint32, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	p := NewCubeWithMipChain(faceDims, format, gamma, flags)
	p.NumSlices = numCubes * 6
	p.ImageView = pixelformat.ViewCubeArray
	return p
}

// NewVolumeWithMipChain builds properties for a 3D volume stored as
// depth slices stacked vertically (x == y, depth = y/x convention).
func NewVolumeWithMipChain(dims pixelformat.Dims3, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) Properties {
	depth := uint32(1)
	if dims.X > 0 && dims.Y/dims.X > 1 {
		depth = dims.Y / dims.X
	}
	p := Properties{
		Dimensions:   pixelformat.Dims3{X: dims.X, Y: dims.X, Z: depth},
		NumSlices:    1,
		Gamma:        gamma,
		Flags:        flags,
		SourceFormat: format,
		ColorMask:    pixelformat.ColorMaskOf(format),
		ImageView:    pixelformat.View3D,
	}
	p.NumMips = pixelformat.FullMipCount(p.Dimensions)
	p.finalize()
	return p
}
