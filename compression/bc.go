package compression

import (
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// BC is the hand-rolled block-compression family (BC1/BC3/BC4/BC5). No
// importable Go module wraps a DXT/BC block encoder (the only
// reference found is a cgo binding to libsquish with no fetchable
// module path), so the 4x4-block encode loop and endpoint selection
// are implemented natively here; see DESIGN.md.
type BC struct {
	pixelFormat  pixelformat.Format
	sourceFormat pixelformat.SourceFormat
	gamma        pixelformat.GammaSpace
	channels     int // 1 for BC4, 2 for BC5, 4 for BC1/BC3
	hasAlphaBlock bool
}

func NewBC1(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *BC {
	return &BC{pixelformat.FormatBC1, sourceFormat, gamma, 4, false}
}
func NewBC3(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *BC {
	return &BC{pixelformat.FormatBC3, sourceFormat, gamma, 4, true}
}
func NewBC4(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *BC {
	return &BC{pixelformat.FormatBC4, sourceFormat, gamma, 1, false}
}
func NewBC5(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *BC {
	return &BC{pixelformat.FormatBC5, sourceFormat, gamma, 2, false}
}

func (c *BC) Format() pixelformat.Format { return c.pixelFormat }

func (c *BC) Supports(props texturesource.Properties, settings Settings) bool {
	return props.SourceFormat == c.sourceFormat && props.Gamma == c.gamma
}

func (c *BC) blockBytes() int {
	if c.channels <= 2 {
		return 8 * c.channels // BC4: 8, BC5: 16
	}
	if c.hasAlphaBlock {
		return 16 // BC3
	}
	return 8 // BC1
}

func (c *BC) compress(view pixelformat.View, src *texturesource.Source, settings Settings) (*Resource, error) {
	props := src.Properties()
	if err := requireView(props, view); err != nil {
		return nil, err
	}

	dstSize := pixelformat.OutputSizeInBytes(c.pixelFormat, props.Dimensions, props.NumMips, props.NumSlices)
	bulk := texturesource.NewBulkData(dstSize)

	reader := src.ReaderScope()
	defer reader.Close()
	srcBuf := reader.Bytes()
	writer := bulk.LockWrite()
	dstBuf := writer.Bytes()
	defer writer.Close()

	pool := workerpool.Global()
	decode := pixelformat.SourceEncoding(props.SourceFormat).DecodeRGBA32F
	texcore.Invariant(decode != nil, "compression: no decode kernel for %v", props.SourceFormat)

	dims := props.Dimensions
	dstOffset := uint64(0)
	for m := uint32(0); m < props.NumMips; m++ {
		mipSrc, err := src.MipData(srcBuf, m, 1, 0)
		if err != nil {
			return nil, err
		}
		mipSrcView := imageview.New(mipSrc, dims, props.SourceFormat, props.IsTilable())

		blocksX := (int(dims.X) + 3) / 4
		blocksY := (int(dims.Y) + 3) / 4
		blockSize := uint64(c.blockBytes())
		mipDst := dstBuf[dstOffset : dstOffset+uint64(blocksX*blocksY)*blockSize]

		pool.ParallelFor(0, blocksY, func(by int) {
			for bx := 0; bx < blocksX; bx++ {
				var block [16]pixelformat.Rgba32F
				for j := 0; j < 4; j++ {
					for i := 0; i < 4; i++ {
						x := bx*4 + i
						y := by*4 + j
						block[j*4+i] = mipSrcView.Load(imageview.Coord{X: x, Y: y, Z: 0})
					}
				}
				out := mipDst[uint64(by*blocksX+bx)*blockSize : uint64(by*blocksX+bx)*blockSize+blockSize]
				c.encodeBlock(block, out)
			}
		})

		dstOffset += uint64(blocksX*blocksY) * blockSize
		dims = pixelformat.NextMip(dims)
	}

	bulk.SetSourceFile(src.Bulk().SourceFile())
	return &Resource{
		ImageView:  view,
		Format:     c.pixelFormat,
		Gamma:      c.gamma,
		Dimensions: props.Dimensions,
		NumMips:    props.NumMips,
		NumSlices:  props.NumSlices,
		Address:    addressModeFromSource(props),
		SourceFile: src.Bulk().SourceFile(),
		Bulk:       bulk,
	}, nil
}

func (c *BC) encodeBlock(block [16]pixelformat.Rgba32F, out []byte) {
	switch c.channels {
	case 1:
		encodeBC4Channel(block, out, 0)
	case 2:
		encodeBC4Channel(block, out[0:8], 0)
		encodeBC4Channel(block, out[8:16], 1)
	default:
		if c.hasAlphaBlock {
			encodeBC4Channel(block, out[0:8], 3)
			encodeBC1Color(block, out[8:16])
		} else {
			encodeBC1Color(block, out[0:8])
		}
	}
}

func channelOf(c pixelformat.Rgba32F, idx int) float32 {
	switch idx {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	default:
		return c.A
	}
}

// encodeBC4Channel packs one 4x4 channel plane into the 8-byte BC4/DXT5
// alpha block layout: two endpoints followed by 16 3-bit indices.
func encodeBC4Channel(block [16]pixelformat.Rgba32F, out []byte, channel int) {
	lo, hi := float32(1), float32(0)
	for _, px := range block {
		v := channelOf(px, channel)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	e0 := byte(clamp01(hi)*255 + 0.5)
	e1 := byte(clamp01(lo)*255 + 0.5)
	out[0] = e0
	out[1] = e1

	var levels [8]float32
	levels[0], levels[1] = float32(e0), float32(e1)
	if e0 > e1 {
		for i := 1; i <= 6; i++ {
			levels[i+1] = (float32(e0)*float32(7-i) + float32(e1)*float32(i)) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			levels[i+1] = (float32(e0)*float32(5-i) + float32(e1)*float32(i)) / 5
		}
		levels[6] = 0
		levels[7] = 255
	}

	var indices [16]uint8
	for i, px := range block {
		v := clamp01(channelOf(px, channel)) * 255
		best, bestErr := 0, float32(1e9)
		for l := 0; l < 8; l++ {
			d := v - levels[l]
			if d < 0 {
				d = -d
			}
			if d < bestErr {
				bestErr = d
				best = l
			}
		}
		indices[i] = uint8(best)
	}
	packIndices3bit(indices, out[2:8])
}

func packIndices3bit(indices [16]uint8, out []byte) {
	var bits uint64
	for i := 15; i >= 0; i-- {
		bits = bits<<3 | uint64(indices[i]&0x7)
	}
	for i := 0; i < 6; i++ {
		out[i] = byte(bits >> (8 * uint(i)))
	}
}

// encodeBC1Color packs the RGB plane into the 8-byte BC1/DXT1 layout:
// two RGB565 endpoints followed by 16 2-bit indices, always in 4-color
// (no 1-bit alpha) mode.
func encodeBC1Color(block [16]pixelformat.Rgba32F, out []byte) {
	var minC, maxC pixelformat.Rgba32F
	minC = pixelformat.Rgba32F{R: 1, G: 1, B: 1}
	for _, px := range block {
		if px.R < minC.R {
			minC.R = px.R
		}
		if px.G < minC.G {
			minC.G = px.G
		}
		if px.B < minC.B {
			minC.B = px.B
		}
		if px.R > maxC.R {
			maxC.R = px.R
		}
		if px.G > maxC.G {
			maxC.G = px.G
		}
		if px.B > maxC.B {
			maxC.B = px.B
		}
	}

	c0 := pack565(maxC)
	c1 := pack565(minC)
	if c0 == c1 && c0 > 0 {
		c1--
	} else if c0 < c1 {
		c0, c1 = c1, c0
	}
	out[0], out[1] = byte(c0), byte(c0>>8)
	out[2], out[3] = byte(c1), byte(c1>>8)

	pal := [4]pixelformat.Rgba32F{
		unpack565(c0), unpack565(c1), {}, {},
	}
	pal[2] = lerpRGB(pal[0], pal[1], 1.0/3)
	pal[3] = lerpRGB(pal[0], pal[1], 2.0/3)

	var indices [16]uint8
	for i, px := range block {
		best, bestErr := 0, float32(1e9)
		for p := 0; p < 4; p++ {
			d := colorDistSq(px, pal[p])
			if d < bestErr {
				bestErr = d
				best = p
			}
		}
		indices[i] = uint8(best)
	}
	var bits uint32
	for i := 15; i >= 0; i-- {
		bits = bits<<2 | uint32(indices[i]&0x3)
	}
	out[4], out[5], out[6], out[7] = byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func pack565(c pixelformat.Rgba32F) uint16 {
	r := uint16(clamp01(c.R)*31 + 0.5)
	g := uint16(clamp01(c.G)*63 + 0.5)
	b := uint16(clamp01(c.B)*31 + 0.5)
	return r<<11 | g<<5 | b
}

func unpack565(v uint16) pixelformat.Rgba32F {
	r := float32((v>>11)&0x1f) / 31
	g := float32((v>>5)&0x3f) / 63
	b := float32(v&0x1f) / 31
	return pixelformat.Rgba32F{R: r, G: g, B: b, A: 1}
}

func lerpRGB(a, b pixelformat.Rgba32F, t float32) pixelformat.Rgba32F {
	return pixelformat.Rgba32F{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

func colorDistSq(a, b pixelformat.Rgba32F) float32 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return dr*dr + dg*dg + db*db
}

func (c *BC) Compress2D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View2D, src, settings)
}
func (c *BC) Compress2DArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View2DArray, src, settings)
}
func (c *BC) Compress3D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View3D, src, settings)
}
func (c *BC) CompressCube(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.ViewCube, src, settings)
}
func (c *BC) CompressCubeArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.ViewCubeArray, src, settings)
}

var _ Compression = (*BC)(nil)
