package compression

import (
	"fmt"

	astc "github.com/arm-software/astc-encoder"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// ASTC wraps the pure-Go ASTC block encoder for the ASTC4x4 and
// ASTC8x8 output formats. Unlike BC, no hand-rolled block loop is
// needed: the encoder takes a full RGBA32F image per mip and block
// size.
type ASTC struct {
	pixelFormat  pixelformat.Format
	sourceFormat pixelformat.SourceFormat
	gamma        pixelformat.GammaSpace
	blockX       int
	blockY       int
}

func NewASTC4x4(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *ASTC {
	return &ASTC{pixelformat.FormatASTC4x4, sourceFormat, gamma, 4, 4}
}

func NewASTC8x8(sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *ASTC {
	return &ASTC{pixelformat.FormatASTC8x8, sourceFormat, gamma, 8, 8}
}

func (c *ASTC) Format() pixelformat.Format { return c.pixelFormat }

func (c *ASTC) Supports(props texturesource.Properties, settings Settings) bool {
	return props.SourceFormat == c.sourceFormat && props.Gamma == c.gamma
}

func (c *ASTC) compress(view pixelformat.View, src *texturesource.Source, settings Settings) (*Resource, error) {
	props := src.Properties()
	if err := requireView(props, view); err != nil {
		return nil, err
	}

	decode := pixelformat.SourceEncoding(props.SourceFormat).DecodeRGBA32F
	texcore.Invariant(decode != nil, "compression: no decode kernel for %v", props.SourceFormat)
	bpp := pixelformat.BytesPerPixel(props.SourceFormat)

	dstSize := pixelformat.OutputSizeInBytes(c.pixelFormat, props.Dimensions, props.NumMips, props.NumSlices)
	bulk := texturesource.NewBulkData(dstSize)

	reader := src.ReaderScope()
	defer reader.Close()
	srcBuf := reader.Bytes()
	writer := bulk.LockWrite()
	dstBuf := writer.Bytes()
	defer writer.Close()

	dims := props.Dimensions
	dstOffset := uint64(0)
	for m := uint32(0); m < props.NumMips; m++ {
		mipSrc, err := src.MipData(srcBuf, m, 1, 0)
		if err != nil {
			return nil, err
		}

		w, h := int(dims.X), int(dims.Y)
		pix := make([]float32, w*h*4)
		for i := 0; i < w*h; i++ {
			px := mipSrc[i*bpp : i*bpp+bpp]
			col := decode(px)
			pix[i*4+0] = col.R
			pix[i*4+1] = col.G
			pix[i*4+2] = col.B
			pix[i*4+3] = col.A
		}

		encoded, err := astc.EncodeRGBAF32(pix, w, h, c.blockX, c.blockY)
		if err != nil {
			return nil, fmt.Errorf("%w: astc encode failed at mip %d: %w", texcore.ErrDecoderError, m, err)
		}
		copy(dstBuf[dstOffset:dstOffset+uint64(len(encoded))], encoded)
		dstOffset += uint64(len(encoded))
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

func (c *ASTC) Compress2D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View2D, src, settings)
}
func (c *ASTC) Compress2DArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View2DArray, src, settings)
}
func (c *ASTC) Compress3D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.View3D, src, settings)
}
func (c *ASTC) CompressCube(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.ViewCube, src, settings)
}
func (c *ASTC) CompressCubeArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return c.compress(pixelformat.ViewCubeArray, src, settings)
}

var _ Compression = (*ASTC)(nil)
