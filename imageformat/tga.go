package imageformat

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// TGA implements the uncompressed 32-bit-per-pixel Truevision TGA
// container (image type 2) by hand: no importable module exposes a
// TGA codec, and the format itself is simple enough (an 18-byte
// header followed by raw BGRA rows) that hand-rolling it is the
// idiomatic choice rather than pulling in an unrelated dependency
// just for this one container.
type TGA struct{}

func NewTGA() *TGA { return &TGA{} }

func (TGA) Kind() pixelformat.ImageFormat { return pixelformat.ImageFormatTGA }

func (TGA) Whitelist() []pixelformat.SourceFormat {
	return []pixelformat.SourceFormat{pixelformat.SourceFormatRGBA8, pixelformat.SourceFormatBGRA8}
}

func (t TGA) Supports(format pixelformat.SourceFormat) bool {
	return supportsFromList(t.Whitelist(), format)
}

const tgaHeaderSize = 18

func (t TGA) Import(r io.Reader) (*texturesource.Source, error) {
	header := make([]byte, tgaHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: tga header: %w", texcore.ErrDecoderError, err)
	}
	imageType := header[2]
	if imageType != 2 {
		return nil, fmt.Errorf("%w: tga: only uncompressed truecolor (type 2) is supported, got type %d", texcore.ErrDecoderError, imageType)
	}
	idLength := header[0]
	width := int(binary.LittleEndian.Uint16(header[12:14]))
	height := int(binary.LittleEndian.Uint16(header[14:16]))
	bpp := int(header[16])
	descriptor := header[17]
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: tga: unsupported bit depth %d", texcore.ErrDecoderError, bpp)
	}
	if idLength > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(idLength)); err != nil {
			return nil, fmt.Errorf("%w: tga image id: %w", texcore.ErrDecoderError, err)
		}
	}

	bytesPerTexel := bpp / 8
	raw := make([]byte, width*height*bytesPerTexel)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: tga pixel data: %w", texcore.ErrDecoderError, err)
	}

	topOrigin := descriptor&0x20 != 0

	props := texturesource.New2D(pixelformat.Dims3{X: uint32(width), Y: uint32(height)}, pixelformat.SourceFormatBGRA8, pixelformat.GammaSRGB, 0)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		return nil, err
	}
	writer := src.WriterScope()
	defer writer.Close()
	dst := writer.Bytes()

	for y := 0; y < height; y++ {
		srcY := y
		if !topOrigin {
			srcY = height - 1 - y
		}
		srcRow := raw[srcY*width*bytesPerTexel : (srcY+1)*width*bytesPerTexel]
		dstRow := dst[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			sp := srcRow[x*bytesPerTexel : x*bytesPerTexel+bytesPerTexel]
			dp := dstRow[x*4 : x*4+4]
			dp[0], dp[1], dp[2] = sp[0], sp[1], sp[2]
			if bytesPerTexel == 4 {
				dp[3] = sp[3]
			} else {
				dp[3] = 255
			}
		}
	}
	return src, nil
}

func clampByteF(f float32) byte {
	v := f * 255
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

func (t TGA) Export(w io.Writer, src *texturesource.Source) error {
	props, top, closeReader, err := top2D(src)
	if err != nil {
		return err
	}
	defer closeReader()
	if !t.Supports(props.SourceFormat) {
		return unsupportedFormatError(t.Kind(), props.SourceFormat)
	}

	width, height := int(props.Width()), int(props.Height())
	decode := pixelformat.SourceEncoding(props.SourceFormat).DecodeRGBA32F
	bpp := pixelformat.BytesPerPixel(props.SourceFormat)

	header := make([]byte, tgaHeaderSize)
	header[2] = 2
	binary.LittleEndian.PutUint16(header[12:14], uint16(width))
	binary.LittleEndian.PutUint16(header[14:16], uint16(height))
	header[16] = 32
	header[17] = 0x28 // top-left origin, 8 bits of alpha
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: tga header: %w", texcore.ErrIOError, err)
	}

	row := make([]byte, width*4)
	for y := 0; y < height; y++ {
		srcRow := top[y*width*bpp : (y+1)*width*bpp]
		for x := 0; x < width; x++ {
			c := decode(srcRow[x*bpp : x*bpp+bpp])
			row[x*4+0] = clampByteF(c.B)
			row[x*4+1] = clampByteF(c.G)
			row[x*4+2] = clampByteF(c.R)
			row[x*4+3] = clampByteF(c.A)
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("%w: tga row %d: %w", texcore.ErrIOError, y, err)
		}
	}
	return nil
}
