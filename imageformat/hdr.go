package imageformat

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// HDR implements the flat (non run-length-encoded) variant of the
// Radiance .hdr container by hand: a text header followed by one
// shared-exponent RGBE quad per pixel, in R, G, B, E memory order.
// Only RGBA32f is whitelisted since the format exists purely to carry
// HDR linear color without quantization.
type HDR struct{}

func NewHDR() *HDR { return &HDR{} }

func (HDR) Kind() pixelformat.ImageFormat { return pixelformat.ImageFormatHDR }

func (HDR) Whitelist() []pixelformat.SourceFormat {
	return []pixelformat.SourceFormat{pixelformat.SourceFormatRGBA32f}
}

func (h HDR) Supports(format pixelformat.SourceFormat) bool {
	return supportsFromList(h.Whitelist(), format)
}

func (h HDR) Import(r io.Reader) (*texturesource.Source, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "#?") {
		return nil, fmt.Errorf("%w: hdr: missing Radiance signature", texcore.ErrDecoderError)
	}
	for {
		line, err = br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: hdr: truncated header: %w", texcore.ErrDecoderError, err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
	}
	resLine, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: hdr: missing resolution line: %w", texcore.ErrDecoderError, err)
	}
	var height, width int
	if _, err := fmt.Sscanf(strings.TrimSpace(resLine), "-Y %d +X %d", &height, &width); err != nil {
		return nil, fmt.Errorf("%w: hdr: unsupported resolution line %q", texcore.ErrDecoderError, resLine)
	}

	props := texturesource.New2D(pixelformat.Dims3{X: uint32(width), Y: uint32(height)}, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear, pixelformat.FlagHDR)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		return nil, err
	}
	writer := src.WriterScope()
	defer writer.Close()
	dst := writer.Bytes()

	quad := make([]byte, 4)
	for y := 0; y < height; y++ {
		dstRow := dst[y*width*16 : (y+1)*width*16]
		for x := 0; x < width; x++ {
			if _, err := io.ReadFull(br, quad); err != nil {
				return nil, fmt.Errorf("%w: hdr: pixel (%d,%d): %w", texcore.ErrDecoderError, x, y, err)
			}
			r, g, b := rgbeDecode(quad[0], quad[1], quad[2], quad[3])
			px := dstRow[x*16 : x*16+16]
			putLe32(px[0:4], r)
			putLe32(px[4:8], g)
			putLe32(px[8:12], b)
			putLe32(px[12:16], 1)
		}
	}
	return src, nil
}

func (h HDR) Export(w io.Writer, src *texturesource.Source) error {
	props, top, closeReader, err := top2D(src)
	if err != nil {
		return err
	}
	defer closeReader()
	if !h.Supports(props.SourceFormat) {
		return unsupportedFormatError(h.Kind(), props.SourceFormat)
	}

	width, height := int(props.Width()), int(props.Height())
	header := fmt.Sprintf("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n", height, width)
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("%w: hdr header: %w", texcore.ErrIOError, err)
	}

	quad := make([]byte, 4)
	for y := 0; y < height; y++ {
		srcRow := top[y*width*16 : (y+1)*width*16]
		for x := 0; x < width; x++ {
			px := srcRow[x*16 : x*16+16]
			r := le32(px[0:4])
			g := le32(px[4:8])
			b := le32(px[8:12])
			quad[0], quad[1], quad[2], quad[3] = rgbeEncode(r, g, b)
			if _, err := w.Write(quad); err != nil {
				return fmt.Errorf("%w: hdr pixel row %d: %w", texcore.ErrIOError, y, err)
			}
		}
	}
	return nil
}

func rgbeDecode(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	scale := float32(math.Ldexp(1, int(e)-128-8))
	return float32(r) * scale, float32(g) * scale, float32(b) * scale
}

func rgbeEncode(r, g, b float32) (byte, byte, byte, byte) {
	maxVal := r
	if g > maxVal {
		maxVal = g
	}
	if b > maxVal {
		maxVal = b
	}
	if maxVal <= 1e-32 {
		return 0, 0, 0, 0
	}
	_, exp := math.Frexp(float64(maxVal))
	scale := float32(math.Ldexp(1, -exp+8))
	mantissa := func(v float32) byte {
		m := v * scale
		if m < 0 {
			return 0
		}
		if m > 255 {
			return 255
		}
		return byte(m)
	}
	return mantissa(r), mantissa(g), mantissa(b), byte(exp + 128)
}

func putLe32(dst []byte, f float32) {
	bits := math.Float32bits(f)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

func le32(src []byte) float32 {
	bits := uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
	return math.Float32frombits(bits)
}
