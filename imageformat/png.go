package imageformat

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// PNG wraps the stdlib image/png codec, whitelisted to the pixel
// formats PNG's 8/16-bit gray, gray+alpha and RGBA channel layouts can
// represent losslessly.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (PNG) Kind() pixelformat.ImageFormat { return pixelformat.ImageFormatPNG }

func (PNG) Whitelist() []pixelformat.SourceFormat {
	return []pixelformat.SourceFormat{
		pixelformat.SourceFormatG8, pixelformat.SourceFormatG16,
		pixelformat.SourceFormatRA8, pixelformat.SourceFormatRA16,
		pixelformat.SourceFormatRG8, pixelformat.SourceFormatRG16,
		pixelformat.SourceFormatRGBA8, pixelformat.SourceFormatBGRA8,
		pixelformat.SourceFormatRGBA16,
	}
}

func (p PNG) Supports(format pixelformat.SourceFormat) bool {
	return supportsFromList(p.Whitelist(), format)
}

func (p PNG) Import(r io.Reader) (*texturesource.Source, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: png decode: %w", texcore.ErrDecoderError, err)
	}
	return imageToSource(img, pngSourceFormat(img), pixelformat.GammaSRGB, 0)
}

// pngSourceFormat picks the narrowest source format that losslessly
// carries what the PNG decoder actually produced: single-channel gray
// stays gray (no synthesized RGB), and a gray+alpha image (decoded by
// the stdlib into NRGBA/NRGBA64 since there is no dedicated Go image
// type for it) resolves to the 2-channel RA format at the same bit
// depth rather than always widening to RGBA.
func pngSourceFormat(img image.Image) pixelformat.SourceFormat {
	switch im := img.(type) {
	case *image.Gray:
		return pixelformat.SourceFormatG8
	case *image.Gray16:
		return pixelformat.SourceFormatG16
	case *image.NRGBA:
		if isGrayNRGBA(im) {
			return pixelformat.SourceFormatRA8
		}
		return pixelformat.SourceFormatRGBA8
	case *image.NRGBA64:
		if isGrayNRGBA64(im) {
			return pixelformat.SourceFormatRA16
		}
		return pixelformat.SourceFormatRGBA16
	case *image.RGBA64:
		return pixelformat.SourceFormatRGBA16
	default:
		return pixelformat.SourceFormatRGBA8
	}
}

func isGrayNRGBA(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

func isGrayNRGBA64(img *image.NRGBA64) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBA64At(x, y)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

func (p PNG) Export(w io.Writer, src *texturesource.Source) error {
	props, top, closeReader, err := top2D(src)
	if err != nil {
		return err
	}
	defer closeReader()
	if !p.Supports(props.SourceFormat) {
		return unsupportedFormatError(p.Kind(), props.SourceFormat)
	}
	img := sourceToImage(props, top)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: png encode: %w", texcore.ErrIOError, err)
	}
	return nil
}
