package imageformat

import (
	"fmt"
	"io"

	"golang.org/x/image/bmp"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// BMP wraps golang.org/x/image/bmp, whitelisted to the plain 8-bit
// gray and 32-bit color layouts the format stores without any extra
// compression scheme.
type BMP struct{}

func NewBMP() *BMP { return &BMP{} }

func (BMP) Kind() pixelformat.ImageFormat { return pixelformat.ImageFormatBMP }

func (BMP) Whitelist() []pixelformat.SourceFormat {
	return []pixelformat.SourceFormat{
		pixelformat.SourceFormatG8, pixelformat.SourceFormatRGBA8, pixelformat.SourceFormatBGRA8,
	}
}

func (b BMP) Supports(format pixelformat.SourceFormat) bool {
	return supportsFromList(b.Whitelist(), format)
}

func (b BMP) Import(r io.Reader) (*texturesource.Source, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: bmp decode: %w", texcore.ErrDecoderError, err)
	}
	format := pixelformat.SourceFormatRGBA8
	if isGrayImage(img) {
		format = pixelformat.SourceFormatG8
	}
	return imageToSource(img, format, pixelformat.GammaSRGB, 0)
}

func (b BMP) Export(w io.Writer, src *texturesource.Source) error {
	props, top, closeReader, err := top2D(src)
	if err != nil {
		return err
	}
	defer closeReader()
	if !b.Supports(props.SourceFormat) {
		return unsupportedFormatError(b.Kind(), props.SourceFormat)
	}
	img := sourceToImage(props, top)
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("%w: bmp encode: %w", texcore.ErrIOError, err)
	}
	return nil
}
