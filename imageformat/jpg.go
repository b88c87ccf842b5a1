package imageformat

import (
	"fmt"
	"image/jpeg"
	"io"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// jpegQuality is fixed rather than configurable: JPEG is only ever
// used here for lossy color storage of authored textures, not for
// tunable delivery encoding.
const jpegQuality = 90

// JPG wraps the stdlib image/jpeg codec. JPEG has no alpha channel, so
// only the two 4-channel formats are whitelisted and alpha is always
// written out as fully opaque.
type JPG struct{}

func NewJPG() *JPG { return &JPG{} }

func (JPG) Kind() pixelformat.ImageFormat { return pixelformat.ImageFormatJPG }

func (JPG) Whitelist() []pixelformat.SourceFormat {
	return []pixelformat.SourceFormat{pixelformat.SourceFormatRGBA8, pixelformat.SourceFormatBGRA8}
}

func (j JPG) Supports(format pixelformat.SourceFormat) bool {
	return supportsFromList(j.Whitelist(), format)
}

func (j JPG) Import(r io.Reader) (*texturesource.Source, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg decode: %w", texcore.ErrDecoderError, err)
	}
	return imageToSource(img, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB, 0)
}

func (j JPG) Export(w io.Writer, src *texturesource.Source) error {
	props, top, closeReader, err := top2D(src)
	if err != nil {
		return err
	}
	defer closeReader()
	if !j.Supports(props.SourceFormat) {
		return unsupportedFormatError(j.Kind(), props.SourceFormat)
	}
	img := sourceToImage(props, top)
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("%w: jpeg encode: %w", texcore.ErrIOError, err)
	}
	return nil
}
