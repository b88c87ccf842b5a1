// Package imageformat implements the container/codec layer (C6):
// encoding and decoding texture sources to and from the on-disk image
// formats the pipeline can import and export, each restricted to the
// pixel-format whitelist the format can actually carry.
package imageformat

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// Format is one codec's Import/Export pair: read bytes from r into a
// fresh Source, or write a Source's bytes out to w. Whitelist lists the
// source pixel formats this codec can carry and Supports reports whether
// a given one is among them; callers are expected to check it (or rely
// on Export returning
// ErrUnsupportedFormat) before committing to a format choice.
type Format interface {
	Kind() pixelformat.ImageFormat
	Whitelist() []pixelformat.SourceFormat
	Supports(format pixelformat.SourceFormat) bool
	Import(r io.Reader) (*texturesource.Source, error)
	Export(w io.Writer, src *texturesource.Source) error
}

func supportsFromList(list []pixelformat.SourceFormat, format pixelformat.SourceFormat) bool {
	for _, f := range list {
		if f == format {
			return true
		}
	}
	return false
}

func unsupportedFormatError(kind pixelformat.ImageFormat, format pixelformat.SourceFormat) error {
	return fmt.Errorf("%w: %s cannot carry source format %v", texcore.ErrUnsupportedFormat, kind, format)
}

// isGrayImage reports whether every pixel of img has equal R, G and B
// channels, for codecs (BMP) whose decoded image type never
// distinguishes gray from color the way image/png's decoder does.
func isGrayImage(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}

// top2D returns the single top-mip 2D Properties and byte range used by
// every image-format codec: none of PNG/BMP/TGA/JPG/HDR carry mips or
// slices on disk, so Export always operates on mip 0, slice 0.
func top2D(src *texturesource.Source) (texturesource.Properties, []byte, func(), error) {
	props := src.Properties()
	reader := src.ReaderScope()
	top, err := src.MipData(reader.Bytes(), 0, 1, 0)
	if err != nil {
		reader.Close()
		return texturesource.Properties{}, nil, nil, err
	}
	return props, top, reader.Close, nil
}
