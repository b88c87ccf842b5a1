package imageformat

import (
	"image"
	"image/color"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// sourceToImage decodes the top mip of props/top into a stdlib
// image.Image via the pixel format's own decode kernel. Every codec in
// this package (PNG, BMP, JPG) shares this single bridge so adding a
// container format never requires touching the pixel-format
// conversion logic again.
func sourceToImage(props texturesource.Properties, top []byte) *image.NRGBA64 {
	w, h := int(props.Width()), int(props.Height())
	decode := pixelformat.SourceEncoding(props.SourceFormat).DecodeRGBA32F
	texcore.Invariant(decode != nil, "imageformat: %v has no decode kernel", props.SourceFormat)
	bpp := pixelformat.BytesPerPixel(props.SourceFormat)

	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := top[y*w*bpp : (y+1)*w*bpp]
		for x := 0; x < w; x++ {
			c := decode(row[x*bpp : x*bpp+bpp])
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: to16(c.R), G: to16(c.G), B: to16(c.B), A: to16(c.A),
			})
		}
	}
	return img
}

// imageToSource encodes a decoded stdlib image into a fresh 2D, single
// mip texturesource.Source of the given format, using the format's own
// encode kernel. Alpha is read back through color.NRGBA64Model so
// premultiplied source images (JPEG decodes, some PNGs) are
// unpremultiplied consistently before being written into our own
// unpremultiplied-by-convention buffers.
func imageToSource(img image.Image, format pixelformat.SourceFormat, gamma pixelformat.GammaSpace, flags pixelformat.SourceFlags) (*texturesource.Source, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	props := texturesource.New2D(pixelformat.Dims3{X: uint32(w), Y: uint32(h)}, format, gamma, flags)
	src, err := texturesource.Construct(props, nil)
	if err != nil {
		return nil, err
	}

	encode := pixelformat.SourceEncoding(format).EncodeRGBA32F
	texcore.Invariant(encode != nil, "imageformat: %v has no encode kernel", format)
	bpp := pixelformat.BytesPerPixel(format)

	writer := src.WriterScope()
	defer writer.Close()
	buf := writer.Bytes()

	for y := 0; y < h; y++ {
		row := buf[y*w*bpp : (y+1)*w*bpp]
		for x := 0; x < w; x++ {
			n := color.NRGBA64Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			c := pixelformat.Rgba32F{
				R: from16(n.R), G: from16(n.G), B: from16(n.B), A: from16(n.A),
			}
			encode(c, row[x*bpp:x*bpp+bpp])
		}
	}
	return src, nil
}

func to16(f float32) uint16 {
	v := f * 65535
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

func from16(v uint16) float32 {
	return float32(v) / 65535
}
