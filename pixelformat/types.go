// Package pixelformat is the immutable, lock-free registry at the bottom
// of the texture pipeline: it enumerates source and output pixel formats
// and exposes pure functions mapping a format to its bits-per-pixel,
// block dimensions, aspect mask, value class and decode/encode-to-RGBA32
// kernels. Nothing here allocates a texture; it only describes one.
package pixelformat

import "fmt"

// ImageFormat names a container/codec for import/export (C6), distinct
// from the in-memory pixel formats below.
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatPNG
	ImageFormatBMP
	ImageFormatTGA
	ImageFormatJPG
	ImageFormatHDR
)

// String renders the lowercase extension-like name of the format. TGA is
// deliberately not "png": the original STB enum-to-string table prints
// the literal "png" for TGA, which reads as a copy-paste bug rather than
// an intentional alias; this implementation emits the correct name.
func (f ImageFormat) String() string {
	switch f {
	case ImageFormatPNG:
		return "png"
	case ImageFormatBMP:
		return "bmp"
	case ImageFormatTGA:
		return "tga"
	case ImageFormatJPG:
		return "jpg"
	case ImageFormatHDR:
		return "hdr"
	default:
		return "unknown"
	}
}

// ParseImageFormat case-insensitively matches a file extension (with or
// without a leading dot) to one of the known image formats.
func ParseImageFormat(ext string) ImageFormat {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	switch lower(ext) {
	case "png":
		return ImageFormatPNG
	case "bmp":
		return ImageFormatBMP
	case "tga":
		return ImageFormatTGA
	case "jpg", "jpeg":
		return ImageFormatJPG
	case "hdr":
		return ImageFormatHDR
	default:
		return ImageFormatUnknown
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// SourceCompression mirrors the reserved per-texture compression slot on
// TextureSource::Construct. Only None is implemented: the generation
// pipeline never opts a source into JPG/PNG-backed storage.
type SourceCompression int

const (
	SourceCompressionNone SourceCompression = iota
	SourceCompressionJPG
	SourceCompressionPNG
)

// SourceFlags is a bitset of properties carried alongside a texture
// source's dimensions and format.
type SourceFlags uint32

const (
	FlagHDR SourceFlags = 1 << iota
	FlagLongLatCubemap
	FlagPreMultipliedAlpha
	FlagSRGB
	FlagTilable
	FlagMaskedAlpha
)

func (f SourceFlags) Has(flag SourceFlags) bool { return f&flag != 0 }

// GammaSpace is the transfer function samples are stored under.
type GammaSpace int

const (
	GammaLinear GammaSpace = iota
	GammaPow22
	GammaSRGB
	GammaACES
)

func (g GammaSpace) String() string {
	switch g {
	case GammaLinear:
		return "Linear"
	case GammaPow22:
		return "Pow22"
	case GammaSRGB:
		return "sRGB"
	case GammaACES:
		return "ACES"
	default:
		return fmt.Sprintf("GammaSpace(%d)", int(g))
	}
}

// View describes how a texture source's bytes are interpreted
// dimensionally.
type View int

const (
	ViewUnknown View = iota
	View1D
	View1DArray
	View2D
	View2DArray
	View3D
	ViewCube
	ViewCubeArray
)

func (v View) String() string {
	switch v {
	case View1D:
		return "1D"
	case View1DArray:
		return "1DArray"
	case View2D:
		return "2D"
	case View2DArray:
		return "2DArray"
	case View3D:
		return "3D"
	case ViewCube:
		return "Cube"
	case ViewCubeArray:
		return "CubeArray"
	default:
		return "Unknown"
	}
}

// ColorMask is a bitset selecting which color channels a source
// meaningfully carries.
type ColorMask uint8

const (
	MaskR ColorMask = 1 << iota
	MaskG
	MaskB
	MaskA
)

func (m ColorMask) Channels() int {
	n := 0
	for _, bit := range [4]ColorMask{MaskR, MaskG, MaskB, MaskA} {
		if m&bit != 0 {
			n++
		}
	}
	return n
}
