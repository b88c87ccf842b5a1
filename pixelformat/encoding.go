package pixelformat

import "math"

// SourceEncodingDescriptor bundles the bits-per-pixel and the
// decode/encode-to-RGBA32 kernels for a source format. A nil kernel
// means the format does not support that direction (none currently
// do; the hook exists for symmetry with the output-format Encoding
// descriptor).
type SourceEncodingDescriptor struct {
	BitsPerPixel  int
	DecodeRGBA32F func(px []byte) Rgba32F
	EncodeRGBA32F func(c Rgba32F, px []byte)
}

func u8f(v byte) float32  { return float32(v) / 255 }
func f8u(v float32) byte  { return byte(mathClamp01(v)*255 + 0.5) }
func u16f(v uint16) float32 { return float32(v) / 65535 }
func f16u(v float32) uint16 { return uint16(mathClamp01(v)*65535 + 0.5) }

func mathClamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func le16(b []byte) uint16    { return uint16(b[0]) | uint16(b[1])<<8 }
func putLe16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }

func le32f(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
func putLe32f(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

var sourceEncodingTable = map[SourceFormat]SourceEncodingDescriptor{
	SourceFormatG8: {8,
		func(px []byte) Rgba32F { v := u8f(px[0]); return Rgba32F{v, v, v, 1} },
		func(c Rgba32F, px []byte) { px[0] = f8u(c.R) },
	},
	SourceFormatG16: {16,
		func(px []byte) Rgba32F { v := u16f(le16(px)); return Rgba32F{v, v, v, 1} },
		func(c Rgba32F, px []byte) { putLe16(px, f16u(c.R)) },
	},
	SourceFormatR16f: {16,
		func(px []byte) Rgba32F { v := HalfToFloat32(le16(px)); return Rgba32F{v, v, v, 1} },
		func(c Rgba32F, px []byte) { putLe16(px, Float32ToHalf(c.R)) },
	},
	SourceFormatRA8: {16,
		func(px []byte) Rgba32F { v := u8f(px[0]); return Rgba32F{v, v, v, u8f(px[1])} },
		func(c Rgba32F, px []byte) { px[0] = f8u(c.R); px[1] = f8u(c.A) },
	},
	SourceFormatRA16: {32,
		func(px []byte) Rgba32F { v := u16f(le16(px[0:2])); return Rgba32F{v, v, v, u16f(le16(px[2:4]))} },
		func(c Rgba32F, px []byte) { putLe16(px[0:2], f16u(c.R)); putLe16(px[2:4], f16u(c.A)) },
	},
	SourceFormatRG8: {16,
		func(px []byte) Rgba32F { return Rgba32F{u8f(px[0]), u8f(px[1]), 0, 1} },
		func(c Rgba32F, px []byte) { px[0] = f8u(c.R); px[1] = f8u(c.G) },
	},
	SourceFormatRG16: {32,
		func(px []byte) Rgba32F { return Rgba32F{u16f(le16(px[0:2])), u16f(le16(px[2:4])), 0, 1} },
		func(c Rgba32F, px []byte) { putLe16(px[0:2], f16u(c.R)); putLe16(px[2:4], f16u(c.G)) },
	},
	SourceFormatRGBA8: {32,
		func(px []byte) Rgba32F { return Rgba32F{u8f(px[0]), u8f(px[1]), u8f(px[2]), u8f(px[3])} },
		func(c Rgba32F, px []byte) { px[0] = f8u(c.R); px[1] = f8u(c.G); px[2] = f8u(c.B); px[3] = f8u(c.A) },
	},
	SourceFormatBGRA8: {32,
		func(px []byte) Rgba32F { return Rgba32F{u8f(px[2]), u8f(px[1]), u8f(px[0]), u8f(px[3])} },
		func(c Rgba32F, px []byte) { px[2] = f8u(c.R); px[1] = f8u(c.G); px[0] = f8u(c.B); px[3] = f8u(c.A) },
	},
	SourceFormatRGBA16: {64,
		func(px []byte) Rgba32F {
			return Rgba32F{u16f(le16(px[0:2])), u16f(le16(px[2:4])), u16f(le16(px[4:6])), u16f(le16(px[6:8]))}
		},
		func(c Rgba32F, px []byte) {
			putLe16(px[0:2], f16u(c.R))
			putLe16(px[2:4], f16u(c.G))
			putLe16(px[4:6], f16u(c.B))
			putLe16(px[6:8], f16u(c.A))
		},
	},
	SourceFormatRGBA16f: {64,
		func(px []byte) Rgba32F {
			return Rgba32F{
				HalfToFloat32(le16(px[0:2])), HalfToFloat32(le16(px[2:4])),
				HalfToFloat32(le16(px[4:6])), HalfToFloat32(le16(px[6:8])),
			}
		},
		func(c Rgba32F, px []byte) {
			putLe16(px[0:2], Float32ToHalf(c.R))
			putLe16(px[2:4], Float32ToHalf(c.G))
			putLe16(px[4:6], Float32ToHalf(c.B))
			putLe16(px[6:8], Float32ToHalf(c.A))
		},
	},
	SourceFormatRGBA32f: {128,
		func(px []byte) Rgba32F {
			return Rgba32F{le32f(px[0:4]), le32f(px[4:8]), le32f(px[8:12]), le32f(px[12:16])}
		},
		func(c Rgba32F, px []byte) {
			putLe32f(px[0:4], c.R)
			putLe32f(px[4:8], c.G)
			putLe32f(px[8:12], c.B)
			putLe32f(px[12:16], c.A)
		},
	},
	SourceFormatBGRE8: {32,
		func(px []byte) Rgba32F { return decodeRGBE(px[2], px[1], px[0], px[3]) },
		func(c Rgba32F, px []byte) {
			r, g, b, e := encodeRGBE(c.R, c.G, c.B)
			px[2], px[1], px[0], px[3] = r, g, b, e
		},
	},
}

// decodeRGBE decodes a Radiance-style shared-exponent triple (with
// channel order already resolved by the caller) into linear color.
func decodeRGBE(r, g, b, e byte) Rgba32F {
	if e == 0 {
		return Rgba32F{0, 0, 0, 1}
	}
	scale := float32(math.Ldexp(1, int(e)-128-8))
	return Rgba32F{float32(r) * scale, float32(g) * scale, float32(b) * scale, 1}
}

// encodeRGBE is the inverse of decodeRGBE.
func encodeRGBE(r, g, b float32) (byte, byte, byte, byte) {
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
	scale := math.Ldexp(1, -exp+8)
	return byte(clampByteF(r * float32(scale))),
		byte(clampByteF(g * float32(scale))),
		byte(clampByteF(b * float32(scale))),
		byte(exp + 128)
}

func clampByteF(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// SourceEncoding returns the decode/encode kernels for a source format.
func SourceEncoding(f SourceFormat) SourceEncodingDescriptor {
	d, ok := sourceEncodingTable[f]
	if !ok {
		return SourceEncodingDescriptor{BitsPerPixel: BytesPerPixel(f) * 8}
	}
	return d
}

// EncodingDescriptor mirrors SourceEncodingDescriptor for the smaller,
// mostly-linear output Format set. Block-compressed formats (BC*/ASTC*)
// have no per-texel kernel: Compress dispatch handles them at block
// granularity instead, so DecodeRGBA32F/EncodeRGBA32F are nil.
type EncodingDescriptor struct {
	BitsPerPixel  int
	DecodeRGBA32F func(px []byte) Rgba32F
	EncodeRGBA32F func(c Rgba32F, px []byte)
}

var formatToSource = map[Format]SourceFormat{
	FormatBGRA8UNorm:  SourceFormatBGRA8,
	FormatSBGR8A8:     SourceFormatBGRA8,
	FormatR16UNorm:    SourceFormatG16,
	FormatR8UNorm:     SourceFormatG8,
	FormatR16f:        SourceFormatR16f,
	FormatRG16UNorm:   SourceFormatRG16,
	FormatRG8UNorm:    SourceFormatRG8,
	FormatRGBA16UNorm: SourceFormatRGBA16,
	FormatRGBA16f:     SourceFormatRGBA16f,
	FormatRGBA32f:     SourceFormatRGBA32f,
	FormatRGBA8UNorm:  SourceFormatRGBA8,
	FormatSRGB8A8:     SourceFormatRGBA8,
}

// Encoding returns the decode/encode-to-RGBA32 kernels for (format,
// aspect). Only AspectColor is ever populated in this registry.
func Encoding(format Format, aspect Aspect) EncodingDescriptor {
	if aspect != AspectColor {
		return EncodingDescriptor{}
	}
	src, ok := formatToSource[format]
	if !ok {
		return EncodingDescriptor{BitsPerPixel: BitsPerPixel(format, AspectColor)}
	}
	sd := SourceEncoding(src)
	return EncodingDescriptor{
		BitsPerPixel:  sd.BitsPerPixel,
		DecodeRGBA32F: sd.DecodeRGBA32F,
		EncodeRGBA32F: sd.EncodeRGBA32F,
	}
}
