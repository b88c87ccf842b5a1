package generation

import "github.com/poppolopoppo/texturepipeline/pixelformat"

// mipLayout returns the byte offset and size of every mip level within
// one slice's tightly-packed, mips-from-0-downward buffer layout: the
// same arithmetic texturesource.Source uses internally, duplicated
// here so the alpha/flood passes can address individual mips within a
// single slice's byte range without reaching into texturesource's
// unexported helpers.
func mipLayout(format pixelformat.SourceFormat, dims pixelformat.Dims3, numMips uint32) (offsets, sizes []uint64) {
	bpp := uint64(pixelformat.BytesPerPixel(format))
	offsets = make([]uint64, numMips)
	sizes = make([]uint64, numMips)
	cur := dims
	var off uint64
	for m := uint32(0); m < numMips; m++ {
		offsets[m] = off
		sz := bpp * uint64(cur.X) * uint64(cur.Y) * uint64(cur.Z)
		sizes[m] = sz
		off += sz
		cur = pixelformat.NextMip(cur)
	}
	return offsets, sizes
}
