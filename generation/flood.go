package generation

import (
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texturesource"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// FloodMipChainWithAlpha walks every slice's mip chain from the
// coarsest mip down to mip 0, replacing each finer mip's color at
// near-transparent texels with a nearest-sampled blend of the
// already-flooded coarser mip's color. This keeps fully opaque color
// information bleeding into transparent borders instead of whatever
// default color those texels held, so later mip filtering or block
// compression doesn't pick up black fringing around cutout edges.
func FloodMipChainWithAlpha(props texturesource.Properties, buf []byte, pool *workerpool.Pool) {
	if pool == nil {
		pool = workerpool.Global()
	}
	if props.NumMips < 2 {
		return
	}

	offsets, sizes := mipLayout(props.SourceFormat, props.Dimensions, props.NumMips)
	var sliceSize uint64
	for _, s := range sizes {
		sliceSize += s
	}
	mipDims := pixelformat.MipRange(props.Dimensions, props.NumMips)

	for slice := uint32(0); slice < props.NumSlices; slice++ {
		sliceStart := uint64(slice) * sliceSize
		sliceBytes := buf[sliceStart : sliceStart+sliceSize]

		for m := int(props.NumMips) - 2; m >= 0; m-- {
			curDims := mipDims[m]
			coarseDims := mipDims[m+1]
			curBytes := sliceBytes[offsets[m] : offsets[m]+sizes[m]]
			coarseBytes := sliceBytes[offsets[m+1] : offsets[m+1]+sizes[m+1]]

			curView := imageview.New(curBytes, curDims, props.SourceFormat, props.IsTilable())
			coarseView := imageview.New(coarseBytes, coarseDims, props.SourceFormat, props.IsTilable())

			w, h := int(curDims.X), int(curDims.Y)
			cw, ch := int(coarseDims.X), int(coarseDims.Y)
			pool.ParallelFor(0, h, func(y int) {
				cy := y * ch / h
				for x := 0; x < w; x++ {
					cx := x * cw / w
					p := imageview.Coord{X: x, Y: y}
					c := curView.Load(p)
					flood := coarseView.Load(imageview.Coord{X: cx, Y: cy})
					blend := 1 - c.A
					c.R = mathutil.Lerp(c.R, flood.R, blend)
					c.G = mathutil.Lerp(c.G, flood.G, blend)
					c.B = mathutil.Lerp(c.B, flood.B, blend)
					curView.Store(p, c)
				}
			})
		}
	}
}
