package generation

import (
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// GenerateAlphaDistanceField2D replaces view's alpha channel with a
// signed Chebyshev distance field to the nearest alpha-test boundary:
// texels are first classified inside/outside at cutoff, then for each
// texel a brute-force ring search (radius 1, 2, 3, ...) finds the
// nearest opposite-classification texel, stopping at the first ring
// that contains one. The distance is normalized by the spread distance
// (spreadRatio01 * max(width,height)), signed by classification, and
// encoded into [0,1] with 0.5 at the boundary.
func GenerateAlphaDistanceField2D(view *imageview.View, cutoff, spreadRatio01 float32, pool *workerpool.Pool) {
	if pool == nil {
		pool = workerpool.Global()
	}
	dims := view.Dims()
	w, h := int(dims.X), int(dims.Y)
	if w == 0 || h == 0 {
		return
	}
	tilable := view.Tilable()

	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	spread := int(spreadRatio01 * float32(maxDim))
	if spread < 1 {
		spread = 1
	}

	inside := make([]bool, w*h)
	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			c := view.Load(imageview.Coord{X: x, Y: y})
			inside[y*w+x] = c.A >= cutoff
		}
	})

	encoded := make([]float32, w*h)
	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			self := inside[y*w+x]
			dist := spread
			found := false
			for r := 1; r <= spread && !found; r++ {
				for dy := -r; dy <= r && !found; dy++ {
					for dx := -r; dx <= r; dx++ {
						if maxAbsInt(dx, dy) != r {
							continue
						}
						nx := resolveIndex(x+dx, w, tilable)
						ny := resolveIndex(y+dy, h, tilable)
						if inside[ny*w+nx] != self {
							dist = r
							found = true
							break
						}
					}
				}
			}
			signed := float32(dist) / float32(spread)
			if !self {
				signed = -signed
			}
			encoded[y*w+x] = mathutil.Saturate(signed*0.5 + 0.5)
		}
	})

	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			p := imageview.Coord{X: x, Y: y}
			c := view.Load(p)
			c.A = encoded[y*w+x]
			view.Store(p, c)
		}
	})
}

func maxAbsInt(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
