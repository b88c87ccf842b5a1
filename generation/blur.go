package generation

import (
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// GaussianBlur2D applies a separable Gaussian blur of the given
// odd window size (3, 5, 7 or 9) to view in place. When hasAlpha is
// set, each sample's contribution to the color channels is weighted by
// its own alpha (and the accumulated weight renormalized), so fully
// transparent texels don't bleed their color into opaque neighbors;
// the alpha channel itself is always blurred unweighted.
func GaussianBlur2D(view *imageview.View, windowSize int, hasAlpha bool, pool *workerpool.Pool) {
	if pool == nil {
		pool = workerpool.Global()
	}
	if windowSize < 1 {
		windowSize = 1
	}
	radius := windowSize / 2
	sigma := float32(windowSize) / 6
	if sigma <= 0 {
		sigma = 1
	}

	kernel := make([]float32, 2*radius+1)
	var ksum float32
	for i := -radius; i <= radius; i++ {
		wgt := mathutil.NormPDF(float32(i), sigma)
		kernel[i+radius] = wgt
		ksum += wgt
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	dims := view.Dims()
	w, h := int(dims.X), int(dims.Y)
	tilable := view.Tilable()

	sampleView := func(x, y int) pixelformat.Rgba32F {
		return view.Load(imageview.Coord{X: x, Y: y})
	}
	horiz := convolve1D(w, h, kernel, radius, true, sampleView, tilable, hasAlpha, pool)

	sampleHoriz := func(x, y int) pixelformat.Rgba32F { return horiz[y*w+x] }
	vert := convolve1D(w, h, kernel, radius, false, sampleHoriz, tilable, hasAlpha, pool)

	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			view.Store(imageview.Coord{X: x, Y: y}, vert[y*w+x])
		}
	})
}

func convolve1D(w, h int, kernel []float32, radius int, alongX bool,
	sample func(x, y int) pixelformat.Rgba32F, tilable, hasAlpha bool, pool *workerpool.Pool) []pixelformat.Rgba32F {

	out := make([]pixelformat.Rgba32F, w*h)
	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			var accR, accG, accB, accA, wsum float32
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if alongX {
					sx = resolveIndex(x+k, w, tilable)
				} else {
					sy = resolveIndex(y+k, h, tilable)
				}
				c := sample(sx, sy)
				base := kernel[k+radius]
				colorW := base
				if hasAlpha {
					colorW *= c.A
				}
				accR += c.R * colorW
				accG += c.G * colorW
				accB += c.B * colorW
				accA += c.A * base
				wsum += colorW
			}
			if hasAlpha && wsum > 1e-6 {
				accR /= wsum
				accG /= wsum
				accB /= wsum
			}
			out[y*w+x] = pixelformat.Rgba32F{R: accR, G: accG, B: accB, A: accA}
		}
	})
	return out
}
