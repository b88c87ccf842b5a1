package generation

import (
	"math"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// ContrastAdaptiveSharpening2D runs a single pass of AMD FidelityFX-style
// contrast-adaptive sharpening on view in place: for every texel it
// gathers the plus-shaped neighborhood (N, S, E, W, center), computes
// the local min/max color envelope, and derives a sharpening weight
// from how close the center sits to that envelope's edge (ampRGB),
// scaled by sharpen01 (peak). Texels that are fully transparent, or
// masked below cutoff when hasAlpha is set, are left untouched rather
// than sharpened against neighbors that don't contribute to the final
// image.
func ContrastAdaptiveSharpening2D(view *imageview.View, sharpen01 float32, hasAlpha bool, cutoff float32, pool *workerpool.Pool) {
	if pool == nil {
		pool = workerpool.Global()
	}
	dims := view.Dims()
	w, h := int(dims.X), int(dims.Y)
	peak := mathutil.Lerp(-0.125, -0.2, mathutil.Saturate(sharpen01))

	out := make([]struct{ r, g, b float32 }, w*h)
	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			e := view.Load(imageview.Coord{X: x, Y: y})
			if hasAlpha && e.A < cutoff {
				out[y*w+x] = struct{ r, g, b float32 }{e.R, e.G, e.B}
				continue
			}

			b := view.Load(imageview.Coord{X: x, Y: y - 1})
			d := view.Load(imageview.Coord{X: x - 1, Y: y})
			f := view.Load(imageview.Coord{X: x + 1, Y: y})
			hh := view.Load(imageview.Coord{X: x, Y: y + 1})

			mnR := minOf5(b.R, d.R, e.R, f.R, hh.R)
			mnG := minOf5(b.G, d.G, e.G, f.G, hh.G)
			mnB := minOf5(b.B, d.B, e.B, f.B, hh.B)
			mxR := maxOf5(b.R, d.R, e.R, f.R, hh.R)
			mxG := maxOf5(b.G, d.G, e.G, f.G, hh.G)
			mxB := maxOf5(b.B, d.B, e.B, f.B, hh.B)

			ampR := ampChannel(mnR, mxR)
			ampG := ampChannel(mnG, mxG)
			ampB := ampChannel(mnB, mxB)
			amp := (ampR + ampG + ampB) / 3

			wRGB := amp * peak
			denom := 1 + 4*wRGB

			r := ((b.R+d.R+f.R+hh.R)*wRGB + e.R) / denom
			g := ((b.G+d.G+f.G+hh.G)*wRGB + e.G) / denom
			bl := ((b.B+d.B+f.B+hh.B)*wRGB + e.B) / denom

			out[y*w+x] = struct{ r, g, b float32 }{mathutil.Saturate(r), mathutil.Saturate(g), mathutil.Saturate(bl)}
		}
	})

	pool.ParallelFor(0, h, func(y int) {
		for x := 0; x < w; x++ {
			p := imageview.Coord{X: x, Y: y}
			c := view.Load(p)
			v := out[y*w+x]
			c.R, c.G, c.B = v.r, v.g, v.b
			view.Store(p, c)
		}
	})
}

func ampChannel(mn, mx float32) float32 {
	if mx <= 1e-5 {
		return 0
	}
	ratio := mathutil.Saturate(minF(mn, 2-mx) / mx)
	return float32(math.Sqrt(float64(ratio)))
}

func minOf5(a, b, c, d, e float32) float32 {
	return minF(minF(minF(a, b), minF(c, d)), e)
}

func maxOf5(a, b, c, d, e float32) float32 {
	return maxF(maxF(maxF(a, b), maxF(c, d)), e)
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
