package resize

import "math"

// Filter selects the reconstruction/sampling kernel used by Resize2D.
// PointSample is the only filter with zero support (nearest-neighbor);
// every other filter is evaluated as a continuous weighting function
// over its support radius.
type Filter int

const (
	FilterBox Filter = iota
	FilterCubicBSpline
	FilterCatmullRom
	FilterMitchell
	FilterPointSample
)

type kernelFunc struct {
	support float64
	weight  func(x float64) float64
}

func boxWeight(x float64) float64 {
	if x < -0.5 || x >= 0.5 {
		return 0
	}
	return 1
}

func cubicBSplineWeight(x float64) float64 {
	x = math.Abs(x)
	if x < 1 {
		return (4 + x*x*(-6+3*x)) / 6
	}
	if x < 2 {
		t := 2 - x
		return t * t * t / 6
	}
	return 0
}

func catmullRomWeight(x float64) float64 {
	x = math.Abs(x)
	if x < 1 {
		return 1 - x*x*(2.5-1.5*x)
	}
	if x < 2 {
		return 2 - x*(4+x*(-2.5+0.5*x))
	}
	return 0
}

// mitchellWeight uses the canonical B=1/3, C=1/3 Mitchell-Netravali
// parameters.
func mitchellWeight(x float64) float64 {
	const b = 1.0 / 3.0
	const c = 1.0 / 3.0
	x = math.Abs(x)
	x2 := x * x
	if x < 1 {
		return ((12-9*b-6*c)*x2*x + (-18+12*b+6*c)*x2 + (6 - 2*b)) / 6
	}
	if x < 2 {
		return ((-b-6*c)*x2*x + (6*b+30*c)*x2 + (-12*b-48*c)*x + (8*b + 24*c)) / 6
	}
	return 0
}

func kernelFor(f Filter) kernelFunc {
	switch f {
	case FilterBox:
		return kernelFunc{0.5, boxWeight}
	case FilterCubicBSpline:
		return kernelFunc{2, cubicBSplineWeight}
	case FilterCatmullRom:
		return kernelFunc{2, catmullRomWeight}
	case FilterMitchell:
		return kernelFunc{2, mitchellWeight}
	default:
		return kernelFunc{2, mitchellWeight}
	}
}

// tap is one weighted source-index contribution to an output sample.
type tap struct {
	index  int
	weight float32
}

// buildAxisKernel computes, for every output index in [0,outSize), the
// set of input-index/weight pairs that contribute to it. When
// minifying, the kernel's support is widened by 1/scale so every
// input sample is still counted (standard box-filtering-on-minify
// technique), which keeps downscaling from aliasing.
func buildAxisKernel(inSize, outSize int, f Filter, tilable bool) [][]tap {
	taps := make([][]tap, outSize)
	if outSize == 0 || inSize == 0 {
		return taps
	}
	scale := float64(outSize) / float64(inSize)

	if f == FilterPointSample {
		for o := 0; o < outSize; o++ {
			center := (float64(o) + 0.5) / scale
			idx := int(math.Floor(center))
			idx = resolveIndex(idx, inSize, tilable)
			taps[o] = []tap{{idx, 1}}
		}
		return taps
	}

	k := kernelFor(f)
	filterScale := 1.0
	if scale < 1 {
		filterScale = 1 / scale
	}
	support := k.support * filterScale

	for o := 0; o < outSize; o++ {
		center := (float64(o) + 0.5) / scale
		lo := int(math.Floor(center - support))
		hi := int(math.Ceil(center + support))

		var sum float64
		var row []tap
		for j := lo; j <= hi; j++ {
			w := k.weight((float64(j) + 0.5 - center) / filterScale)
			if w == 0 {
				continue
			}
			idx := resolveIndex(j, inSize, tilable)
			if idx < 0 {
				continue
			}
			row = append(row, tap{idx, float32(w)})
			sum += w
		}
		if sum != 0 {
			inv := float32(1 / sum)
			for i := range row {
				row[i].weight *= inv
			}
		} else if len(row) == 0 {
			idx := resolveIndex(int(math.Floor(center)), inSize, tilable)
			row = []tap{{idx, 1}}
		}
		taps[o] = row
	}
	return taps
}

func resolveIndex(i, n int, tilable bool) int {
	if tilable {
		m := i % n
		if m < 0 {
			m += n
		}
		return m
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
