package generation

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/mathutil"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

const alphaSuperSample = 4

// AlphaTestCoverage2D estimates the fraction of the image that would
// pass an alpha test at cutoff, after scaling every sampled alpha by
// alphaScale. Each texel's 2x2 neighborhood is supersampled on a 4x4
// grid via bilinear interpolation, so the estimate tracks what a GPU's
// bilinear alpha-test sampling would see at this resolution.
func AlphaTestCoverage2D(view *imageview.View, alphaScale, cutoff float32, pool *workerpool.Pool) float32 {
	if pool == nil {
		pool = workerpool.Global()
	}
	dims := view.Dims()
	w, h := int(dims.X), int(dims.Y)
	if w == 0 || h == 0 {
		return 0
	}

	samplesPerRow := int64(w * alphaSuperSample * alphaSuperSample)
	passCount := pool.ParallelSum(0, h, func(y int) int64 {
		var count int64
		for x := 0; x < w; x++ {
			c00 := view.Load(imageview.Coord{X: x, Y: y})
			c10 := view.Load(imageview.Coord{X: x + 1, Y: y})
			c01 := view.Load(imageview.Coord{X: x, Y: y + 1})
			c11 := view.Load(imageview.Coord{X: x + 1, Y: y + 1})
			for sy := 0; sy < alphaSuperSample; sy++ {
				fy := (float32(sy) + 0.5) / alphaSuperSample
				for sx := 0; sx < alphaSuperSample; sx++ {
					fx := (float32(sx) + 0.5) / alphaSuperSample
					a := mathutil.Lerp(mathutil.Lerp(c00.A, c10.A, fx), mathutil.Lerp(c01.A, c11.A, fx), fy)
					if mathutil.Saturate(a*alphaScale) >= cutoff {
						count++
					}
				}
			}
		}
		return count
	})

	total := int64(h) * samplesPerRow
	if total == 0 {
		return 0
	}
	return float32(passCount) / float32(total)
}

// ScaleAlphaToCoverage2D binary-searches, over 10 iterations, for the
// alpha scale factor in [0,4] whose AlphaTestCoverage2D most closely
// matches desired, then applies that scale to the view's alpha channel
// in place. Returns the scale actually applied.
func ScaleAlphaToCoverage2D(view *imageview.View, desired, cutoff float32, pool *workerpool.Pool) float32 {
	if pool == nil {
		pool = workerpool.Global()
	}
	lo, hi := float32(0), float32(4)
	bestScale, bestErr := float32(1), float32(2)
	for i := 0; i < 10; i++ {
		scale := (lo + hi) / 2
		coverage := AlphaTestCoverage2D(view, scale, cutoff, pool)
		err := coverage - desired
		if err < 0 {
			err = -err
		}
		if err < bestErr {
			bestScale, bestErr = scale, err
		}
		if coverage < desired {
			lo = scale
		} else {
			hi = scale
		}
	}
	applyAlphaScale(view, bestScale, pool)
	return bestScale
}

func applyAlphaScale(view *imageview.View, scale float32, pool *workerpool.Pool) {
	dims := view.Dims()
	w, h, d := int(dims.X), int(dims.Y), int(dims.Z)
	pool.ParallelFor(0, h*d, func(i int) {
		y := i % h
		z := i / h
		for x := 0; x < w; x++ {
			p := imageview.Coord{X: x, Y: y, Z: z}
			c := view.Load(p)
			c.A = mathutil.Saturate(c.A * scale)
			view.Store(p, c)
		}
	})
}

// ScaleBias applies saturate(p*scale+bias) to every channel of every
// texel in view, parallelized across rows (and slices, for a 3D view).
func ScaleBias(view *imageview.View, scale, bias float32, pool *workerpool.Pool) {
	if pool == nil {
		pool = workerpool.Global()
	}
	dims := view.Dims()
	w, h, d := int(dims.X), int(dims.Y), int(dims.Z)
	pool.ParallelFor(0, h*d, func(i int) {
		y := i % h
		z := i / h
		for x := 0; x < w; x++ {
			p := imageview.Coord{X: x, Y: y, Z: z}
			c := view.Load(p)
			c.R = mathutil.Saturate(c.R*scale + bias)
			c.G = mathutil.Saturate(c.G*scale + bias)
			c.B = mathutil.Saturate(c.B*scale + bias)
			c.A = mathutil.Saturate(c.A*scale + bias)
			view.Store(p, c)
		}
	})
}

// GenerateSliceMipChain2D fills every mip beyond 0 in sliceBytes (one
// slice's tightly-packed, mips-from-0-downward buffer) by repeatedly
// resizing the previous mip into the current one through
// cfg.ResizeMip2D. When cfg.PreserveAlphaTestCoverage2D is set on a
// masked-alpha source, the mip-0 coverage at the configured cutoff is
// measured once and every downstream mip's alpha is rescaled to match
// it, preventing alpha-tested geometry from thinning out as it shrinks.
func (c Config) GenerateSliceMipChain2D(props texturesource.Properties, sliceBytes []byte) error {
	if !mathutil.IsPow2(props.Dimensions.X) || !mathutil.IsPow2(props.Dimensions.Y) {
		return fmt.Errorf("%w: GenerateSliceMipChain2D requires power-of-two width/height, got %dx%d",
			texcore.ErrInvalidArgument, props.Dimensions.X, props.Dimensions.Y)
	}

	offsets, sizes := mipLayout(props.SourceFormat, props.Dimensions, props.NumMips)

	var desiredCoverage float32
	preserveCoverage := c.PreserveAlphaTestCoverage2D && props.HasMaskedAlpha()
	if preserveCoverage {
		mip0 := sliceBytes[offsets[0] : offsets[0]+sizes[0]]
		view0 := imageview.New(mip0, props.Dimensions, props.SourceFormat, props.IsTilable())
		desiredCoverage = AlphaTestCoverage2D(view0, 1, c.AlphaCutoff, c.pool())
	}

	dims := props.Dimensions
	for m := uint32(1); m < props.NumMips; m++ {
		prevDims := dims
		dims = pixelformat.NextMip(dims)

		prevBytes := sliceBytes[offsets[m-1] : offsets[m-1]+sizes[m-1]]
		curBytes := sliceBytes[offsets[m] : offsets[m]+sizes[m]]

		if err := c.ResizeMip2D(curBytes, dims, props.SourceFormat, props.Flags, prevBytes, prevDims, props.SourceFormat, props.Flags); err != nil {
			return fmt.Errorf("%w: mip %d: %w", texcore.ErrMipFailed, m, err)
		}

		if preserveCoverage {
			curView := imageview.New(curBytes, dims, props.SourceFormat, props.IsTilable())
			ScaleAlphaToCoverage2D(curView, desiredCoverage, c.AlphaCutoff, c.pool())
		}
	}
	return nil
}
