// Package resize implements the multi-threaded 2D resampling kernel:
// a generic separable filter (Box, CubicBSpline, CatmullRom, Mitchell,
// PointSample) applied as a horizontal pass followed by a vertical
// pass, with per-row work split across a worker pool. It has no
// knowledge of mip chains, alpha treatment or compression; those are
// composed on top of it by the generation package.
package resize

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// Resize2D resamples one 2D image (src, srcDims, srcFormat) into
// another (dst, dstDims, dstFormat), using filter and treating the
// source as wrapping at its edges when tilable is true. Buffer sizes
// are validated against pixelformat.SizeInBytes before any work is
// scheduled; a size mismatch is a contract violation, not a
// recoverable error.
func Resize2D(dst []byte, dstDims pixelformat.Dims3, dstFormat pixelformat.SourceFormat,
	src []byte, srcDims pixelformat.Dims3, srcFormat pixelformat.SourceFormat,
	filter Filter, tilable bool, pool *workerpool.Pool) error {

	expectedSrc := pixelformat.SizeInBytes(srcFormat, pixelformat.Dims3{X: srcDims.X, Y: srcDims.Y, Z: 1}, 1, 1)
	expectedDst := pixelformat.SizeInBytes(dstFormat, pixelformat.Dims3{X: dstDims.X, Y: dstDims.Y, Z: 1}, 1, 1)
	texcore.Invariant(uint64(len(src)) == expectedSrc, "resize: source buffer size %d != expected %d", len(src), expectedSrc)
	texcore.Invariant(uint64(len(dst)) == expectedDst, "resize: destination buffer size %d != expected %d", len(dst), expectedDst)

	if pool == nil {
		pool = workerpool.Global()
	}

	srcView := imageview.New(src, pixelformat.Dims3{X: srcDims.X, Y: srcDims.Y, Z: 1}, srcFormat, tilable)

	srcW, srcH := int(srcDims.X), int(srcDims.Y)
	dstW, dstH := int(dstDims.X), int(dstDims.Y)

	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return fmt.Errorf("%w: resize requires strictly positive dimensions", texcore.ErrInvalidArgument)
	}

	hKernel := buildAxisKernel(srcW, dstW, filter, tilable)
	vKernel := buildAxisKernel(srcH, dstH, filter, tilable)

	// Pass 1: horizontal resize into a float intermediate of dstW x srcH.
	intermediate := make([]pixelformat.Rgba32F, dstW*srcH)
	decode := pixelformat.SourceEncoding(srcFormat).DecodeRGBA32F
	texcore.Invariant(decode != nil, "resize: source format %v has no decode kernel", srcFormat)

	pool.ParallelFor(0, srcH, func(y int) {
		row := srcView.Row(y, 0)
		bpp := srcView.BytesPerPixel()
		for x := 0; x < dstW; x++ {
			var acc pixelformat.Rgba32F
			for _, t := range hKernel[x] {
				px := row[t.index*bpp : t.index*bpp+bpp]
				c := decode(px)
				acc.R += c.R * t.weight
				acc.G += c.G * t.weight
				acc.B += c.B * t.weight
				acc.A += c.A * t.weight
			}
			intermediate[y*dstW+x] = acc
		}
	})

	// Pass 2: vertical resize from the intermediate into dst.
	dstView := imageview.New(dst, pixelformat.Dims3{X: dstDims.X, Y: dstDims.Y, Z: 1}, dstFormat, tilable)
	encode := pixelformat.SourceEncoding(dstFormat).EncodeRGBA32F
	texcore.Invariant(encode != nil, "resize: destination format %v has no encode kernel", dstFormat)

	pool.ParallelFor(0, dstH, func(y int) {
		outRow := dstView.Row(y, 0)
		bpp := dstView.BytesPerPixel()
		for x := 0; x < dstW; x++ {
			var acc pixelformat.Rgba32F
			for _, t := range vKernel[y] {
				c := intermediate[t.index*dstW+x]
				acc.R += c.R * t.weight
				acc.G += c.G * t.weight
				acc.B += c.B * t.weight
				acc.A += c.A * t.weight
			}
			encode(acc, outRow[x*bpp:x*bpp+bpp])
		}
	})

	return nil
}

// SelectFilter implements the §4.4 mapping from the caller's requested
// generation selector to a concrete resampling filter: GaussianBlur
// and ContrastAdaptiveSharpen selectors resample with Mitchell and
// expect the caller to run their own post-process pass afterward.
func SelectFilter(requested Selector, hasAlpha bool) Filter {
	switch requested {
	case SelectorDefault:
		if hasAlpha {
			return FilterCubicBSpline
		}
		return FilterMitchell
	case SelectorBox:
		return FilterBox
	case SelectorCubicSpline:
		return FilterCubicBSpline
	case SelectorCatmullRom:
		return FilterCatmullRom
	case SelectorMitchell:
		return FilterMitchell
	case SelectorPointSample:
		return FilterPointSample
	default:
		// GaussianBlurK / ContrastAdaptiveSharpenN: resample with
		// Mitchell, post-process is scheduled by the caller.
		return FilterMitchell
	}
}

// NeedsPostProcess reports whether requested names a post-resize
// filter pass (blur or sharpen) rather than a pure resampling filter.
func NeedsPostProcess(requested Selector) bool {
	return requested >= SelectorGaussianBlur3
}
