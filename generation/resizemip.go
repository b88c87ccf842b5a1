package generation

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/resize"
	"github.com/poppolopoppo/texturepipeline/texcore"
)

// ResizeMip2D is the single entry point every mip level is produced
// through, whether resizing the top mip from the source's own top mip
// or downsampling mip m-1 into mip m: it picks the resampling filter
// from cfg.MipGeneration, runs the separable resize, then schedules a
// post-process pass (Gaussian blur or contrast-adaptive sharpening)
// when the selector asked for one. Its signature matches
// texturesource.ResizeMipFunc so it can be passed directly to
// Source.Resize and Source.GenerateMipChain2D.
func (c Config) ResizeMip2D(dst []byte, dstDims pixelformat.Dims3, dstFormat pixelformat.SourceFormat, dstFlags pixelformat.SourceFlags,
	src []byte, srcDims pixelformat.Dims3, srcFormat pixelformat.SourceFormat, srcFlags pixelformat.SourceFlags) error {

	hasAlpha := pixelformat.HasAlphaChannel(srcFormat) || pixelformat.HasAlphaChannel(dstFormat)
	tilable := srcFlags.Has(pixelformat.FlagTilable) || dstFlags.Has(pixelformat.FlagTilable)
	filter := resize.SelectFilter(c.MipGeneration, hasAlpha)

	if err := resize.Resize2D(dst, dstDims, dstFormat, src, srcDims, srcFormat, filter, tilable, c.pool()); err != nil {
		return fmt.Errorf("%w: %w", texcore.ErrResizeFailed, err)
	}

	if !resize.NeedsPostProcess(c.MipGeneration) {
		return nil
	}

	view := imageview.New(dst, dstDims, dstFormat, tilable)
	switch {
	case c.MipGeneration.IsGaussianBlur():
		GaussianBlur2D(view, c.MipGeneration.GaussianWindowSize(), hasAlpha, c.pool())
	case c.MipGeneration.IsContrastAdaptiveSharpen():
		sharpen01 := float32(c.MipGeneration.SharpenLevel()) / 10
		ContrastAdaptiveSharpening2D(view, sharpen01, hasAlpha, c.AlphaCutoff, c.pool())
	}
	return nil
}
