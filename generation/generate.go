package generation

import (
	"fmt"
	"sync/atomic"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/imageview"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// Generate turns source into a compressed texture resource: it
// requires a compression implementation to already be selected
// (NewWithService selects one), builds an intermediate
// TextureSource carrying any requested resize, alpha distance field,
// mip chain and flood-fill work, then dispatches the result to the
// selected compression's Compress<View> overload matching the source's
// image view.
func (c Config) Generate(source *texturesource.Source) (*compression.Resource, error) {
	if c.Compression == nil {
		return nil, fmt.Errorf("%w", texcore.ErrMissingCompression)
	}

	srcProps := source.Properties()
	targetProps, err := c.Prepare(srcProps)
	if err != nil {
		return nil, err
	}

	workSource := source
	if c.needsIntermediateGeneration(srcProps, targetProps) {
		intermediate, err := texturesource.Construct(targetProps, nil)
		if err != nil {
			return nil, err
		}
		if err := c.populateIntermediate(source, srcProps, intermediate, targetProps); err != nil {
			return nil, err
		}
		workSource = intermediate
	}

	return c.dispatchCompression(workSource)
}

// populateIntermediate fills dst's top mip from source (resizing when
// shape/format changed), runs the optional SDF pass, builds each
// slice's mip chain, and finally floods alpha borders across the whole
// chain if requested. Per-slice failures are counted rather than
// aborting the other slices' work, and surfaced as a single
// aggregated error once every slice has been attempted.
func (c Config) populateIntermediate(source *texturesource.Source, srcProps texturesource.Properties, dst *texturesource.Source, targetProps texturesource.Properties) error {
	pool := c.pool()

	srcReader := source.ReaderScope()
	defer srcReader.Close()
	dstWriter := dst.WriterScope()

	var failures int64
	pool.ParallelFor(0, int(targetProps.NumSlices), func(sliceIdx int) {
		slice := uint32(sliceIdx)
		srcSlice := minU32(slice, srcProps.NumSlices-1)

		srcTop, err := source.MipData(srcReader.Bytes(), 0, 1, srcSlice)
		if err != nil {
			atomic.AddInt64(&failures, 1)
			return
		}
		dstTop, err := dst.MipData(dstWriter.Bytes(), 0, 1, slice)
		if err != nil {
			atomic.AddInt64(&failures, 1)
			return
		}
		if err := c.ResizeMip2D(dstTop, targetProps.Dimensions, targetProps.SourceFormat, targetProps.Flags,
			srcTop, srcProps.Dimensions, srcProps.SourceFormat, srcProps.Flags); err != nil {
			atomic.AddInt64(&failures, 1)
			return
		}

		if c.GenerateAlphaDistanceField2D {
			view := imageview.New(dstTop, targetProps.Dimensions, targetProps.SourceFormat, targetProps.IsTilable())
			GenerateAlphaDistanceField2D(view, c.AlphaCutoff, c.AlphaSpreadRatio, nil)
		}

		sliceBytes, err := dst.SliceData(dstWriter.Bytes(), slice)
		if err != nil {
			atomic.AddInt64(&failures, 1)
			return
		}
		if err := c.GenerateSliceMipChain2D(targetProps, sliceBytes); err != nil {
			atomic.AddInt64(&failures, 1)
		}
	})

	if c.FloodMipChainWithAlpha && atomic.LoadInt64(&failures) == 0 {
		FloodMipChainWithAlpha(targetProps, dstWriter.Bytes(), pool)
	}
	dstWriter.Close()

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d slices failed mip generation", texcore.ErrMipFailed, failures, targetProps.NumSlices)
	}
	return nil
}

func (c Config) dispatchCompression(src *texturesource.Source) (*compression.Resource, error) {
	props := src.Properties()
	switch props.ImageView {
	case pixelformat.View2D:
		return c.Compression.Compress2D(src, c.Settings)
	case pixelformat.View2DArray:
		return c.Compression.Compress2DArray(src, c.Settings)
	case pixelformat.View3D:
		return c.Compression.Compress3D(src, c.Settings)
	case pixelformat.ViewCube:
		return c.Compression.CompressCube(src, c.Settings)
	case pixelformat.ViewCubeArray:
		return c.Compression.CompressCubeArray(src, c.Settings)
	default:
		return nil, fmt.Errorf("%w: unsupported image view %v", texcore.ErrUnsupportedFormat, props.ImageView)
	}
}
