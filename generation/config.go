// Package generation implements the mip-chain and alpha-treatment
// pipeline (C5): resizing a source into a fully mipped, optionally
// post-processed and alpha-aware texture, then dispatching it to a
// compression implementation to produce the final output resource.
package generation

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/resize"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
	"github.com/poppolopoppo/texturepipeline/workerpool"
)

// Selector re-exports resize.Selector as the mip-generation choice
// carried by a Config: it is the same enumeration because §4.4's
// filter-selection table is driven directly by this value.
type Selector = resize.Selector

const (
	SelectorDefault                  = resize.SelectorDefault
	SelectorBox                      = resize.SelectorBox
	SelectorCubicSpline              = resize.SelectorCubicSpline
	SelectorCatmullRom               = resize.SelectorCatmullRom
	SelectorMitchell                 = resize.SelectorMitchell
	SelectorPointSample              = resize.SelectorPointSample
	SelectorGaussianBlur3            = resize.SelectorGaussianBlur3
	SelectorGaussianBlur5            = resize.SelectorGaussianBlur5
	SelectorGaussianBlur7            = resize.SelectorGaussianBlur7
	SelectorGaussianBlur9            = resize.SelectorGaussianBlur9
	SelectorContrastAdaptiveSharpen1 = resize.SelectorContrastAdaptiveSharpen1
	SelectorContrastAdaptiveSharpen9 = resize.SelectorContrastAdaptiveSharpen9
)

// Config is the texture-generation-config value type: a compression
// handle, optional resize overrides, alpha treatment parameters and
// the booleans steering which optional passes run.
type Config struct {
	Compression compression.Compression
	Settings    compression.Settings

	ResizeDimensions *pixelformat.Dims3
	ResizeFlags      *pixelformat.SourceFlags
	ResizeFormat     *pixelformat.SourceFormat

	AlphaCutoff      float32
	AlphaSpreadRatio float32
	MipGeneration    Selector

	FloodMipChainWithAlpha      bool
	GenerateAlphaDistanceField2D bool
	GenerateFullMipChain2D      bool
	PreserveAlphaTestCoverage2D bool

	Pool *workerpool.Pool
}

// NewFromProperties builds a Config whose defaults are derived purely
// from props: a full mip chain is requested whenever the source
// doesn't already carry one, flooding is enabled for any source with
// alpha, and masked-alpha sources get coverage preservation with the
// standard 0.5 cutoff.
func NewFromProperties(props texturesource.Properties) Config {
	cfg := Config{
		AlphaCutoff:      0.5,
		AlphaSpreadRatio: 0.2,
		MipGeneration:    SelectorDefault,
	}
	fullMips := pixelformat.FullMipCount(props.Dimensions)
	if props.NumMips != fullMips {
		cfg.GenerateFullMipChain2D = true
	}
	if props.HasAlpha() {
		cfg.FloodMipChainWithAlpha = true
	}
	if props.HasMaskedAlpha() {
		cfg.AlphaCutoff = 0.5
		cfg.PreserveAlphaTestCoverage2D = true
	}
	return cfg
}

// compressionChooser is the narrow slice of textureservice.Service
// that NewWithService needs: looking a compression implementation up
// by capability without generation importing the whole service
// package's registry surface.
type compressionChooser interface {
	BestTextureCompression(props texturesource.Properties, settings compression.Settings) compression.Compression
}

// NewWithService builds on NewFromProperties, then asks svc for the
// smallest-bits-per-pixel compression that supports props.
func NewWithService(svc compressionChooser, props texturesource.Properties) (Config, error) {
	cfg := NewFromProperties(props)
	impl := svc.BestTextureCompression(props, cfg.Settings)
	if impl == nil {
		return Config{}, fmt.Errorf("%w: no registered compression supports %v/%v", texcore.ErrMissingCompression, props.SourceFormat, props.Gamma)
	}
	cfg.Compression = impl
	return cfg, nil
}

func (c Config) pool() *workerpool.Pool {
	if c.Pool != nil {
		return c.Pool
	}
	return workerpool.Global()
}

// Prepare computes the properties the generated texture will have,
// without touching any bytes: dimensions/format/flags come from the
// overrides when present, numMips is FullMipCount when a full chain
// was requested, else min(source.NumMips, FullMipCount).
func (c Config) Prepare(source texturesource.Properties) (texturesource.Properties, error) {
	if c.Compression == nil {
		return texturesource.Properties{}, fmt.Errorf("%w", texcore.ErrMissingCompression)
	}

	newProps := source
	if c.ResizeDimensions != nil {
		newProps.Dimensions = *c.ResizeDimensions
	}
	if c.ResizeFlags != nil {
		newProps.Flags = *c.ResizeFlags
	}
	if c.ResizeFormat != nil {
		newProps.SourceFormat = *c.ResizeFormat
		newProps.ColorMask = pixelformat.ColorMaskOf(*c.ResizeFormat)
	}
	newProps.FinalizeDerived()

	fullMips := pixelformat.FullMipCount(newProps.Dimensions)
	if c.GenerateFullMipChain2D {
		newProps.NumMips = fullMips
	} else {
		newProps.NumMips = minU32(source.NumMips, fullMips)
	}
	return newProps, nil
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// needsIntermediateGeneration reports whether Generate must build an
// intermediate TextureSource before compressing: true when any
// override changes the source's shape/format/flags, or any
// post-process (SDF, flood, full mip chain, coverage preservation) is
// requested.
func (c Config) needsIntermediateGeneration(source, target texturesource.Properties) bool {
	if target.Dimensions != source.Dimensions || target.SourceFormat != source.SourceFormat || target.Flags != source.Flags {
		return true
	}
	return c.GenerateAlphaDistanceField2D || c.GenerateFullMipChain2D || c.FloodMipChainWithAlpha || c.PreserveAlphaTestCoverage2D || target.NumMips != source.NumMips
}
