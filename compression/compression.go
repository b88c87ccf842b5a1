// Package compression implements the pluggable compression dispatch
// (C7): a small interface keyed by output pixel format, a Supports
// predicate picking the right implementation for a given source, and a
// family of Compress entry points producing typed output resources.
package compression

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// AddressMode is the per-axis wrap mode recorded on an output resource,
// derived from the source's Tilable flag.
type AddressMode int

const (
	AddressUnknown AddressMode = iota
	AddressRepeat
)

// Settings carries compression quality knobs. Implementations ignore
// fields they don't use; the zero value selects each implementation's
// default behavior.
type Settings struct {
	Quality int
}

// Resource is the output texture resource: final pixel format, gamma,
// view kind and mip count, the compressed bulk bytes, per-axis address
// mode and optional source-file provenance. One value serves all five
// view-kind variants (Texture2D/2DArray/3D/Cube/CubeArray); ImageView
// records which.
type Resource struct {
	ImageView  pixelformat.View
	Format     pixelformat.Format
	Gamma      pixelformat.GammaSpace
	Dimensions pixelformat.Dims3
	NumMips    uint32
	NumSlices  uint32
	Address    [3]AddressMode
	SourceFile string
	Bulk       *texturesource.BulkData
}

// Compression is the capability contract every compressor implements:
// declare the pixel format it produces, say whether it can handle a
// given source, and compress a source into a typed resource for each
// view kind it supports.
type Compression interface {
	Format() pixelformat.Format
	Supports(props texturesource.Properties, settings Settings) bool
	Compress2D(src *texturesource.Source, settings Settings) (*Resource, error)
	Compress2DArray(src *texturesource.Source, settings Settings) (*Resource, error)
	Compress3D(src *texturesource.Source, settings Settings) (*Resource, error)
	CompressCube(src *texturesource.Source, settings Settings) (*Resource, error)
	CompressCubeArray(src *texturesource.Source, settings Settings) (*Resource, error)
}

// addressModeFromSource derives the per-axis address mode: Repeat on
// every axis when the source is tilable, Unknown (mapped downstream to
// an engine default) otherwise.
func addressModeFromSource(props texturesource.Properties) [3]AddressMode {
	if props.IsTilable() {
		return [3]AddressMode{AddressRepeat, AddressRepeat, AddressRepeat}
	}
	return [3]AddressMode{}
}

func requireView(props texturesource.Properties, want pixelformat.View) error {
	if props.ImageView != want {
		return fmt.Errorf("%w: expected view %v, source has %v", texcore.ErrUnsupportedFormat, want, props.ImageView)
	}
	return nil
}
