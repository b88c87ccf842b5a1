package compression

import (
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

// Passthrough is the identity compression: it copies source bytes
// verbatim whenever the source's (format, gamma) already match the
// target, and the source carries at least as many color channels as
// the target format needs.
type Passthrough struct {
	pixelFormat  pixelformat.Format
	sourceFormat pixelformat.SourceFormat
	gamma        pixelformat.GammaSpace
}

// NewPassthrough builds a Passthrough instance for one (pixelFormat,
// sourceFormat, gamma) triple. The built-in pairs mirror the
// original's instantiated template set.
func NewPassthrough(pixelFormat pixelformat.Format, sourceFormat pixelformat.SourceFormat, gamma pixelformat.GammaSpace) *Passthrough {
	return &Passthrough{pixelFormat: pixelFormat, sourceFormat: sourceFormat, gamma: gamma}
}

// BuiltinPassthroughs returns one Passthrough per instantiated pair
// named in the compression dispatch design: the uncompressed GPU
// formats reachable without resampling or block encoding.
func BuiltinPassthroughs() []*Passthrough {
	return []*Passthrough{
		NewPassthrough(pixelformat.FormatBGRA8UNorm, pixelformat.SourceFormatBGRA8, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatSBGR8A8, pixelformat.SourceFormatBGRA8, pixelformat.GammaSRGB),
		NewPassthrough(pixelformat.FormatR16UNorm, pixelformat.SourceFormatG16, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatR8UNorm, pixelformat.SourceFormatG8, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatR16f, pixelformat.SourceFormatR16f, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRG16UNorm, pixelformat.SourceFormatRG16, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRG8UNorm, pixelformat.SourceFormatRG8, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRGBA16UNorm, pixelformat.SourceFormatRGBA16, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRGBA16f, pixelformat.SourceFormatRGBA16f, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRGBA32f, pixelformat.SourceFormatRGBA32f, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatRGBA8UNorm, pixelformat.SourceFormatRGBA8, pixelformat.GammaLinear),
		NewPassthrough(pixelformat.FormatSRGB8A8, pixelformat.SourceFormatRGBA8, pixelformat.GammaSRGB),
	}
}

func (p *Passthrough) Format() pixelformat.Format { return p.pixelFormat }

func (p *Passthrough) Supports(props texturesource.Properties, settings Settings) bool {
	return props.SourceFormat == p.sourceFormat &&
		props.Gamma == p.gamma &&
		props.ColorMask.Channels() >= pixelformat.Components(props.SourceFormat)
}

func (p *Passthrough) compress(view pixelformat.View, src *texturesource.Source, settings Settings) (*Resource, error) {
	props := src.Properties()
	if err := requireView(props, view); err != nil {
		return nil, err
	}

	dstSize := pixelformat.OutputSizeInBytes(p.pixelFormat, props.Dimensions, props.NumMips, props.NumSlices)

	reader := src.ReaderScope()
	defer reader.Close()
	srcBytes := reader.Bytes()
	texcore.Invariant(uint64(len(srcBytes)) == dstSize, "compression: passthrough size mismatch: source=%d dest=%d", len(srcBytes), dstSize)

	bulk := texturesource.NewBulkData(dstSize)
	writer := bulk.LockWrite()
	copy(writer.Bytes(), srcBytes)
	writer.Close()
	bulk.SetSourceFile(src.Bulk().SourceFile())

	return &Resource{
		ImageView:  view,
		Format:     p.pixelFormat,
		Gamma:      p.gamma,
		Dimensions: props.Dimensions,
		NumMips:    props.NumMips,
		NumSlices:  props.NumSlices,
		Address:    addressModeFromSource(props),
		SourceFile: src.Bulk().SourceFile(),
		Bulk:       bulk,
	}, nil
}

func (p *Passthrough) Compress2D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return p.compress(pixelformat.View2D, src, settings)
}
func (p *Passthrough) Compress2DArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return p.compress(pixelformat.View2DArray, src, settings)
}
func (p *Passthrough) Compress3D(src *texturesource.Source, settings Settings) (*Resource, error) {
	return p.compress(pixelformat.View3D, src, settings)
}
func (p *Passthrough) CompressCube(src *texturesource.Source, settings Settings) (*Resource, error) {
	return p.compress(pixelformat.ViewCube, src, settings)
}
func (p *Passthrough) CompressCubeArray(src *texturesource.Source, settings Settings) (*Resource, error) {
	return p.compress(pixelformat.ViewCubeArray, src, settings)
}

var _ Compression = (*Passthrough)(nil)
