package texturesource

import (
	"fmt"

	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
)

// Source owns one Properties record and one BulkData buffer. The zero
// value is the Empty state of the source-texture lifecycle; Construct
// moves it to Constructed, TearDown moves it back to Empty.
type Source struct {
	props Properties
	bulk  *BulkData
}

// Construct installs properties, auto-setting the HDR flag when the
// source format can hold HDR values, and either adopts buf (if
// non-nil) or allocates a freshly zeroed buffer sized to
// Properties.SizeInBytes. Passing a buffer while Compression is not
// None is rejected: the per-texture compression slot is reserved but
// unimplemented.
func Construct(props Properties, buf []byte) (*Source, error) {
	props.finalize()
	if err := props.validate(); err != nil {
		return nil, err
	}
	if buf != nil && props.Compression != pixelformat.SourceCompressionNone {
		return nil, fmt.Errorf("%w: cannot adopt a buffer with a non-None source compression", texcore.ErrInvalidArgument)
	}

	s := &Source{props: props}
	if buf != nil {
		expected := props.SizeInBytes()
		texcore.Invariant(uint64(len(buf)) == expected, "texturesource: adopted buffer size %d != expected %d", len(buf), expected)
		s.bulk = AdoptBulkData(buf)
	} else {
		s.bulk = NewBulkData(props.SizeInBytes())
	}
	return s, nil
}

// TearDown releases the bulk buffer and resets properties to the zero
// value, returning the source to the Empty state.
func (s *Source) TearDown() {
	s.bulk = nil
	s.props = Properties{}
}

func (s *Source) Properties() Properties { return s.props }
func (s *Source) Bulk() *BulkData        { return s.bulk }

func (s *Source) Width() uint32  { return s.props.Width() }
func (s *Source) Height() uint32 { return s.props.Height() }
func (s *Source) Depth() uint32  { return s.props.Depth() }

// ReaderScope opens shared read access over the whole buffer.
func (s *Source) ReaderScope() *ReaderScope { return s.bulk.LockRead() }

// WriterScope opens exclusive write access over the whole buffer.
func (s *Source) WriterScope() *WriterScope { return s.bulk.LockWrite() }

// sliceByteSize returns the byte size of a single slice (all mips).
func (s *Source) sliceByteSize() uint64 {
	return pixelformat.SizeInBytes(s.props.SourceFormat, s.props.Dimensions, s.props.NumMips, 1)
}

// mipByteOffsetInSlice returns the byte offset and size of mip level m
// within one slice's contiguous mip-from-0-downward layout.
func (s *Source) mipByteOffsetInSlice(m uint32) (offset, size uint64) {
	bpp := uint64(pixelformat.BytesPerPixel(s.props.SourceFormat))
	dims := s.props.Dimensions
	for i := uint32(0); i < m; i++ {
		offset += bpp * uint64(dims.X) * uint64(dims.Y) * uint64(dims.Z)
		dims = pixelformat.NextMip(dims)
	}
	size = bpp * uint64(dims.X) * uint64(dims.Y) * uint64(dims.Z)
	return offset, size
}

// SliceData returns the byte range of sliceIndex across all its mips.
func (s *Source) SliceData(buf []byte, sliceIndex uint32) ([]byte, error) {
	texcore.Invariant(sliceIndex < s.props.NumSlices, "texturesource: slice index %d out of range [0,%d)", sliceIndex, s.props.NumSlices)
	sliceSize := s.sliceByteSize()
	offset := uint64(sliceIndex) * sliceSize
	return sliceInBounds(buf, offset, sliceSize)
}

// MipData returns the byte range for numMips mip levels starting at
// mipBias, within the given slice.
func (s *Source) MipData(buf []byte, mipBias, numMips, sliceIndex uint32) ([]byte, error) {
	texcore.Invariant(mipBias+numMips <= s.props.NumMips, "texturesource: mip range [%d,%d) out of bounds (numMips=%d)", mipBias, mipBias+numMips, s.props.NumMips)
	sliceSlice, err := s.SliceData(buf, sliceIndex)
	if err != nil {
		return nil, err
	}
	startOffset, _ := s.mipByteOffsetInSlice(mipBias)
	var totalSize uint64
	for m := mipBias; m < mipBias+numMips; m++ {
		_, sz := s.mipByteOffsetInSlice(m)
		totalSize += sz
	}
	return sliceInBounds(sliceSlice, startOffset, totalSize)
}

// Resize synthesizes updated properties (requiring the component count
// stay fixed across a format change), allocates a new buffer and
// copies/resamples each slice's top mip through resizeFn, then returns
// a new Source. Returns an error on any failure rather than mutating
// the receiver: the original source is left untouched.
func (s *Source) Resize(dims pixelformat.Dims3, numMips uint32, format pixelformat.SourceFormat, flags pixelformat.SourceFlags, resizeFn ResizeMipFunc) (*Source, error) {
	if format == pixelformat.SourceFormatUnknown {
		format = s.props.SourceFormat
	}
	if pixelformat.Components(format) != pixelformat.Components(s.props.SourceFormat) {
		return nil, fmt.Errorf("%w: Resize cannot change channel count (%d -> %d)",
			texcore.ErrInvalidArgument, pixelformat.Components(s.props.SourceFormat), pixelformat.Components(format))
	}
	if numMips == 0 {
		numMips = 1
	}

	newProps := s.props
	newProps.Dimensions = dims
	newProps.NumMips = numMips
	newProps.SourceFormat = format
	newProps.Flags = flags
	newProps.finalize()

	dst, err := Construct(newProps, nil)
	if err != nil {
		return nil, err
	}

	srcReader := s.ReaderScope()
	defer srcReader.Close()
	dstWriter := dst.WriterScope()
	defer dstWriter.Close()

	for slice := uint32(0); slice < s.props.NumSlices; slice++ {
		srcSlice, err := s.MipData(srcReader.Bytes(), 0, 1, slice)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", texcore.ErrResizeFailed, err)
		}
		dstSlice, err := dst.MipData(dstWriter.Bytes(), 0, 1, slice)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", texcore.ErrResizeFailed, err)
		}
		if err := resizeFn(dstSlice, dims, format, flags, srcSlice, s.props.Dimensions, s.props.SourceFormat, s.props.Flags); err != nil {
			return nil, fmt.Errorf("%w: slice %d: %w", texcore.ErrResizeFailed, slice, err)
		}
	}
	return dst, nil
}

// ResizeMipFunc is the C4 entry point's shape, injected rather than
// imported directly so texturesource stays free of a hard dependency
// on the resize kernel's filter-selection policy.
type ResizeMipFunc func(dst []byte, dstDims pixelformat.Dims3, dstFormat pixelformat.SourceFormat, dstFlags pixelformat.SourceFlags,
	src []byte, srcDims pixelformat.Dims3, srcFormat pixelformat.SourceFormat, srcFlags pixelformat.SourceFlags) error

// GenerateMipChain2D fills mips 1..NumMips-1 of every slice by
// repeatedly resizing the previous mip into the current one. Returns
// an error (and leaves the buffer partially written) on the first
// slice to fail.
func (s *Source) GenerateMipChain2D(resizeFn ResizeMipFunc) error {
	texcore.Invariant(s.props.ImageView == pixelformat.View2D || s.props.ImageView == pixelformat.View2DArray ||
		s.props.ImageView == pixelformat.ViewCube || s.props.ImageView == pixelformat.ViewCubeArray,
		"texturesource: GenerateMipChain2D requires a 2D-family view, got %v", s.props.ImageView)

	w := s.WriterScope()
	defer w.Close()
	buf := w.Bytes()

	for slice := uint32(0); slice < s.props.NumSlices; slice++ {
		dims := s.props.Dimensions
		for m := uint32(1); m < s.props.NumMips; m++ {
			prevDims := dims
			dims = pixelformat.NextMip(dims)
			prevMip, err := s.MipData(buf, m-1, 1, slice)
			if err != nil {
				return fmt.Errorf("%w: slice %d mip %d: %w", texcore.ErrMipFailed, slice, m, err)
			}
			curMip, err := s.MipData(buf, m, 1, slice)
			if err != nil {
				return fmt.Errorf("%w: slice %d mip %d: %w", texcore.ErrMipFailed, slice, m, err)
			}
			if err := resizeFn(curMip, dims, s.props.SourceFormat, s.props.Flags, prevMip, prevDims, s.props.SourceFormat, s.props.Flags); err != nil {
				return fmt.Errorf("%w: slice %d mip %d: %w", texcore.ErrMipFailed, slice, m, err)
			}
		}
	}
	return nil
}
