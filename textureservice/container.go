package textureservice

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/poppolopoppo/texturepipeline/compression"
	"github.com/poppolopoppo/texturepipeline/pixelformat"
	"github.com/poppolopoppo/texturepipeline/texcore"
	"github.com/poppolopoppo/texturepipeline/texturesource"
)

const containerMagic uint32 = 0x54504b47 // "TPKG"

// WriteResource serializes res as a fixed little-endian header
// followed by its raw compressed bytes. Field order mirrors
// compression.Resource so the format stays easy to extend without
// renumbering.
func WriteResource(w io.Writer, res *compression.Resource) error {
	reader := res.Bulk.LockRead()
	defer reader.Close()
	bulkBytes := reader.Bytes()

	header := make([]byte, 4+4*9)
	binary.LittleEndian.PutUint32(header[0:4], containerMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(res.ImageView))
	binary.LittleEndian.PutUint32(header[8:12], uint32(res.Format))
	binary.LittleEndian.PutUint32(header[12:16], uint32(res.Gamma))
	binary.LittleEndian.PutUint32(header[16:20], res.Dimensions.X)
	binary.LittleEndian.PutUint32(header[20:24], res.Dimensions.Y)
	binary.LittleEndian.PutUint32(header[24:28], res.Dimensions.Z)
	binary.LittleEndian.PutUint32(header[28:32], res.NumMips)
	binary.LittleEndian.PutUint32(header[32:36], res.NumSlices)
	binary.LittleEndian.PutUint32(header[36:40], uint32(len(bulkBytes)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w: texture container header: %w", texcore.ErrIOError, err)
	}
	if _, err := w.Write(bulkBytes); err != nil {
		return fmt.Errorf("%w: texture container payload: %w", texcore.ErrIOError, err)
	}
	return nil
}

// ReadResource parses a container written by WriteResource.
func ReadResource(r io.Reader) (*compression.Resource, error) {
	header := make([]byte, 4+4*9)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: texture container header: %w", texcore.ErrDecoderError, err)
	}
	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != containerMagic {
		return nil, fmt.Errorf("%w: not a texture container (bad magic)", texcore.ErrDecoderError)
	}

	res := &compression.Resource{
		ImageView: pixelformat.View(binary.LittleEndian.Uint32(header[4:8])),
		Format:    pixelformat.Format(binary.LittleEndian.Uint32(header[8:12])),
		Gamma:     pixelformat.GammaSpace(binary.LittleEndian.Uint32(header[12:16])),
		Dimensions: pixelformat.Dims3{
			X: binary.LittleEndian.Uint32(header[16:20]),
			Y: binary.LittleEndian.Uint32(header[20:24]),
			Z: binary.LittleEndian.Uint32(header[24:28]),
		},
		NumMips:   binary.LittleEndian.Uint32(header[28:32]),
		NumSlices: binary.LittleEndian.Uint32(header[32:36]),
	}
	size := binary.LittleEndian.Uint32(header[36:40])

	bulk := texturesource.NewBulkData(uint64(size))
	writer := bulk.LockWrite()
	if _, err := io.ReadFull(r, writer.Bytes()); err != nil {
		writer.Close()
		return nil, fmt.Errorf("%w: texture container payload: %w", texcore.ErrDecoderError, err)
	}
	writer.Close()
	res.Bulk = bulk
	return res, nil
}
