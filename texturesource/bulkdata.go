package texturesource

import (
	"fmt"
	"sync"

	"github.com/poppolopoppo/texturepipeline/texcore"
)

// BulkData is an owned, resizable byte buffer with an optional
// association to an on-disk source path. At most one writer or any
// number of readers may hold it open at a time, enforced by an
// embedded RWMutex; scopes release on Close, including on the error
// path via defer at the call site.
type BulkData struct {
	mu         sync.RWMutex
	bytes      []byte
	sourceFile string
}

// NewBulkData allocates size zeroed bytes.
func NewBulkData(size uint64) *BulkData {
	return &BulkData{bytes: make([]byte, size)}
}

// AdoptBulkData wraps an existing buffer without copying.
func AdoptBulkData(buf []byte) *BulkData {
	return &BulkData{bytes: buf}
}

// SourceFile returns the informational path this buffer was loaded
// from, if any.
func (b *BulkData) SourceFile() string { return b.sourceFile }

// SetSourceFile records the provenance path for later export
// attribution.
func (b *BulkData) SetSourceFile(path string) { b.sourceFile = path }

// Size returns the current buffer length.
func (b *BulkData) Size() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint64(len(b.bytes))
}

// Resize grows or shrinks the buffer, discarding prior contents. Must
// not be called while any reader or writer scope is open.
func (b *BulkData) Resize(size uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bytes = make([]byte, size)
}

// ReaderScope is shared read access: many readers may hold one
// concurrently, but no writer may open while any reader scope is
// live.
type ReaderScope struct {
	data *BulkData
}

// LockRead opens a shared-read scope over b.
func (b *BulkData) LockRead() *ReaderScope {
	b.mu.RLock()
	return &ReaderScope{data: b}
}

// Bytes returns the full backing slice for read-only use.
func (r *ReaderScope) Bytes() []byte { return r.data.bytes }

// Close releases the reader scope.
func (r *ReaderScope) Close() { r.data.mu.RUnlock() }

// WriterScope is exclusive write access: only one may be open, and no
// reader scope may be open concurrently.
type WriterScope struct {
	data *BulkData
}

// LockWrite opens an exclusive-write scope over b.
func (b *BulkData) LockWrite() *WriterScope {
	b.mu.Lock()
	return &WriterScope{data: b}
}

// Bytes returns the full backing slice for mutation.
func (w *WriterScope) Bytes() []byte { return w.data.bytes }

// Close releases the writer scope.
func (w *WriterScope) Close() { w.data.mu.Unlock() }

func sliceInBounds(buf []byte, offset, size uint64) ([]byte, error) {
	if offset+size > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: byte range [%d,%d) out of bounds (len=%d)",
			texcore.ErrInvalidArgument, offset, offset+size, len(buf))
	}
	return buf[offset : offset+size], nil
}
