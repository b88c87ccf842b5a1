package texcore

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, one per row of the error-handling design: wrap
// these with fmt.Errorf("...: %w", ErrX) at the call site so callers can
// still errors.Is against the sentinel.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrResizeFailed       = errors.New("resize failed")
	ErrMipFailed          = errors.New("mip chain generation failed")
	ErrFloodFailed        = errors.New("mip flood failed")
	ErrMissingCompression = errors.New("no compression selected")
	ErrIOError            = errors.New("io error")
	ErrDecoderError       = errors.New("decoder error")
)

// Invariant panics with a formatted message when cond is false. Used for
// precondition violations that are fatal asserts: bad dimensions,
// non-power-of-two mips, view-kind mismatches, and similar contract
// violations a caller is expected to never trigger in practice.
func Invariant(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
