package utfvec

import "errors"

var (
	// ErrInvalidConfig is returned by NewProcessor when a ProcessorConfig
	// field holds a value outside its declared constant set.
	ErrInvalidConfig = errors.New("utfvec: invalid processor config")

	// ErrShortSource names a source that ends mid-sequence with no
	// further input to come; statusForError maps it to
	// StatusIncompleteData. ConvertInMemory and Process report that case
	// through Result.Status and do not return this error.
	ErrShortSource = errors.New("utfvec: source ends mid-sequence")

	// ErrMalformedInput is returned by Contiguous, Interactive and
	// fileio's memory-mapped path when a conversion does not end in
	// StatusSuccess, typically because the source contains a byte
	// sequence or code unit pairing that is not well-formed for its
	// encoding (overlong UTF-8, unpaired surrogate, code point above
	// U+10FFFF, lone continuation byte, and so on).
	ErrMalformedInput = errors.New("utfvec: malformed input")

	// ErrDestinationTooSmall names a destination that cannot hold the
	// converted output; statusForError maps it to StatusOverflowPossible.
	// The conversion functions report that case as StatusOverflowPossible
	// in their Result and do not return this error.
	ErrDestinationTooSmall = errors.New("utfvec: destination buffer too small")

	// ErrMmapUnsupported is returned by fileio's memory-mapped path on
	// platforms with no mmap build tag implementation.
	ErrMmapUnsupported = errors.New("utfvec: memory-mapped file I/O not supported on this platform")

	// ErrStreamClosed is returned by Stream.Process once Stream.Close
	// has been called.
	ErrStreamClosed = errors.New("utfvec: stream already closed")

	// ErrNilBuffer is returned by CheckBuffers when an input or output
	// buffer is empty (nil or zero-length), which the processor can never
	// write a decoded/encoded symbol into.
	ErrNilBuffer = errors.New("utfvec: buffer is nil or empty")

	// ErrBufferTooLarge is returned by CheckBuffers when a buffer exceeds
	// BufferMaxSize, a conservative sanity bound rather than a real
	// addressing limit.
	ErrBufferTooLarge = errors.New("utfvec: buffer exceeds the maximum sane size")

	// ErrBuffersOverlap is returned by CheckBuffers when the input buffer
	// and an output buffer (or two output buffers, in 4-stream decode)
	// share any backing memory.
	ErrBuffersOverlap = errors.New("utfvec: buffers overlap")
)

// statusForError maps an internal sentinel to the StatusCode a Result
// should carry, for the boundary between Go error returns (used inside
// this module's own packages) and the numeric status taxonomy the
// external interfaces expose.
func statusForError(err error) StatusCode {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrMalformedInput):
		return StatusIncorrectData
	case errors.Is(err, ErrShortSource):
		return StatusIncompleteData
	case errors.Is(err, ErrDestinationTooSmall):
		return StatusOverflowPossible
	case errors.Is(err, ErrMmapUnsupported):
		return StatusNoAccess
	case errors.Is(err, ErrNilBuffer), errors.Is(err, ErrBufferTooLarge), errors.Is(err, ErrBuffersOverlap):
		return StatusNoAccess
	default:
		return StatusIncorrectData
	}
}
