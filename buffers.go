package utfvec

import (
	"math"
	"unsafe"
)

// buffers.go exposes the sizing hints and the overlap/null/sanity-bound
// predicate a caller needs before wiring its own buffers into a
// Processor, rather than discovering a too-small destination or an
// aliased pair of slices only after Process has already run.

// recommendedInputChunk is the nominal per-call input chunk size
// InputBufferRecommendedSize hints at: large enough that most chunks
// keep the vector step busy, small enough to bound peak memory for a
// streaming caller.
const recommendedInputChunk = 64 * 1024

// bufferSanityBound stands in for the source's INT_MAX/8: a destination
// or source larger than this is almost certainly a caller bug (an
// accidental length-in-bits, a runaway accumulation) rather than a
// legitimate buffer, and is rejected by CheckBuffers before any
// conversion is attempted.
const bufferSanityBound = math.MaxInt / 8

// StreamsCount reports how many independent output buffers a caller
// must be ready to supply (or concatenate) for this Processor's
// configuration. StreamsAuto is conservatively reported as 4: whether a
// given call actually fans out depends on its input size
// (streamSplitThreshold in processor.go), and a caller sizing buffers
// ahead of time needs to plan for the worst case.
func (p *Processor) StreamsCount() int {
	switch p.cfg.Streams {
	case Streams1:
		return 1
	default:
		return 4
	}
}

// InputBufferRecommendedSize is the chunk size a streaming caller
// should read (or feed to Contiguous/Interactive) at a time.
func (p *Processor) InputBufferRecommendedSize() int {
	return recommendedInputChunk
}

// OutputBufferMinSize returns the worst-case output size, per stream,
// for inBytes worth of input. Decode's worst case is one output code
// unit per input byte (pure ASCII) plus 4 units of headroom for a stream
// boundary that lands mid-symbol. Encode allows 3 UTF-8 bytes per source
// code unit (a lone BMP unit) plus 16 bytes; a UTF-32 unit above U+FFFF
// encodes to 4 bytes, so for UTF-32 input dense with astral code points
// the result can be smaller than the actual output.
func (p *Processor) OutputBufferMinSize(inBytes int) int {
	if inBytes < 0 {
		inBytes = 0
	}
	streams := p.StreamsCount()
	if p.cfg.Direction == Decode {
		return (inBytes/streams + 4) * int(p.cfg.OutputType)
	}
	return (inBytes/p.cfg.unitSize())*3 + 16
}

// BufferMaxSize is the sanity bound CheckBuffers enforces on every
// buffer length, independent of any particular Processor.
func BufferMaxSize() int {
	return bufferSanityBound
}

// CheckBuffers verifies that in and every buffer in outs are non-empty,
// within BufferMaxSize, and pairwise non-overlapping, before a caller
// hands them to Process/Stream/Contiguous. Process itself only rejects
// an overlapping src/dst pair; CheckBuffers also catches empty or
// oversized buffers and overlap between several output buffers.
func CheckBuffers(in []byte, outs ...[]byte) error {
	if err := checkOneBuffer(in); err != nil {
		return err
	}
	for _, out := range outs {
		if err := checkOneBuffer(out); err != nil {
			return err
		}
	}
	for i := range outs {
		if slicesOverlap(in, outs[i]) {
			return ErrBuffersOverlap
		}
		for j := i + 1; j < len(outs); j++ {
			if slicesOverlap(outs[i], outs[j]) {
				return ErrBuffersOverlap
			}
		}
	}
	return nil
}

func checkOneBuffer(b []byte) error {
	if len(b) == 0 {
		return ErrNilBuffer
	}
	if len(b) > bufferSanityBound {
		return ErrBufferTooLarge
	}
	return nil
}

// slicesOverlap reports whether a and b share any backing memory. Go
// slices carry no portable overlap check of their own, so this compares
// the address ranges directly the way the source's CheckBuffers does
// with raw pointers.
func slicesOverlap(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	return aStart < bEnd && bStart < aEnd
}
