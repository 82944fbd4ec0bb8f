package utfvec

// stream.go implements the streaming buffer protocol:
// SetInput/SetOutput/SetLastBlock/Process/InputDone/OutputDone, plus two
// convenience wrappers (Contiguous, Interactive) built on top of a bare
// Processor that size their own destination buffer rather than asking
// the caller to pre-size it (Contiguous also doubles it on overflow).

// Stream drives a Processor across any number of Process calls, holding
// back whatever trailing bytes of the last SetInput didn't form a
// complete sequence so they can be prepended to the next one.
type Stream struct {
	p *Processor

	pending []byte // unconsumed tail from the previous input, prepended to the next
	input   []byte
	output  []byte
	outPos  int
	last    bool
	closed  bool
}

// NewStream creates a Stream bound to p. p is not mutated and may be
// shared by other Streams concurrently.
func NewStream(p *Processor) *Stream {
	return &Stream{p: p}
}

// SetInput provides the next chunk of source bytes. Any bytes left over
// from a previous Process call that didn't form a complete sequence are
// transparently prepended.
func (s *Stream) SetInput(b []byte) {
	if len(s.pending) == 0 {
		s.input = b
		return
	}
	buf := make([]byte, len(s.pending)+len(b))
	n := copy(buf, s.pending)
	copy(buf[n:], b)
	s.input = buf
	s.pending = nil
}

// SetOutput provides the destination buffer Process writes into,
// starting at byte 0 of b. Call it again (or use OutputDone and a fresh
// SetOutput) once b fills up.
func (s *Stream) SetOutput(b []byte) {
	s.output = b
	s.outPos = 0
}

// SetLastBlock marks the next Process call as final: a dangling
// incomplete sequence at EOF becomes StatusIncompleteData instead of
// being silently held back for input that will never arrive.
func (s *Stream) SetLastBlock(last bool) { s.last = last }

// Process runs the Processor over whatever input/output are currently
// set, advancing both cursors. Unconsumed input bytes are retained
// internally and prepended on the next SetInput.
func (s *Stream) Process() (Result, error) {
	if s.closed {
		return Result{}, ErrStreamClosed
	}
	res := s.p.Process(s.input, s.output[s.outPos:], s.last)
	s.outPos += res.BytesWritten
	if res.BytesRead < len(s.input) {
		s.pending = append([]byte(nil), s.input[res.BytesRead:]...)
	} else {
		s.pending = nil
	}
	s.input = nil
	return res, nil
}

// OutputDone returns the bytes written to the current output buffer
// since the last SetOutput and resets the output cursor.
func (s *Stream) OutputDone() []byte {
	b := s.output[:s.outPos]
	s.outPos = 0
	return b
}

// InputDone reports whether the last Process call consumed everything
// handed to it via SetInput (i.e. there's nothing pending).
func (s *Stream) InputDone() bool { return len(s.pending) == 0 }

// Close marks the Stream unusable. Subsequent calls return ErrStreamClosed.
func (s *Stream) Close() { s.closed = true }

// Contiguous converts all of src in one call, growing its internal
// destination buffer by doubling until the whole input is consumed or
// an unrecoverable error occurs.
type Contiguous struct {
	p *Processor
}

// NewContiguous wraps p for whole-buffer conversions with no size limit
// other than available memory.
func NewContiguous(p *Processor) *Contiguous { return &Contiguous{p: p} }

// Convert runs src through the Processor to completion, returning the
// converted bytes.
func (c *Contiguous) Convert(src []byte) ([]byte, error) {
	size := 256
	if c.p.cfg.Direction == Decode {
		if n := c.p.MaxDecodedSize(len(src)); n > size {
			size = n
		}
	} else if n := c.p.MaxEncodedSize(len(src)); n > size {
		size = n
	}
	dst := make([]byte, size)
	for {
		res := c.p.Process(src, dst, true)
		if res.Status == StatusOverflowPossible {
			dst = make([]byte, len(dst)*2)
			continue
		}
		if res.Status != StatusSuccess {
			return nil, ErrMalformedInput
		}
		return dst[:res.BytesWritten], nil
	}
}

// Interactive processes source bytes as they arrive (e.g. from a
// terminal or socket), emitting whatever prefix can already be
// converted without knowing if more input is coming, and resolving
// dangling tails once told input is finished.
type Interactive struct {
	p       *Processor
	pending []byte
}

// NewInteractive wraps p for incremental, not-yet-complete input.
func NewInteractive(p *Processor) *Interactive { return &Interactive{p: p} }

// Feed converts as much of chunk as forms complete sequences (prepended
// with anything held back from a previous Feed) and returns it; any
// trailing incomplete sequence is held back for the next Feed or Finish.
func (in *Interactive) Feed(chunk []byte) ([]byte, error) {
	src := chunk
	if len(in.pending) > 0 {
		src = append(append([]byte(nil), in.pending...), chunk...)
	}
	size := 64
	if in.p.cfg.Direction == Decode {
		size = in.p.MaxDecodedSize(len(src))
	} else {
		size = in.p.MaxEncodedSize(len(src))
	}
	if size == 0 {
		size = 1
	}
	dst := make([]byte, size)
	res := in.p.Process(src, dst, false)
	switch res.Status {
	case StatusSuccess:
		in.pending = append([]byte(nil), src[res.BytesRead:]...)
		return dst[:res.BytesWritten], nil
	default:
		return nil, ErrMalformedInput
	}
}

// Finish signals end of input and converts whatever is left pending,
// now requiring it to be complete.
func (in *Interactive) Finish() ([]byte, error) {
	src := in.pending
	in.pending = nil
	if len(src) == 0 {
		return nil, nil
	}
	size := 64
	if in.p.cfg.Direction == Decode {
		size = in.p.MaxDecodedSize(len(src))
	} else {
		size = in.p.MaxEncodedSize(len(src))
	}
	dst := make([]byte, size)
	res := in.p.Process(src, dst, true)
	if res.Status != StatusSuccess {
		return nil, ErrMalformedInput
	}
	return dst[:res.BytesWritten], nil
}
