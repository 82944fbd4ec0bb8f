package utfvec

import (
	"sync"

	"github.com/transcodego/utfvec/simd"
)

// processor.go is the block processor: it drives the vector step window
// by window, falls back to the scalar codec for whatever the vector step
// won't touch, and (for Streams4) fans a block out across goroutines the
// way four parallel hardware SIMD lanes would on a CPU — a Go-native
// reinterpretation of the same idea as an independent decode/encode
// engine per stream.
//
// Processor follows the same shape as any value built once by a
// constructor (NewProcessor), holding whatever precomputed state its
// operations need, safe to reuse concurrently because nothing in it is
// mutated after construction.

// streamSplitThreshold is the input size below which Streams4 isn't
// worth the goroutine fan-out and synchronization cost.
const streamSplitThreshold = 64 * 1024

// Processor runs one direction (Decode or Encode) of the transcoding
// pipeline according to its ProcessorConfig, using whichever simd.Backend
// the host CPU supports.
type Processor struct {
	cfg     ProcessorConfig
	backend simd.Backend
}

// NewProcessor validates cfg and selects a backend once; reuse the
// returned Processor across calls instead of rebuilding it.
func NewProcessor(cfg ProcessorConfig) (*Processor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, backend: simd.SelectBackend()}, nil
}

// Config returns the Processor's configuration.
func (p *Processor) Config() ProcessorConfig { return p.cfg }

// Backend reports which simd.Backend this Processor will use.
func (p *Processor) Backend() simd.Backend { return p.backend }

// MaxDecodedSize returns a safe destination capacity for decoding
// srcLen bytes of UTF-8: one output code unit is never produced per
// fewer than one input byte, so this is always an over-estimate.
func (p *Processor) MaxDecodedSize(srcLen int) int {
	return srcLen * int(p.cfg.OutputType)
}

// MaxEncodedSize returns a safe destination capacity for encoding srcLen
// bytes of source code units into UTF-8.
func (p *Processor) MaxEncodedSize(srcLen int) int {
	unit := p.cfg.unitSize()
	units := srcLen / unit
	if srcLen%unit != 0 {
		units++
	}
	if p.cfg.OutputType == UTF16 {
		return units * 3 // a lone BMP unit needs at most 3 UTF-8 bytes
	}
	return units * 4 // a UTF-32 unit needs at most 4 UTF-8 bytes
}

// Process runs one block through the Processor. lastBlock tells it
// whether a dangling incomplete sequence at the end of src should be
// reported as StatusIncompleteData (true — no more input is coming) or
// simply left unconsumed for the caller to prepend to the next chunk
// (false — see stream.go).
func (p *Processor) Process(src, dst []byte, lastBlock bool) Result {
	if slicesOverlap(src, dst) {
		return Result{Status: StatusNoAccess}
	}
	if p.cfg.Direction == Decode {
		return p.processDecode(src, dst, lastBlock)
	}
	return p.processEncode(src, dst, lastBlock)
}

func (p *Processor) effectiveStreams(srcLen int) int {
	switch p.cfg.Streams {
	case Streams1:
		return 1
	case Streams4:
		return 4
	default: // StreamsAuto
		if srcLen >= streamSplitThreshold {
			return 4
		}
		return 1
	}
}

func (p *Processor) processDecode(src, dst []byte, lastBlock bool) Result {
	n := p.effectiveStreams(len(src))
	if n <= 1 {
		return p.decodeSpan(src, dst, lastBlock)
	}
	spans := splitUTF8Streams(src, n)
	outs := make([][]byte, len(spans))
	results := make([]Result, len(spans))
	var wg sync.WaitGroup
	for i, span := range spans {
		wg.Add(1)
		go func(i int, span []byte) {
			defer wg.Done()
			outs[i] = make([]byte, p.MaxDecodedSize(len(span)))
			results[i] = p.decodeSpan(span, outs[i], lastBlock)
		}(i, span)
	}
	wg.Wait()
	return stitchResults(dst, outs, results)
}

func (p *Processor) processEncode(src, dst []byte, lastBlock bool) Result {
	n := p.effectiveStreams(len(src))
	if n <= 1 {
		return p.encodeSpan(src, dst, lastBlock)
	}
	spans := splitCodeUnitStreams(src, n, p.cfg.unitSize(), p.cfg.OutputType == UTF16)
	outs := make([][]byte, len(spans))
	results := make([]Result, len(spans))
	var wg sync.WaitGroup
	for i, span := range spans {
		wg.Add(1)
		go func(i int, span []byte) {
			defer wg.Done()
			outs[i] = make([]byte, p.MaxEncodedSize(len(span)))
			results[i] = p.encodeSpan(span, outs[i], lastBlock)
		}(i, span)
	}
	wg.Wait()
	return stitchResults(dst, outs, results)
}

// stitchResults concatenates each span's produced output into dst in
// order, stopping (and reporting the first non-success status) as soon
// as one span either overflowed dst or failed.
func stitchResults(dst []byte, outs [][]byte, results []Result) Result {
	dpos, read := 0, 0
	status := StatusSuccess
	for i, r := range results {
		if dpos+r.BytesWritten > len(dst) {
			status = StatusOverflowPossible
			break
		}
		copy(dst[dpos:], outs[i][:r.BytesWritten])
		dpos += r.BytesWritten
		read += r.BytesRead
		if r.Status != StatusSuccess {
			status = r.Status
			break
		}
	}
	return Result{Status: status, BytesRead: read, BytesWritten: dpos}
}

// decodeSpan decodes one contiguous UTF-8 span, retrying the vector step
// after every scalar rune so a single astral code point or a short run
// of malformed bytes doesn't permanently knock the rest of the span back
// to the scalar path.
func (p *Processor) decodeSpan(src, dst []byte, lastBlock bool) Result {
	pos, dpos := 0, 0
	for pos < len(src) {
		if p.backend == simd.BackendVector128 && len(src)-pos >= 16 {
			if c, w, ok := decodeVectorStep(src[pos:], dst[dpos:], p.cfg); ok {
				pos += c
				dpos += w
				continue
			}
		}
		cp, n, status := decodeOneRune(src[pos:])
		switch status {
		case StatusIncompleteData:
			if lastBlock {
				return Result{StatusIncompleteData, pos, dpos}
			}
			return Result{StatusSuccess, pos, dpos}
		case StatusIncorrectData:
			if p.cfg.Mode == ModeValidate || p.cfg.OnErrorMissCodeUnits == nil && p.cfg.OnErrorSetReplacementChars == nil {
				return Result{StatusIncorrectData, pos, dpos}
			}
			pos++ // ModeFull/ModeFast with a recovery hook: skip the bad byte
			if p.cfg.OnErrorSetReplacementChars != nil {
				if dpos+int(p.cfg.OutputType) > len(dst) {
					return Result{StatusOverflowPossible, pos - 1, dpos}
				}
				dpos += writeCodeUnit(dst[dpos:], 0xFFFD, p.cfg.OutputType)
				p.cfg.OnErrorSetReplacementChars(1)
			} else {
				p.cfg.OnErrorMissCodeUnits(1)
			}
			continue
		}
		need := int(p.cfg.OutputType)
		if p.cfg.OutputType == UTF16 && cp > 0xFFFF {
			need = 4
		}
		if dpos+need > len(dst) {
			return Result{StatusOverflowPossible, pos, dpos}
		}
		dpos += writeCodeUnit(dst[dpos:], cp, p.cfg.OutputType)
		pos += n
	}
	return Result{StatusSuccess, pos, dpos}
}

// encodeSpan encodes one contiguous run of source code units into UTF-8.
func (p *Processor) encodeSpan(src, dst []byte, lastBlock bool) Result {
	unit := p.cfg.unitSize()
	pos, dpos := 0, 0
	for pos+unit <= len(src) {
		if p.backend == simd.BackendVector128 && len(src)-pos >= 16 {
			var c, w int
			var ok bool
			if p.cfg.OutputType == UTF16 {
				c, w, ok = encodeVectorStepUTF16(src[pos:], dst[dpos:], p.cfg)
			} else {
				c, w, ok = encodeVectorStepUTF32(src[pos:], dst[dpos:], p.cfg)
			}
			if ok {
				pos += c
				dpos += w
				continue
			}
		}

		var cp rune
		var n int
		if p.cfg.OutputType == UTF16 {
			u := getU16LE(src[pos:])
			switch {
			case u >= 0xD800 && u <= 0xDBFF:
				if pos+2*unit > len(src) {
					if lastBlock {
						return Result{StatusIncompleteData, pos, dpos}
					}
					return Result{StatusSuccess, pos, dpos}
				}
				lo := getU16LE(src[pos+2:])
				if lo < 0xDC00 || lo > 0xDFFF {
					return Result{StatusIncorrectData, pos, dpos}
				}
				cp = 0x10000 + (rune(u-0xD800)<<10 | rune(lo-0xDC00))
				n = 4
			case u >= 0xDC00 && u <= 0xDFFF:
				return Result{StatusIncorrectData, pos, dpos}
			default:
				cp, n = rune(u), 2
			}
		} else {
			v := getU32LE(src[pos:])
			if (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
				return Result{StatusIncorrectData, pos, dpos}
			}
			cp, n = rune(v), 4
		}

		need := utf8Len(cp)
		if dpos+need > len(dst) {
			return Result{StatusOverflowPossible, pos, dpos}
		}
		dpos += encodeRuneUTF8(cp, dst[dpos:])
		pos += n
	}
	return Result{StatusSuccess, pos, dpos}
}

// splitUTF8Streams divides src into n spans, each boundary pushed
// forward to the next UTF-8 lead byte, or +4 if none is found that
// close — the chosen resolution for an all-continuation-byte run
// straddling a split point.
func splitUTF8Streams(src []byte, n int) [][]byte {
	if n <= 1 || len(src) < n*16 {
		return [][]byte{src}
	}
	spans := make([][]byte, 0, n)
	chunk := len(src) / n
	start := 0
	for i := 0; i < n-1; i++ {
		boundary := nextUTF8Boundary(src, start+chunk)
		spans = append(spans, src[start:boundary])
		start = boundary
	}
	spans = append(spans, src[start:])
	return spans
}

func nextUTF8Boundary(src []byte, from int) int {
	if from >= len(src) {
		return len(src)
	}
	limit := from + 4
	if limit > len(src) {
		limit = len(src)
	}
	for i := from; i < limit; i++ {
		if src[i] < 0x80 || src[i] >= 0xC0 {
			return i
		}
	}
	if from+4 < len(src) {
		return from + 4
	}
	return len(src)
}

// splitCodeUnitStreams divides src into n spans aligned to unit
// boundaries, additionally avoiding a split between a UTF-16 high
// surrogate and its low surrogate.
func splitCodeUnitStreams(src []byte, n, unit int, utf16 bool) [][]byte {
	if n <= 1 || len(src) < n*unit*4 {
		return [][]byte{src}
	}
	spans := make([][]byte, 0, n)
	chunk := (len(src) / n / unit) * unit
	start := 0
	for i := 0; i < n-1; i++ {
		boundary := start + chunk
		if utf16 && boundary >= 2 && boundary+2 <= len(src) {
			prev := getU16LE(src[boundary-2:])
			if prev >= 0xD800 && prev <= 0xDBFF {
				boundary += 2
			}
		}
		spans = append(spans, src[start:boundary])
		start = boundary
	}
	spans = append(spans, src[start:])
	return spans
}

// ConvertInMemory runs p.Process once with lastBlock=true: a single
// call, no carried state.
func (p *Processor) ConvertInMemory(src, dst []byte) Result {
	return p.Process(src, dst, true)
}

// ConvertInMemoryAlloc is ConvertInMemory with a destination sized by
// MaxDecodedSize/MaxEncodedSize, for callers that don't want to size the
// buffer themselves.
func (p *Processor) ConvertInMemoryAlloc(src []byte) ([]byte, Result) {
	var size int
	if p.cfg.Direction == Decode {
		size = p.MaxDecodedSize(len(src))
	} else {
		size = p.MaxEncodedSize(len(src))
	}
	dst := make([]byte, size)
	res := p.ConvertInMemory(src, dst)
	return dst[:res.BytesWritten], res
}
