package utfvec

// trivial.go implements the scalar codec: a byte-at-a-time decoder and a
// code-unit-at-a-time encoder. It is the oracle the vector steps in
// decoder_vector.go/encoder_vector.go are checked against, the fallback
// for whatever a vector window can't classify, and the whole codec when
// Processor picks simd.BackendScalar.
//
// The decoder is built the same way clipperhouse/uax29's stringish/utf8
// byte-class table works (first[256] plus an accept-range table for the
// three lead bytes that need a restricted first continuation byte): each
// lead byte says how many continuation bytes follow and what range the
// first of them must fall in, which is exactly what's needed to reject
// overlong encodings and surrogate code points without a second table.

// leadInfo describes what a UTF-8 lead byte commits the decoder to.
type leadInfo struct {
	contLen  uint8 // number of continuation bytes that must follow (0-3)
	lo, hi   byte  // allowed range for the first continuation byte
	initBits byte  // payload bits carried in the lead byte itself
}

// classifyLead returns the leadInfo for b and whether b is a valid lead
// byte at all (ASCII and C2-F4 range, excluding overlong-only C0/C1 and
// out-of-range F5-FF).
func classifyLead(b byte) (leadInfo, bool) {
	switch {
	case b < 0x80:
		return leadInfo{0, 0, 0, b}, true
	case b < 0xC2:
		return leadInfo{}, false
	case b < 0xE0:
		return leadInfo{1, 0x80, 0xBF, b & 0x1F}, true
	case b == 0xE0:
		return leadInfo{2, 0xA0, 0xBF, b & 0x0F}, true
	case b == 0xED:
		return leadInfo{2, 0x80, 0x9F, b & 0x0F}, true
	case b < 0xF0:
		return leadInfo{2, 0x80, 0xBF, b & 0x0F}, true
	case b == 0xF0:
		return leadInfo{3, 0x90, 0xBF, b & 0x07}, true
	case b == 0xF4:
		return leadInfo{3, 0x80, 0x8F, b & 0x07}, true
	case b < 0xF5:
		return leadInfo{3, 0x80, 0xBF, b & 0x07}, true
	default:
		return leadInfo{}, false
	}
}

// decodeOneRune reads one UTF-8 sequence at the front of src. It returns
// the decoded code point, the number of bytes consumed, and a status:
// StatusSuccess on a complete well-formed sequence, StatusIncompleteData
// if src is a valid prefix of a sequence that simply hasn't arrived in
// full yet, or StatusIncorrectData if src's prefix can never be
// completed into a well-formed sequence.
func decodeOneRune(src []byte) (cp rune, n int, status StatusCode) {
	if len(src) == 0 {
		return 0, 0, StatusIncompleteData
	}
	info, ok := classifyLead(src[0])
	if !ok {
		return 0, 0, StatusIncorrectData
	}
	cp = rune(info.initBits)
	if info.contLen == 0 {
		return cp, 1, StatusSuccess
	}
	if len(src) < 1+int(info.contLen) {
		// Confirm every continuation byte present so far is plausible
		// before declaring the prefix merely incomplete.
		for i := 1; i < len(src); i++ {
			lo, hi := byte(0x80), byte(0xBF)
			if i == 1 {
				lo, hi = info.lo, info.hi
			}
			if src[i] < lo || src[i] > hi {
				return 0, 0, StatusIncorrectData
			}
		}
		return 0, 0, StatusIncompleteData
	}
	for i := 1; i <= int(info.contLen); i++ {
		b := src[i]
		lo, hi := byte(0x80), byte(0xBF)
		if i == 1 {
			lo, hi = info.lo, info.hi
		}
		if b < lo || b > hi {
			return 0, 0, StatusIncorrectData
		}
		cp = cp<<6 | rune(b&0x3F)
	}
	return cp, 1 + int(info.contLen), StatusSuccess
}

// decodeTrivial decodes as many whole UTF-8 sequences from src as fit in
// dst, writing them as out-typed (UTF16 or UTF32) little-endian code
// units. It stops, without error, when src is exhausted, when the next
// sequence is an incomplete trailing prefix, or when dst has no room for
// the next sequence's output; a caller distinguishes these by comparing
// consumed/written against len(src) and len(dst).
//
// It returns ok=false only when src's prefix can never be completed into
// well-formed UTF-8 (StatusIncorrectData territory); consumed/written in
// that case describe everything decoded before the bad sequence.
func decodeTrivial(src, dst []byte, out OutputType) (consumed, written int, ok bool) {
	unit := int(out)
	pos, dpos := 0, 0
	for pos < len(src) {
		cp, n, status := decodeOneRune(src[pos:])
		switch status {
		case StatusIncompleteData:
			return pos, dpos, true
		case StatusIncorrectData:
			return pos, dpos, false
		}
		need := unit
		if out == UTF16 && cp > 0xFFFF {
			need = 4
		}
		if dpos+need > len(dst) {
			return pos, dpos, true
		}
		dpos += writeCodeUnit(dst[dpos:], cp, out)
		pos += n
	}
	return pos, dpos, true
}

// writeCodeUnit writes cp to dst in the given OutputType, little-endian,
// returning the number of bytes written (always int(out), except a
// UTF16 astral code point which writes a 4-byte surrogate pair).
func writeCodeUnit(dst []byte, cp rune, out OutputType) int {
	if out == UTF32 {
		putU32LE(dst, uint32(cp))
		return 4
	}
	if cp <= 0xFFFF {
		putU16LE(dst, uint16(cp))
		return 2
	}
	v := uint32(cp) - 0x10000
	hi := uint16(0xD800 + (v >> 10))
	lo := uint16(0xDC00 + (v & 0x3FF))
	putU16LE(dst, hi)
	putU16LE(dst[2:], lo)
	return 4
}

func putU16LE(dst []byte, v uint16) { dst[0] = byte(v); dst[1] = byte(v >> 8) }
func putU32LE(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}
func getU16LE(src []byte) uint16 { return uint16(src[0]) | uint16(src[1])<<8 }
func getU32LE(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

// encodeRuneUTF8 writes cp's UTF-8 encoding to dst, returning the number
// of bytes written (1-4). The caller guarantees cp is not a surrogate
// and not above 0x10FFFF.
func encodeRuneUTF8(cp rune, dst []byte) int {
	switch {
	case cp < 0x80:
		dst[0] = byte(cp)
		return 1
	case cp < 0x800:
		dst[0] = 0xC0 | byte(cp>>6)
		dst[1] = 0x80 | byte(cp&0x3F)
		return 2
	case cp < 0x10000:
		dst[0] = 0xE0 | byte(cp>>12)
		dst[1] = 0x80 | byte((cp>>6)&0x3F)
		dst[2] = 0x80 | byte(cp&0x3F)
		return 3
	default:
		dst[0] = 0xF0 | byte(cp>>18)
		dst[1] = 0x80 | byte((cp>>12)&0x3F)
		dst[2] = 0x80 | byte((cp>>6)&0x3F)
		dst[3] = 0x80 | byte(cp&0x3F)
		return 4
	}
}

// encodeTrivialFromUTF16 encodes little-endian UTF-16 code units from src
// into UTF-8 bytes in dst. Semantics mirror decodeTrivial: it stops
// cleanly on a dangling high surrogate at the end of src (incomplete) or
// a full dst, and reports ok=false on an unpaired surrogate.
func encodeTrivialFromUTF16(src, dst []byte) (consumed, written int, ok bool) {
	pos, dpos := 0, 0
	for pos+1 < len(src) {
		u := getU16LE(src[pos:])
		var cp rune
		n := 2
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			if pos+3 >= len(src) {
				return pos, dpos, true
			}
			lo := getU16LE(src[pos+2:])
			if lo < 0xDC00 || lo > 0xDFFF {
				return pos, dpos, false
			}
			cp = 0x10000 + (rune(u-0xD800)<<10 | rune(lo-0xDC00))
			n = 4
		case u >= 0xDC00 && u <= 0xDFFF:
			return pos, dpos, false
		default:
			cp = rune(u)
		}
		need := utf8Len(cp)
		if dpos+need > len(dst) {
			return pos, dpos, true
		}
		dpos += encodeRuneUTF8(cp, dst[dpos:])
		pos += n
	}
	return pos, dpos, true
}

// encodeTrivialFromUTF32 encodes little-endian UTF-32 code units from src
// into UTF-8 bytes in dst.
func encodeTrivialFromUTF32(src, dst []byte) (consumed, written int, ok bool) {
	pos, dpos := 0, 0
	for pos+3 < len(src) {
		v := getU32LE(src[pos:])
		if (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
			return pos, dpos, false
		}
		cp := rune(v)
		need := utf8Len(cp)
		if dpos+need > len(dst) {
			return pos, dpos, true
		}
		dpos += encodeRuneUTF8(cp, dst[dpos:])
		pos += 4
	}
	return pos, dpos, true
}

func utf8Len(cp rune) int {
	switch {
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp < 0x10000:
		return 3
	default:
		return 4
	}
}
