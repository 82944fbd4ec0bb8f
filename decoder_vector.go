package utfvec

import "github.com/transcodego/utfvec/simd"

// decodeVectorStep runs the LUT-driven decode once against a full
// 16-byte window at the front of src, decoding up to 8 code points into
// dst. It reports ok=false whenever the window can't be trusted (a
// framing check failed, or the Mode demands more validation than the
// fast path gives), leaving the caller to fall back to the scalar codec
// (decodeSpan retries one rune with decodeOneRune, then the vector step).
//
// consumed/written are always 0 when ok is false: the vector step either
// commits a whole window's worth of progress or none at all. A window
// that doesn't match any valid 1/2/3-byte decomposition (e.g. one
// starting with a 4-byte lead) always surfaces as invalid here, pushing
// it to the scalar path that does handle 4-byte leads.
func decodeVectorStep(src []byte, dst []byte, cfg ProcessorConfig) (consumed, written int, ok bool) {
	if len(src) < 16 {
		return 0, 0, false
	}
	window := simd.Load(src)

	contMask := window.MovemaskByteLessThan(0xC0) &^ window.MovemaskByteLessThan(0x80)
	// Bit 0 of a window is always a lead byte by construction of the LUT
	// key; if the source disagrees (src[0] is itself a continuation
	// byte), this window can't be the start of a symbol run at all.
	if contMask&1 != 0 {
		return 0, 0, false
	}
	key := contMask >> 1
	entry := decoderLUT()[key]
	if !entry.valid || entry.cnt == 0 {
		return 0, 0, false
	}

	// The header check runs in every Mode, ModeFast included: the LUT key
	// only sees continuation bits, so a multi-byte symbol cut off by the
	// window's end (a 4-byte lead at byte 13, a 3-byte lead at byte 14)
	// looks like a shorter symbol, and only its lead byte tells them apart.
	gotAnd := window.And(entry.headerAndMask)
	if gotAnd != entry.headerExpect {
		return 0, 0, false
	}
	if cfg.MaxBytes < MaxBytes3 {
		// Reject any symbol whose lead byte implies a length the caller
		// didn't ask the vector path to handle (e.g. MaxBytes1 callers
		// only ever want ASCII accelerated).
		limit := byte(cfg.MaxBytes)
		for i := 0; i < int(entry.cnt); i++ {
			if entry.symLen[i] > uint16(limit) {
				return 0, 0, false
			}
		}
	}

	raw := window.Shuffle(entry.shufAB)
	highContrib := window.Shuffle(entry.shufC)

	// Mask each lane to its payload bits: 0x7F in low slots strips a
	// continuation byte's "10" marker (and is a no-op on an ASCII byte,
	// which has no marker to strip); 0x3F in high slots strips a lead
	// byte's framing bits, leaving its 5 or 6 payload bits.
	payloadMask := simd.Vector128{}
	mul := simd.Vector128{}
	for i := 0; i < 8; i++ {
		payloadMask[2*i] = 0x7F
		payloadMask[2*i+1] = 0x3F
		mul[2*i] = 1
		mul[2*i+1] = 64
	}
	masked := raw.And(payloadMask)
	combined16 := masked.MaddubsInt16(mul)

	var hi4 [16]byte
	for i := 0; i < 8; i++ {
		hi4[i] = highContrib[i] & 0x0F
	}
	lanes := combined16.Uint16Lanes()
	for i := 0; i < int(entry.cnt); i++ {
		lanes[i] += uint16(hi4[i]) << 12
	}

	if cfg.Mode != ModeFast {
		for i := 0; i < int(entry.cnt); i++ {
			if lanes[i] < entry.minValue[i] {
				return 0, 0, false // overlong encoding
			}
			if entry.symLen[i] == 3 && lanes[i] >= 0xD800 && lanes[i] <= 0xDFFF {
				return 0, 0, false // surrogate code point encoded directly in UTF-8
			}
		}
	}

	unit := int(cfg.OutputType)
	need := int(entry.cnt) * unit
	if cfg.OutputType == UTF32 {
		if written+need > len(dst) {
			return 0, 0, false
		}
		for i := 0; i < int(entry.cnt); i++ {
			putU32LE(dst[written:], uint32(lanes[i]))
			written += 4
		}
	} else {
		if written+need > len(dst) {
			return 0, 0, false
		}
		for i := 0; i < int(entry.cnt); i++ {
			putU16LE(dst[written:], lanes[i])
			written += 2
		}
	}
	return int(entry.srcStep), written, true
}
