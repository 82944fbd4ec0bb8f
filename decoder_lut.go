package utfvec

import (
	"sync"

	"github.com/transcodego/utfvec/simd"
)

// decoder_lut.go builds the 32,768-entry decode lookup table: one entry
// per possible 15-bit continuation-byte mask covering a 16-byte input
// window (bit 0 of the 16-bit mask is always 0, since position 0 of a
// window is always a symbol lead, so the table is keyed on mask>>1).
//
// The table is built lazily on first use and cached (sync.OnceValue)
// rather than recomputed per call.

const decoderLUTSize = 1 << 15

// decoderLUTEntry is everything decodeVectorStep needs to turn one
// 16-byte input window into up to 8 decoded code points in a single pass:
// which bytes feed which output lanes, how far to advance both cursors,
// and what to check before trusting the result.
type decoderLUTEntry struct {
	valid bool // false for masks that can't arise from any 1/2/3-byte symbol run

	shufAB simd.Vector128 // low/high payload byte per symbol, interleaved (2 bytes per of up to 8 symbols)
	shufC  simd.Vector128 // third byte (3-byte symbols only) per symbol, one byte per slot

	headerAndMask simd.Vector128 // AND-mask of framing bits to check per input byte
	headerExpect  simd.Vector128 // required AND result, i.e. the framing bits' values

	symLen   [8]uint16 // each decoded symbol's UTF-8 byte length, used to enforce MaxBytes
	minValue [8]uint16 // smallest code point a symbol of that length may legally encode

	srcStep uint8 // input bytes consumed (<=16)
	cnt     uint8 // number of symbols decoded (<=8)
}

var decoderLUT = sync.OnceValue(buildDecoderLUT)

func buildDecoderLUT() *[decoderLUTSize]decoderLUTEntry {
	tbl := new([decoderLUTSize]decoderLUTEntry)
	var seq [18]int
	var recurse func(depth, sum int)
	recurse = func(depth, sum int) {
		if sum >= 16 {
			applyDecoderSequence(tbl, seq[:depth])
			return
		}
		for _, l := range [3]int{1, 2, 3} {
			seq[depth] = l
			recurse(depth+1, sum+l)
		}
	}
	recurse(0, 0)
	return tbl
}

// applyDecoderSequence fills in the table entry for the mask implied by
// seq, a composition of the 16-byte window into lead+continuation runs
// of length 1, 2 or 3 that together cover at least the first 16 bytes.
func applyDecoderSequence(tbl *[decoderLUTSize]decoderLUTEntry, seq []int) {
	// Per-position byte class for the 16-byte window: true == continuation byte.
	var isCont [16]bool
	pos := 0
	for _, l := range seq {
		if pos >= 16 {
			break
		}
		for i := 1; i < l && pos+i < 16; i++ {
			isCont[pos+i] = true
		}
		pos += l
	}

	var mask uint16
	for i := 0; i < 16; i++ {
		if isCont[i] {
			mask |= 1 << uint(i)
		}
	}
	key := mask >> 1
	if tbl[key].valid {
		return // same mask always yields the same decomposition; already done
	}

	// cnt/preSum: how many whole symbols from seq actually fit in the
	// 16-byte window, capped at 8 output lanes. preSum<=16 naturally
	// allows a final 3-byte symbol that ends exactly at byte 16.
	cnt, preSum := 0, 0
	pos = 0
	var symStart, symLen [8]int
	for _, l := range seq {
		if cnt >= 8 || preSum+l > 16 {
			break
		}
		symStart[cnt] = pos
		symLen[cnt] = l
		preSum += l
		pos += l
		cnt++
	}

	var entry decoderLUTEntry
	entry.valid = true
	entry.srcStep = uint8(preSum)
	entry.cnt = uint8(cnt)

	var shufAB, shufC, hdrAnd, hdrExpect [16]byte
	for i := range shufAB {
		shufAB[i] = 0xFF
		shufC[i] = 0xFF
	}
	for i := 0; i < cnt; i++ {
		s, l := symStart[i], symLen[i]
		entry.symLen[i] = uint16(l)
		switch l {
		case 1:
			shufAB[2*i] = byte(s)
			shufAB[2*i+1] = 0xFF
			hdrAnd[s] = 0x80
			hdrExpect[s] = 0x00
			entry.minValue[i] = 0x0
		case 2:
			shufAB[2*i] = byte(s + 1) // continuation byte: low 6 payload bits
			shufAB[2*i+1] = byte(s)   // lead byte: low 5 payload bits after masking
			hdrAnd[s] = 0xE0
			hdrExpect[s] = 0xC0
			hdrAnd[s+1] = 0xC0
			hdrExpect[s+1] = 0x80
			entry.minValue[i] = 0x80 // below this, a 2-byte encoding is overlong
		case 3:
			shufAB[2*i] = byte(s + 2)   // 2nd continuation byte: low 6 bits
			shufAB[2*i+1] = byte(s + 1) // 1st continuation byte: mid 6 bits
			shufC[i] = byte(s)          // lead byte: high 4 bits after masking
			hdrAnd[s] = 0xF0
			hdrExpect[s] = 0xE0
			hdrAnd[s+1] = 0xC0
			hdrExpect[s+1] = 0x80
			hdrAnd[s+2] = 0xC0
			hdrExpect[s+2] = 0x80
			entry.minValue[i] = 0x800 // below this, a 3-byte encoding is overlong
		}
	}
	// Any window position not covered by a decoded symbol (tail beyond
	// preSum) is unconstrained here: decodeVectorStep never reads past
	// srcStep, so no header check is needed for it. Leave hdrAnd 0 there
	// (AND with 0 always equals expect 0, trivially true).
	entry.shufAB = simd.Vector128(shufAB)
	entry.shufC = simd.Vector128(shufC)
	entry.headerAndMask = simd.Vector128(hdrAnd)
	entry.headerExpect = simd.Vector128(hdrExpect)

	tbl[key] = entry
}
