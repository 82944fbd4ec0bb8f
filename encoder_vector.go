package utfvec

import "github.com/transcodego/utfvec/simd"

// encoder_vector.go runs the vector encode step: classify a window of source
// code units by how many UTF-8 bytes each needs, expand every unit's
// real UTF-8 bytes into a fixed-stride scratch buffer, then use the
// matching encoderLUT entry to compact that scratch buffer straight into
// the destination in one gather.
//
// Like decodeVectorStep, this either commits a whole window or nothing;
// the two "breaks in the model" from trivial.go's direction (a UTF-16
// surrogate pair, or any code unit longer than cfg.MaxBytes allows the
// window to accelerate) simply classify as invalid and the caller
// (encodeSpan) encodes that stretch one code unit at a time instead.

// classifyUTF16Unit returns the UTF-8 byte length the code point encoded
// by u would need (1-3), or 0 if u can't be classified by this window
// alone (a surrogate half, which needs its pair to resolve) or needs more
// UTF-8 bytes than maxBytes.
func classifyUTF16Unit(u uint16, maxBytes MaxBytes) (length int, ok bool) {
	switch {
	case u >= 0xD800 && u <= 0xDFFF:
		return 0, false
	case u < 0x80:
		return 1, true
	case u < 0x800:
		if maxBytes < MaxBytes2 {
			return 0, false
		}
		return 2, true
	default:
		if maxBytes < MaxBytes3 {
			return 0, false
		}
		return 3, true
	}
}

func classifyUTF32Unit(v uint32) (length int, ok bool) {
	if (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
		return 0, false
	}
	switch {
	case v < 0x80:
		return 1, true
	case v < 0x800:
		return 2, true
	case v < 0x10000:
		return 3, true
	default:
		return 4, true
	}
}

// encodeVectorStepUTF16 encodes up to 8 little-endian UTF-16 code units
// from the front of src into UTF-8 bytes in dst.
func encodeVectorStepUTF16(src, dst []byte, cfg ProcessorConfig) (consumed, written int, ok bool) {
	if len(src) < 16 {
		return 0, 0, false
	}
	window := simd.Load(src)
	lanes := window.Uint16Lanes()

	full := cfg.MaxBytes == MaxBytes3
	var key int
	classBits := 1
	if full {
		classBits = 2
	}
	var expanded [encFullWidth * encFullUnits]byte
	width := encShortWidth
	if full {
		width = encFullWidth
	}
	validUnits := 0
	for i := 0; i < 8; i++ {
		length, classOK := classifyUTF16Unit(lanes[i], cfg.MaxBytes)
		if !classOK {
			break
		}
		class := length - 1
		key |= class << uint(i*classBits)
		encodeRuneUTF8(rune(lanes[i]), expanded[i*width:])
		validUnits++
	}
	if validUnits == 0 {
		return 0, 0, false
	}

	var entry encoderLUTEntry
	if full {
		entry = encoderLUT16Full()[key]
	} else {
		entry = encoderLUT16Short()[key]
	}
	if !entry.valid || entry.cnt == 0 || int(entry.cnt) > validUnits {
		return 0, 0, false
	}
	if int(entry.outTotal) > len(dst) {
		return 0, 0, false
	}
	for i := 0; i < int(entry.outTotal); i++ {
		idx := entry.compact[i]
		dst[i] = expanded[idx]
	}
	return int(entry.cnt) * 2, int(entry.outTotal), true
}

// encodeVectorStepUTF32 encodes up to 4 little-endian UTF-32 code units
// from the front of src into UTF-8 bytes in dst.
func encodeVectorStepUTF32(src, dst []byte, cfg ProcessorConfig) (consumed, written int, ok bool) {
	if len(src) < 16 {
		return 0, 0, false
	}
	window := simd.Load(src)
	lanes := window.Uint32Lanes()

	var key int
	var expanded [enc32Width * enc32Units]byte
	validUnits := 0
	for i := 0; i < 4; i++ {
		length, classOK := classifyUTF32Unit(lanes[i])
		if !classOK {
			break
		}
		class := length - 1
		key |= class << uint(i*2)
		encodeRuneUTF8(rune(lanes[i]), expanded[i*enc32Width:])
		validUnits++
	}
	if validUnits == 0 {
		return 0, 0, false
	}

	entry := encoderLUT32()[key]
	if !entry.valid || entry.cnt == 0 || int(entry.cnt) > validUnits {
		return 0, 0, false
	}
	if int(entry.outTotal) > len(dst) {
		return 0, 0, false
	}
	for i := 0; i < int(entry.outTotal); i++ {
		idx := entry.compact[i]
		dst[i] = expanded[idx]
	}
	return int(entry.cnt) * 4, int(entry.outTotal), true
}
