// Package simd provides a portable 128-bit vector abstraction modeled on
// the SSE-class instruction set that the core decode/encode steps are
// specified against: byte shuffles, per-byte/per-lane compares, and the
// multiply-add-adjacent trick used to widen UTF-8 continuation payloads
// into 16-bit code units.
//
// There is exactly one implementation here, not one per architecture.
// Real SIMD backends (AVX2, NEON, ...) would live behind build-tagged
// files dispatched from cpu.SelectBackend; this package plays the role
// of the portable "fallback" target in that scheme, operating on plain
// Go byte arrays instead of machine vector registers. It exists as its
// own package, rather than inline arithmetic in the codec, so that a
// real assembly backend can be dropped in later without touching the
// decode/encode algorithms that call it.
package simd

import "encoding/binary"

// Vector128 holds 16 bytes, the width of one decode or encode window.
type Vector128 [16]byte

// Load reads the first 16 bytes of b into a Vector128. The caller must
// ensure len(b) >= 16; the core packages only ever call this after
// checking window bounds.
func Load(b []byte) Vector128 {
	var v Vector128
	copy(v[:], b[:16])
	return v
}

// Store writes v's 16 bytes to the front of dst. The caller must ensure
// len(dst) >= 16.
func (v Vector128) Store(dst []byte) {
	copy(dst[:16], v[:])
}

// Shuffle returns, for each output byte i, v[idx[i]&0x0F] if idx[i] < 0x80,
// or 0 if idx[i] >= 0x80 — the same "negative index zeros the lane"
// convention as PSHUFB, used throughout the LUTs to mark "don't care"
// slots that must read as zero.
func (v Vector128) Shuffle(idx Vector128) Vector128 {
	var out Vector128
	for i := range out {
		sel := idx[i]
		if sel&0x80 != 0 {
			out[i] = 0
			continue
		}
		out[i] = v[sel&0x0F]
	}
	return out
}

// MovemaskByteLessThan returns a 16-bit mask with bit i set iff v[i] < threshold,
// the shape of the continuation-byte test in the decode step (byte < 0xC0).
func (v Vector128) MovemaskByteLessThan(threshold byte) uint16 {
	var mask uint16
	for i := range v {
		if v[i] < threshold {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// MovemaskByteGreaterThan returns a 16-bit mask with bit i set iff v[i] > threshold.
func (v Vector128) MovemaskByteGreaterThan(threshold byte) uint16 {
	var mask uint16
	for i := range v {
		if v[i] > threshold {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// And returns the bitwise AND of v and o.
func (v Vector128) And(o Vector128) Vector128 {
	var out Vector128
	for i := range out {
		out[i] = v[i] & o[i]
	}
	return out
}

// AndNot returns (^v) & o, matching _mm_andnot_si128's operand order.
func (v Vector128) AndNot(o Vector128) Vector128 {
	var out Vector128
	for i := range out {
		out[i] = ^v[i] & o[i]
	}
	return out
}

// Or returns the bitwise OR of v and o.
func (v Vector128) Or(o Vector128) Vector128 {
	var out Vector128
	for i := range out {
		out[i] = v[i] | o[i]
	}
	return out
}

// Xor returns the bitwise XOR of v and o.
func (v Vector128) Xor(o Vector128) Vector128 {
	var out Vector128
	for i := range out {
		out[i] = v[i] ^ o[i]
	}
	return out
}

// AddInt8 returns the per-byte (mod-256) sum of v and o.
func (v Vector128) AddInt8(o Vector128) Vector128 {
	var out Vector128
	for i := range out {
		out[i] = v[i] + o[i]
	}
	return out
}

// Equal reports whether v and o hold the same 16 bytes.
func (v Vector128) Equal(o Vector128) bool { return v == o }

// Uint16Lanes reinterprets v as 8 little-endian uint16 lanes.
func (v Vector128) Uint16Lanes() [8]uint16 {
	var lanes [8]uint16
	for i := range lanes {
		lanes[i] = binary.LittleEndian.Uint16(v[2*i:])
	}
	return lanes
}

// FromUint16Lanes packs 8 little-endian uint16 lanes into a Vector128.
func FromUint16Lanes(lanes [8]uint16) Vector128 {
	var v Vector128
	for i, l := range lanes {
		binary.LittleEndian.PutUint16(v[2*i:], l)
	}
	return v
}

// Uint32Lanes reinterprets v as 4 little-endian uint32 lanes.
func (v Vector128) Uint32Lanes() [4]uint32 {
	var lanes [4]uint32
	for i := range lanes {
		lanes[i] = binary.LittleEndian.Uint32(v[4*i:])
	}
	return lanes
}

// FromUint32Lanes packs 4 little-endian uint32 lanes into a Vector128.
func FromUint32Lanes(lanes [4]uint32) Vector128 {
	var v Vector128
	for i, l := range lanes {
		binary.LittleEndian.PutUint32(v[4*i:], l)
	}
	return v
}

// CmpGTInt16 compares v and o as 8 signed 16-bit lanes, returning a
// vector whose lanes are 0xFFFF where v's lane is greater, 0 otherwise.
func (v Vector128) CmpGTInt16(o Vector128) Vector128 {
	a, b := v.Uint16Lanes(), o.Uint16Lanes()
	var out [8]uint16
	for i := range out {
		if int16(a[i]) > int16(b[i]) {
			out[i] = 0xFFFF
		}
	}
	return FromUint16Lanes(out)
}

// SrliInt16 shifts each of v's 8 uint16 lanes right by count bits, logically.
func (v Vector128) SrliInt16(count uint) Vector128 {
	lanes := v.Uint16Lanes()
	for i := range lanes {
		lanes[i] >>= count
	}
	return FromUint16Lanes(lanes)
}

// AddInt16 adds v and o as 8 uint16 lanes, wrapping on overflow.
func (v Vector128) AddInt16(o Vector128) Vector128 {
	a, b := v.Uint16Lanes(), o.Uint16Lanes()
	for i := range a {
		a[i] += b[i]
	}
	return FromUint16Lanes(a)
}

// MaddubsInt16 mirrors PMADDUBSW/_mm_maddubs_epi16: v's bytes are treated
// as unsigned, o's bytes as signed; output lane i = v[2i]*o[2i] + v[2i+1]*o[2i+1],
// saturated is not modeled since every call site here stays well within
// int16 range by construction (payload bits, never full bytes).
func (v Vector128) MaddubsInt16(o Vector128) Vector128 {
	var lanes [8]uint16
	for i := range lanes {
		lo := int32(v[2*i]) * int32(int8(o[2*i]))
		hi := int32(v[2*i+1]) * int32(int8(o[2*i+1]))
		lanes[i] = uint16(lo + hi)
	}
	return FromUint16Lanes(lanes)
}

// UnpackLoInt8 interleaves the low 8 bytes of v and o: v0,o0,v1,o1,...
func (v Vector128) UnpackLoInt8(o Vector128) Vector128 {
	var out Vector128
	for i := 0; i < 8; i++ {
		out[2*i] = v[i]
		out[2*i+1] = o[i]
	}
	return out
}

// UnpackHiInt8 interleaves the high 8 bytes of v and o.
func (v Vector128) UnpackHiInt8(o Vector128) Vector128 {
	var out Vector128
	for i := 0; i < 8; i++ {
		out[2*i] = v[i+8]
		out[2*i+1] = o[i+8]
	}
	return out
}

// UnpackLoInt16ZeroExtend widens the low 4 uint16 lanes of v into 4 uint32
// lanes with zero high halves — the decode-to-UTF-32 expansion step.
func (v Vector128) UnpackLoInt16ZeroExtend() [4]uint32 {
	lanes := v.Uint16Lanes()
	var out [4]uint32
	for i := 0; i < 4; i++ {
		out[i] = uint32(lanes[i])
	}
	return out
}

// UnpackHiInt16ZeroExtend widens the high 4 uint16 lanes of v into 4 uint32 lanes.
func (v Vector128) UnpackHiInt16ZeroExtend() [4]uint32 {
	lanes := v.Uint16Lanes()
	var out [4]uint32
	for i := 0; i < 4; i++ {
		out[i] = uint32(lanes[i+4])
	}
	return out
}
