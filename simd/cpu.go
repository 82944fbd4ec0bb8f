package simd

import "golang.org/x/sys/cpu"

// Backend identifies which accelerated code path a Processor picked at
// construction time. Decode and encode produce the same bytes regardless
// of Backend for well-formed input, and for any input outside ModeFast;
// in ModeFast the vector step skips the overlong and surrogate checks that
// the scalar codec always makes.
type Backend int

const (
	// BackendScalar runs the trivial one-byte-at-a-time codec only.
	BackendScalar Backend = iota
	// BackendVector128 runs the 16-byte-window LUT-driven codec, emulated
	// in portable Go on top of Vector128.
	BackendVector128
)

func (b Backend) String() string {
	switch b {
	case BackendVector128:
		return "vector128"
	default:
		return "scalar"
	}
}

// SelectBackend probes the running CPU once and reports which backend a
// Processor should use. It never returns an error: a CPU with none of
// the relevant features simply gets BackendScalar, which is always
// correct, just slower.
//
// The probe itself is nominal — this package's Vector128 is a portable
// emulation, not real intrinsics, so every host qualifies for
// BackendVector128 today. The feature check is kept (rather than always
// returning BackendVector128 unconditionally) so that a future assembly
// backend can be slotted in behind this same function without changing
// any caller.
func SelectBackend() Backend {
	if cpu.X86.HasSSSE3 || cpu.ARM64.HasASIMD {
		return BackendVector128
	}
	return BackendScalar
}
