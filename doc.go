// Package utfvec converts text between UTF-8 and the fixed-width
// Unicode transformation formats, UTF-16LE and UTF-32LE, using a
// table-driven vectorized codec with an automatic scalar fallback.
//
// # Overview
//
// A Processor is built once from a ProcessorConfig (direction, code
// unit width, validation Mode, and stream fan-out) and then run over any
// number of buffers. Internally it walks the source 16 bytes at a time:
// a lookup table built once per process (sync.OnceValue, never rebuilt)
// turns each window's continuation-byte pattern, or each window's
// per-unit length classification on encode, into a single gather that
// produces up to 8 decoded code points or a whole run of encoded UTF-8
// bytes in one pass. Whatever a window doesn't cleanly classify — a
// 4-byte UTF-8 lead, an unpaired surrogate, a malformed byte — falls
// through to a plain one-rune-at-a-time scalar codec, so correctness
// never depends on the vector path recognizing every case.
//
// # When to Use utfvec
//
//   - Bulk transcoding between UTF-8 and UTF-16/UTF-32, in memory, on
//     disk, or incrementally over a stream.
//   - Anywhere an iconv-style conversion descriptor is the expected
//     shape (see the iconv subpackage).
//
// # When NOT to Use utfvec
//
//   - Transcoding to or from encodings other than UTF-8/16/32 (Latin-1,
//     Shift-JIS, etc.) — out of scope; compose with golang.org/x/text
//     for those.
//   - Unicode normalization, case folding, or collation — this package
//     only changes the serialization, never the sequence of code points.
//
// # Tradeoffs vs Hand-Rolled range-over-string Loops
//
// Compared to a plain `for range s` / utf8.DecodeRune loop:
//   - Much higher throughput on long runs of ASCII or BMP text, since
//     the vector step amortizes branching across up to 8 code points
//   - A fixed, larger memory footprint (the decode LUT alone is 32768
//     entries, built once and kept for the process's lifetime)
//   - No advantage, and a small overhead, on short or mostly-astral
//     input, which spends most of its time in the scalar fallback anyway
//
// The vector step itself is an emulation: Vector128 in the simd
// subpackage models a 128-bit SIMD register in plain Go rather than
// issuing real SSE/AVX/NEON instructions, so its advantage over the
// scalar codec is architectural (fewer branches, batched classification)
// rather than genuine hardware parallelism. A build with a real
// assembly backend could swap simd.SelectBackend's result without
// touching any of the decode/encode logic built on top of it.
//
// # Basic Usage
//
//	p, err := utfvec.NewProcessor(utfvec.ProcessorConfig{
//		Direction:  utfvec.Decode,
//		OutputType: utfvec.UTF16,
//		MaxBytes:   utfvec.MaxBytes3,
//		Mode:       utfvec.ModeValidate,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	dst, res := p.ConvertInMemoryAlloc(src)
//	if res.Status != utfvec.StatusSuccess {
//		log.Fatalf("convert: %v", res.Status)
//	}
//
//	// Incremental input of unknown total length:
//	st := utfvec.NewInteractive(p)
//	out, err := st.Feed(chunk)
//
// # Performance Characteristics
//
// Throughput is dominated by how much of the input the vector step can
// accept: pure ASCII or pure BMP text stays on the 16-byte-window path
// almost the whole way through, while text dense with astral code
// points or malformed runs spends more time in the scalar fallback.
// Either path is O(n) in input length with no backtracking.
package utfvec
