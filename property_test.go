package utfvec

import (
	"math/rand"
	"testing"
)

// property_test.go cross-checks decodeVectorStep (plus its scalar
// fallback, as Processor actually composes them) against decodeTrivial,
// the scalar oracle, over randomly generated windows. Random bytes are
// overwhelmingly malformed UTF-8, which is exactly the point: most seeds
// exercise the header check, the MaxBytes enforcement, and the
// overlong/surrogate rejection added to the vector path, not the happy
// path alone.
func TestDecodeVectorMatchesScalarReferenceForRandomInput(t *testing.T) {
	cfg := ProcessorConfig{Direction: Decode, OutputType: UTF32, MaxBytes: MaxBytes3, Mode: ModeValidate}
	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		for length := 0; length <= 32; length++ {
			src := make([]byte, length)
			for i := range src {
				src[i] = byte(rng.Intn(256))
			}

			wantDst := make([]byte, length*4+16)
			wantConsumed, wantWritten, wantOK := decodeTrivial(src, wantDst, UTF32)

			gotDst := make([]byte, length*4+16)
			res := p.decodeSpan(src, gotDst, true)

			gotOK := res.Status != StatusIncorrectData
			if gotOK != wantOK {
				t.Fatalf("seed=%d len=%d: ok=%v want %v (src=%x)", seed, length, gotOK, wantOK, src)
			}
			if !wantOK {
				// Both must reject; exact consumed/written before the
				// rejection point need not match since the vector path
				// and the scalar path can disagree on how much of a
				// doomed window they attempt before giving up, as long
				// as neither ever reports success.
				continue
			}
			if res.BytesRead != wantConsumed || res.BytesWritten != wantWritten {
				t.Fatalf("seed=%d len=%d: got (read=%d,written=%d) want (read=%d,written=%d) src=%x",
					seed, length, res.BytesRead, res.BytesWritten, wantConsumed, wantWritten, src)
			}
			for i := 0; i < res.BytesWritten; i++ {
				if gotDst[i] != wantDst[i] {
					t.Fatalf("seed=%d len=%d: output byte %d = %x want %x (src=%x)",
						seed, length, i, gotDst[i], wantDst[i], src)
				}
			}
		}
	}
}

// TestDecodeVectorStepRejectsOverlongAndSurrogateWithinFullWindow pins
// down the two hand-traced cases a random sweep might not reliably hit:
// a 16-byte window that opens with an overlong 2-byte NUL, and one that
// opens with a UTF-8-encoded surrogate, both followed by plain ASCII so
// the rest of the window still satisfies the header framing check.
func TestDecodeVectorStepRejectsOverlongAndSurrogateWithinFullWindow(t *testing.T) {
	cfg := ProcessorConfig{Direction: Decode, OutputType: UTF32, MaxBytes: MaxBytes3, Mode: ModeValidate}

	overlong := append([]byte{0xC0, 0x80}, []byte("abcdefghijklmn")...)
	if _, _, ok := decodeVectorStep(overlong, make([]byte, 64), cfg); ok {
		t.Fatalf("vector step accepted overlong NUL encoding C0 80")
	}

	surrogate := append([]byte{0xED, 0xA0, 0x80}, []byte("abcdefghijklm")...)
	if _, _, ok := decodeVectorStep(surrogate, make([]byte, 64), cfg); ok {
		t.Fatalf("vector step accepted UTF-8-encoded surrogate ED A0 80")
	}

	// Both must still be rejected end to end through Processor, not just
	// by the vector step in isolation.
	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res := p.ConvertInMemory(overlong, make([]byte, 64)); res.Status != StatusIncorrectData {
		t.Fatalf("Processor accepted overlong NUL encoding, status=%v", res.Status)
	}
	if res := p.ConvertInMemory(surrogate, make([]byte, 64)); res.Status != StatusIncorrectData {
		t.Fatalf("Processor accepted UTF-8-encoded surrogate, status=%v", res.Status)
	}
}
