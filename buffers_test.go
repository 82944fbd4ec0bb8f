package utfvec

import (
	"testing"
	"unsafe"
)

func TestStreamsCountReflectsConfig(t *testing.T) {
	p1, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Streams: Streams1})
	if err != nil {
		t.Fatal(err)
	}
	if got := p1.StreamsCount(); got != 1 {
		t.Fatalf("Streams1: StreamsCount() = %d, want 1", got)
	}

	p4, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Streams: Streams4})
	if err != nil {
		t.Fatal(err)
	}
	if got := p4.StreamsCount(); got != 4 {
		t.Fatalf("Streams4: StreamsCount() = %d, want 4", got)
	}

	pAuto, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Streams: StreamsAuto})
	if err != nil {
		t.Fatal(err)
	}
	if got := pAuto.StreamsCount(); got != 4 {
		t.Fatalf("StreamsAuto: StreamsCount() = %d, want the conservative worst case 4", got)
	}
}

func TestOutputBufferMinSizeCoversActualOutput(t *testing.T) {
	p, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF32, MaxBytes: MaxBytes3, Streams: Streams1, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	src := []byte("Hello, \xc3\xa9\xe6\xbc\xa2 world")
	min := p.OutputBufferMinSize(len(src))
	dst := make([]byte, min)
	res := p.ConvertInMemory(src, dst)
	if res.Status != StatusSuccess {
		t.Fatalf("conversion failed: %v", res.Status)
	}
	if res.BytesWritten > min {
		t.Fatalf("actual output %d exceeded OutputBufferMinSize %d", res.BytesWritten, min)
	}
}

func TestCheckBuffersRejectsEmptyTooLargeAndOverlapping(t *testing.T) {
	in := make([]byte, 16)
	out := make([]byte, 16)

	if err := CheckBuffers(in, out); err != nil {
		t.Fatalf("valid disjoint buffers rejected: %v", err)
	}
	if err := CheckBuffers(nil, out); err != ErrNilBuffer {
		t.Fatalf("nil input: got %v, want ErrNilBuffer", err)
	}
	if err := CheckBuffers(in, nil); err != ErrNilBuffer {
		t.Fatalf("nil output: got %v, want ErrNilBuffer", err)
	}
	if err := CheckBuffers(in, in[4:8]); err != ErrBuffersOverlap {
		t.Fatalf("overlapping input/output: got %v, want ErrBuffersOverlap", err)
	}

	outs := [][]byte{make([]byte, 8), make([]byte, 8)}
	if err := CheckBuffers(in, outs...); err != nil {
		t.Fatalf("disjoint multi-stream outputs rejected: %v", err)
	}

	backing := make([]byte, 16)
	if err := CheckBuffers(in, backing[0:8], backing[4:12]); err != ErrBuffersOverlap {
		t.Fatalf("overlapping multi-stream outputs: got %v, want ErrBuffersOverlap", err)
	}

	// A buffer past BufferMaxSize is rejected on its reported length
	// alone, before anything would read it; fake that length over a
	// one-byte backing array instead of actually allocating it.
	backingByte := make([]byte, 1)
	oversized := unsafe.Slice(&backingByte[0], BufferMaxSize()+1)
	if err := CheckBuffers(oversized, out); err != ErrBufferTooLarge {
		t.Fatalf("oversized input: got %v, want ErrBufferTooLarge", err)
	}
}
