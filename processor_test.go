package utfvec

import (
	"strings"
	"testing"
)

func decodeAll(t *testing.T, cfg ProcessorConfig, src []byte) ([]byte, Result) {
	t.Helper()
	p, err := NewProcessor(cfg)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	return p.ConvertInMemoryAlloc(src)
}

func TestProcessorDecodeUTF16LongASCII(t *testing.T) {
	// Long enough to exercise several 16-byte vector windows.
	src := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20))
	dst, res := decodeAll(t, ProcessorConfig{
		Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeValidate,
	}, src)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	if len(dst) != len(src)*2 {
		t.Fatalf("len(dst) = %d, want %d", len(dst), len(src)*2)
	}
	for i, r := range src {
		if got := getU16LE(dst[2*i:]); got != uint16(r) {
			t.Fatalf("unit %d = %x want %x", i, got, r)
		}
	}
}

func TestProcessorDecodeUTF32MixedScript(t *testing.T) {
	src := []byte(strings.Repeat("Héllo, 世界! Emoji: \U0001F600 ", 10))
	dst, res := decodeAll(t, ProcessorConfig{
		Direction: Decode, OutputType: UTF32, MaxBytes: MaxBytes3, Mode: ModeValidate,
	}, src)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	var want []rune
	for _, r := range string(src) {
		want = append(want, r)
	}
	if len(dst) != len(want)*4 {
		t.Fatalf("len(dst) = %d, want %d", len(dst), len(want)*4)
	}
	for i, r := range want {
		if got := getU32LE(dst[4*i:]); got != uint32(r) {
			t.Fatalf("rune %d = %x want %x", i, got, r)
		}
	}
}

func TestProcessorDecodeInvalidReportsIncorrect(t *testing.T) {
	src := []byte("valid text then \xff\xfe garbage")
	p, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]byte, p.MaxDecodedSize(len(src)))
	res := p.ConvertInMemory(src, dst)
	if res.Status != StatusIncorrectData {
		t.Fatalf("status = %v, want StatusIncorrectData", res.Status)
	}
	if res.BytesRead != len("valid text then ") {
		t.Fatalf("BytesRead = %d, want %d", res.BytesRead, len("valid text then "))
	}
}

func TestProcessorDecodeModeFullSkipsBadBytesWithHook(t *testing.T) {
	var skipped int
	src := []byte("ab\xffcd")
	p, err := NewProcessor(ProcessorConfig{
		Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeFull,
		OnErrorMissCodeUnits: func(n int) { skipped += n },
	})
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]byte, p.MaxDecodedSize(len(src)))
	res := p.ConvertInMemory(src, dst)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if got := string(utf16BytesToRunes(dst[:res.BytesWritten])); got != "abcd" {
		t.Fatalf("got %q, want abcd", got)
	}
}

func utf16BytesToRunes(b []byte) []rune {
	var out []rune
	for i := 0; i+1 < len(b); i += 2 {
		out = append(out, rune(getU16LE(b[i:])))
	}
	return out
}

func TestProcessorEncodeUTF16RoundTrip(t *testing.T) {
	text := strings.Repeat("Hello, 世界! \U0001F600 ", 15)
	u16 := utf16Encode(text)

	p, err := NewProcessor(ProcessorConfig{Direction: Encode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	dst, res := p.ConvertInMemoryAlloc(u16)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	if string(dst) != text {
		t.Fatalf("got %q, want %q", string(dst), text)
	}
}

func TestProcessorEncodeUTF32RoundTrip(t *testing.T) {
	text := strings.Repeat("Plain and \U0001F600 ", 15)
	var u32 []byte
	for _, r := range text {
		b := make([]byte, 4)
		putU32LE(b, uint32(r))
		u32 = append(u32, b...)
	}
	p, err := NewProcessor(ProcessorConfig{Direction: Encode, OutputType: UTF32, MaxBytes: MaxBytes3, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	dst, res := p.ConvertInMemoryAlloc(u32)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	if string(dst) != text {
		t.Fatalf("got %q, want %q", string(dst), text)
	}
}

func TestProcessorRoundTripWithStreams4(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog, 世界 \U0001F600. ", 200)
	p, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF32, MaxBytes: MaxBytes3, Mode: ModeValidate, Streams: Streams4})
	if err != nil {
		t.Fatal(err)
	}
	dst, res := p.ConvertInMemoryAlloc([]byte(text))
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v", res.Status)
	}
	var want []rune
	for _, r := range text {
		want = append(want, r)
	}
	if len(dst) != len(want)*4 {
		t.Fatalf("len(dst) = %d, want %d", len(dst), len(want)*4)
	}
	for i, r := range want {
		if got := getU32LE(dst[4*i:]); got != uint32(r) {
			t.Fatalf("rune %d = %x want %x", i, got, r)
		}
	}
}

func TestNewProcessorRejectsInvalidConfig(t *testing.T) {
	_, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: OutputType(99), MaxBytes: MaxBytes3})
	if err == nil {
		t.Fatalf("expected error for invalid OutputType")
	}
}

func TestProcessorOverflowPossible(t *testing.T) {
	p, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	src := []byte(strings.Repeat("x", 64))
	dst := make([]byte, 10) // far too small
	res := p.ConvertInMemory(src, dst)
	if res.Status != StatusOverflowPossible {
		t.Fatalf("status = %v, want StatusOverflowPossible", res.Status)
	}
	if res.BytesWritten != 10 {
		t.Fatalf("BytesWritten = %d, want 10", res.BytesWritten)
	}
}

func TestProcessRejectsOverlappingBuffers(t *testing.T) {
	p, err := NewProcessor(ProcessorConfig{Direction: Decode, OutputType: UTF16, MaxBytes: MaxBytes3, Mode: ModeValidate})
	if err != nil {
		t.Fatal(err)
	}
	buf := []byte("overlap me")
	res := p.Process(buf, buf[2:], true)
	if res.Status != StatusNoAccess {
		t.Fatalf("status = %v, want StatusNoAccess for overlapping src/dst", res.Status)
	}
}
