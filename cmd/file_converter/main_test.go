package main

import (
	"testing"

	"github.com/transcodego/utfvec"
)

func TestParseSynthSource(t *testing.T) {
	cases := []struct {
		token   string
		charset string
		n       int
		ok      bool
	}{
		{"rndascii:100", "ascii", 100, true},
		{"rndbmp:0", "bmp", 0, true},
		{"rndlatin1:32", "latin1", 32, true},
		{"hash", "", 0, false},
		{"input.txt", "", 0, false},
		{"rndascii", "", 0, false},
		{"rndascii:-1", "", 0, false},
		{"rndascii:abc", "", 0, false},
	}
	for _, c := range cases {
		charset, n, ok := parseSynthSource(c.token)
		if ok != c.ok || (ok && (charset != c.charset || n != c.n)) {
			t.Errorf("parseSynthSource(%q) = (%q, %d, %v), want (%q, %d, %v)",
				c.token, charset, n, ok, c.charset, c.n, c.ok)
		}
	}
}

func TestNormalizeSingleDashLong(t *testing.T) {
	in := []string{"-s=utf8", "-ec", "input", "-ec", "output"}
	want := []string{"-s=utf8", "--ec", "input", "--ec", "output"}
	got := normalizeSingleDashLong(in)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestBuildConfigDecodeAndEncode(t *testing.T) {
	cfg, err := buildConfig("utf8", "utf-16", 3, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Direction != utfvec.Decode || cfg.OutputType != utfvec.UTF16 {
		t.Fatalf("unexpected decode config: %+v", cfg)
	}

	cfg, err = buildConfig("utf-32", "utf8", 2, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Direction != utfvec.Encode || cfg.OutputType != utfvec.UTF32 {
		t.Fatalf("unexpected encode config: %+v", cfg)
	}

	if _, err := buildConfig("utf-16", "utf-32", 3, false); err == nil {
		t.Fatal("expected an error when neither side is utf8")
	}
	if _, err := buildConfig("utf8", "utf-16", 5, false); err == nil {
		t.Fatal("expected an error for an out-of-range -b")
	}
}

func TestBuildConfigErrorCallbackMode(t *testing.T) {
	cfg, err := buildConfig("utf8", "utf-16", 3, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != utfvec.ModeFull {
		t.Fatalf("-ec should select ModeFull, got %v", cfg.Mode)
	}
	if cfg.OnErrorMissCodeUnits == nil {
		t.Fatal("-ec should install OnErrorMissCodeUnits")
	}
}

func TestGenerateSynthSourceMatchesProcessorDirection(t *testing.T) {
	decodeCfg := utfvec.ProcessorConfig{Direction: utfvec.Decode, OutputType: utfvec.UTF16, MaxBytes: utfvec.MaxBytes3, Mode: utfvec.ModeValidate}
	p, err := utfvec.NewProcessor(decodeCfg)
	if err != nil {
		t.Fatal(err)
	}
	src, err := generateSynthSource(p, "ascii", 50)
	if err != nil {
		t.Fatal(err)
	}
	dst, res := p.ConvertInMemoryAlloc(src)
	if res.Status != utfvec.StatusSuccess {
		t.Fatalf("generated ascii source failed to decode as utf8: %v", res.Status)
	}
	if res.BytesWritten != len(dst) || len(dst) != 50*2 {
		t.Fatalf("expected 50 ascii code points to decode to 100 bytes of utf-16, got %d", len(dst))
	}

	encodeCfg := utfvec.ProcessorConfig{Direction: utfvec.Encode, OutputType: utfvec.UTF32, MaxBytes: utfvec.MaxBytes3, Mode: utfvec.ModeValidate}
	p2, err := utfvec.NewProcessor(encodeCfg)
	if err != nil {
		t.Fatal(err)
	}
	src2, err := generateSynthSource(p2, "astral", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(src2) != 20*4 {
		t.Fatalf("expected 20 astral code points to serialize to 80 bytes of utf-32, got %d", len(src2))
	}
	if _, err := generateSynthSource(p2, "nonsense", 1); err == nil {
		t.Fatal("expected an error for an unknown charset")
	}
}
