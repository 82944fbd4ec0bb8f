// Command file_converter converts a file between UTF-8 and UTF-16LE or
// UTF-32LE from the command line, a thin wrapper over the file,
// in-memory, and streaming APIs.
//
// Both the input and output positional arguments can name a real path,
// or a synthetic token: an input of rnd<charset>:<n> generates n random
// code points of the named class instead of reading a file, and an
// output of hash discards the converted bytes after folding them into
// a checksum instead of writing them to disk. Both are meant for
// benchmarking and fuzzing the converter without needing prebuilt
// corpora on disk.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/transcodego/utfvec"
	"github.com/transcodego/utfvec/fileio"
)

var log = logrus.New()

// Exit codes. 0 and 17 are the documented contract; exitRuntimeError is
// this implementation's choice for everything else (I/O failure,
// malformed input), which the contract leaves unspecified.
const (
	exitSuccess      = 0
	exitConfigError  = 17
	exitRuntimeError = 1
)

const hashToken = "hash"

func main() {
	var (
		srcEnc   = flag.StringP("s", "s", "utf8", "source encoding: utf8, utf-16, utf-32")
		dstEnc   = flag.StringP("d", "d", "utf-16", "destination encoding: utf8, utf-16, utf-32")
		maxBytes = flag.IntP("b", "b", 3, "longest UTF-8 sequence the vector step accelerates: 1, 2, or 3")
		small    = flag.Bool("small", false, "stream through recommended-size chunks instead of converting the whole input in one call")
		fileFlag = flag.Bool("file", false, "use the buffered file I/O path even when memory-mapping the source is possible")
		ec       = flag.Bool("ec", false, "when decoding from utf8, skip malformed input one byte at a time and keep going, instead of stopping at the first error")
		runs     = flag.IntP("k", "k", 1, "number of times to repeat the conversion")
	)
	// pflag's shorthand flags are single characters by construction, but
	// -ec is documented as a two-letter single-dash flag; rewrite it to
	// the long form before pflag ever sees it rather than bending the
	// flag package to a shape it doesn't support.
	if err := flag.CommandLine.Parse(normalizeSingleDashLong(os.Args[1:])); err != nil {
		log.WithError(err).Error("invalid flags")
		os.Exit(exitConfigError)
	}

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: file_converter [flags] <input> <output>")
		flag.PrintDefaults()
		os.Exit(exitConfigError)
	}
	if *runs < 1 {
		log.WithField("k", *runs).Error("-k must be at least 1")
		os.Exit(exitConfigError)
	}

	cfg, err := buildConfig(*srcEnc, *dstEnc, *maxBytes, *ec)
	if err != nil {
		log.WithError(err).Error("invalid flags")
		os.Exit(exitConfigError)
	}
	p, err := utfvec.NewProcessor(cfg)
	if err != nil {
		log.WithError(err).Error("could not build processor")
		os.Exit(exitConfigError)
	}

	srcToken, dstToken := flag.Arg(0), flag.Arg(1)
	if _, _, ok := parseSynthSource(srcToken); !ok && srcToken == hashToken {
		log.Error("hash is a synthetic sink token, not a valid source")
		os.Exit(exitConfigError)
	}

	log.WithFields(logrus.Fields{
		"backend": p.Backend(),
		"s":       *srcEnc,
		"d":       *dstEnc,
		"k":       *runs,
	}).Debug("starting conversion")

	for i := 0; i < *runs; i++ {
		res, err := runOnce(p, srcToken, dstToken, *small, *fileFlag)
		if err != nil {
			log.WithError(err).Error("conversion failed")
			os.Exit(exitRuntimeError)
		}
		if res.Status != utfvec.StatusSuccess {
			log.WithField("status", res.Status).Error("conversion did not complete")
			os.Exit(exitRuntimeError)
		}
		log.WithFields(logrus.Fields{
			"run":           i + 1,
			"bytes_read":    res.BytesRead,
			"bytes_written": res.BytesWritten,
		}).Info("conversion complete")
	}
	os.Exit(exitSuccess)
}

// normalizeSingleDashLong rewrites a bare "-ec" argument to "--ec" so
// pflag parses it as the long flag it's registered as, leaving every
// other argument untouched.
func normalizeSingleDashLong(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "-ec" {
			out[i] = "--ec"
			continue
		}
		out[i] = a
	}
	return out
}

func buildConfig(srcEnc, dstEnc string, maxBytes int, ec bool) (utfvec.ProcessorConfig, error) {
	var cfg utfvec.ProcessorConfig

	switch maxBytes {
	case 1:
		cfg.MaxBytes = utfvec.MaxBytes1
	case 2:
		cfg.MaxBytes = utfvec.MaxBytes2
	case 3:
		cfg.MaxBytes = utfvec.MaxBytes3
	default:
		return cfg, fmt.Errorf("-b must be 1, 2, or 3, got %d", maxBytes)
	}
	cfg.Streams = utfvec.StreamsAuto

	unitFor := func(enc string) (utfvec.OutputType, bool) {
		switch enc {
		case "utf-16":
			return utfvec.UTF16, true
		case "utf-32":
			return utfvec.UTF32, true
		default:
			return 0, false
		}
	}

	switch {
	case srcEnc == "utf8":
		unit, ok := unitFor(dstEnc)
		if !ok {
			return cfg, fmt.Errorf("unsupported -d %q for -s utf8", dstEnc)
		}
		cfg.Direction = utfvec.Decode
		cfg.OutputType = unit
	case dstEnc == "utf8":
		unit, ok := unitFor(srcEnc)
		if !ok {
			return cfg, fmt.Errorf("unsupported -s %q for -d utf8", srcEnc)
		}
		cfg.Direction = utfvec.Encode
		cfg.OutputType = unit
	default:
		return cfg, fmt.Errorf("one of -s/-d must be utf8, got -s %q -d %q", srcEnc, dstEnc)
	}

	if ec {
		cfg.Mode = utfvec.ModeFull
		skipped := 0
		cfg.OnErrorMissCodeUnits = func(count int) {
			skipped += count
			log.WithField("skipped", skipped).Debug("skipped malformed unit")
		}
	} else {
		cfg.Mode = utfvec.ModeValidate
	}
	return cfg, nil
}

// runOnce resolves the input and output tokens to either real files or
// synthetic source/sink, runs one conversion, and reports the Result.
func runOnce(p *utfvec.Processor, srcToken, dstToken string, small, forceFile bool) (utfvec.Result, error) {
	charset, n, isSynthSrc := parseSynthSource(srcToken)
	isHashDst := dstToken == hashToken

	if !isSynthSrc && !isHashDst {
		// Both endpoints are real files: let the file API pick mmap or
		// buffered I/O, per -small/-file.
		if small || forceFile {
			return fileio.ConvertFiles(p, srcToken, dstToken)
		}
		res, err := fileio.ConvertFileMmap(p, srcToken, dstToken)
		if errors.Is(err, utfvec.ErrMmapUnsupported) {
			return fileio.ConvertFiles(p, srcToken, dstToken)
		}
		return res, err
	}

	var src []byte
	var err error
	if isSynthSrc {
		src, err = generateSynthSource(p, charset, n)
	} else {
		src, err = os.ReadFile(srcToken)
	}
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}

	var dst []byte
	var res utfvec.Result
	if small {
		var out bytes.Buffer
		res, err = fileio.Convert(p, bytes.NewReader(src), &out)
		if err != nil {
			return res, err
		}
		dst = out.Bytes()
	} else {
		dst, res = p.ConvertInMemoryAlloc(src)
	}

	if isHashDst {
		logHash(dst)
		return res, nil
	}
	if err := os.WriteFile(dstToken, dst, 0o644); err != nil {
		return res, err
	}
	return res, nil
}

// parseSynthSource recognizes the rnd<charset>:<n> input token. charset
// names which class of code points to draw from; n is how many to
// generate.
func parseSynthSource(token string) (charset string, n int, ok bool) {
	rest, found := strings.CutPrefix(token, "rnd")
	if !found {
		return "", 0, false
	}
	name, countStr, found := strings.Cut(rest, ":")
	if !found {
		return "", 0, false
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return "", 0, false
	}
	return name, count, true
}

// codePointRanges bounds the rune classes a synthetic source can be
// asked for: plain ASCII, Latin-1 supplement (exercises 2-byte UTF-8),
// the rest of the BMP excluding surrogates (3-byte UTF-8 / bare UTF-16
// units), and astral code points (4-byte UTF-8 / surrogate pairs).
var codePointRanges = map[string][2]rune{
	"ascii":  {0x20, 0x7E},
	"latin1": {0xA0, 0xFF},
	"bmp":    {0x0100, 0xFFFF}, // surrogates are skipped explicitly below
	"astral": {0x10000, 0x10FFFF},
}

// generateSynthSource produces n random code points from charset,
// seeded deterministically by n itself, and serializes them in
// whichever format p expects as its source (UTF-8 for Decode,
// UTF-16LE/UTF-32LE for Encode).
func generateSynthSource(p *utfvec.Processor, charset string, n int) ([]byte, error) {
	bounds, ok := codePointRanges[charset]
	if !ok {
		return nil, fmt.Errorf("unknown rnd charset %q (want one of ascii, latin1, bmp, astral)", charset)
	}
	rng := rand.New(rand.NewSource(int64(n) + 1))
	runes := make([]rune, 0, n)
	for len(runes) < n {
		r := bounds[0] + rune(rng.Intn(int(bounds[1]-bounds[0]+1)))
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		runes = append(runes, r)
	}

	cfg := p.Config()
	if cfg.Direction == utfvec.Decode {
		buf := make([]byte, 0, n*4)
		var tmp [utf8.UTFMax]byte
		for _, r := range runes {
			w := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:w]...)
		}
		return buf, nil
	}

	if cfg.OutputType == utfvec.UTF16 {
		buf := make([]byte, 0, n*2)
		for _, r := range runes {
			u1, u2 := utf16.EncodeRune(r)
			if u1 == 0xFFFD && u2 == 0xFFFD {
				buf = append(buf, byte(r), byte(r>>8))
				continue
			}
			buf = append(buf, byte(u1), byte(u1>>8), byte(u2), byte(u2>>8))
		}
		return buf, nil
	}
	buf := make([]byte, 0, n*4)
	for _, r := range runes {
		buf = append(buf, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	return buf, nil
}

// logHash folds the converted output into a 64-bit FNV-1a digest and
// reports it, standing in for actually writing it to disk: the hash
// sink exists so a benchmark run's I/O cost doesn't depend on disk
// speed, not to verify output against a reference.
func logHash(data []byte) {
	h := fnv.New64a()
	h.Write(data)
	log.WithFields(logrus.Fields{
		"bytes": len(data),
		"fnv1a": fmt.Sprintf("%016x", h.Sum64()),
	}).Info("hash sink")
}
