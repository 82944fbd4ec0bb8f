// Package iconv exposes utfvec's Processor behind an iconv-shaped facade:
// Open a conversion descriptor naming a "from" and "to" encoding, then
// repeatedly Conv buffers through it, in the style of POSIX iconv(3).
//
// Only the UTF-8/UTF-16LE/UTF-32LE encodings utfvec itself implements
// are accepted; this package adds no new codec, just the calling
// convention.
//
// It deviates from POSIX iconv(3) in two ways, each called out where it
// applies below: E2BIG may be returned with less of the source consumed
// than a unit-at-a-time converter would report, and a nil destination
// requests a dry-run size query instead of being an error. CD.Conv also
// has a Go-shaped result: consumed and written byte counts plus an error
// that is nil on full success; it does not return iconv(3)'s count of
// irreversible conversions or any other success value.
package iconv

import (
	"errors"

	"github.com/transcodego/utfvec"
)

// Encoding names accepted by Open, matching the subset of iconv's
// charset names this module implements.
const (
	UTF8    = "UTF-8"
	UTF16LE = "UTF-16LE"
	UTF32LE = "UTF-32LE"
)

var (
	// ErrInvalidEncoding is returned by Open for any charset name other
	// than UTF8, UTF16LE, or UTF32LE, or for a same-to-same pair this
	// package has no reason to support (use a plain copy instead).
	ErrInvalidEncoding = errors.New("iconv: unsupported encoding")

	// EINVAL mirrors iconv(3)'s EINVAL: the source ends with an
	// incomplete multibyte sequence.
	EINVAL = errors.New("iconv: EINVAL (incomplete sequence at end of source)")

	// EILSEQ mirrors iconv(3)'s EILSEQ: the source contains a sequence
	// that is not valid in the "from" encoding.
	EILSEQ = errors.New("iconv: EILSEQ (invalid multibyte sequence)")

	// E2BIG mirrors iconv(3)'s E2BIG: the destination buffer is too
	// small for the next converted unit. Unlike POSIX iconv, CD.Conv's
	// consumed return can reflect less progress than a unit-at-a-time
	// implementation would report for the same call: when a large input
	// is split across four streams, a stream whose output does not fit is
	// dropped whole, along with every stream after it.
	E2BIG = errors.New("iconv: E2BIG (destination buffer too small)")
)

// CD is a conversion descriptor, the iconv_t equivalent.
type CD struct {
	proc   *utfvec.Processor
	closed bool
}

// Open returns a CD that converts from the "from" encoding to the "to"
// encoding. Both must be one of UTF8, UTF16LE, UTF32LE, and exactly one
// of them must be UTF8 (UTF16LE to UTF32LE is rejected too), matching
// iconv_open's signature (tocode, fromcode).
func Open(tocode, fromcode string) (*CD, error) {
	cfg, err := configFor(fromcode, tocode)
	if err != nil {
		return nil, err
	}
	p, err := utfvec.NewProcessor(cfg)
	if err != nil {
		return nil, err
	}
	return &CD{proc: p}, nil
}

func configFor(fromcode, tocode string) (utfvec.ProcessorConfig, error) {
	switch {
	case fromcode == UTF8 && (tocode == UTF16LE || tocode == UTF32LE):
		out := utfvec.UTF16
		if tocode == UTF32LE {
			out = utfvec.UTF32
		}
		return utfvec.ProcessorConfig{
			Direction:  utfvec.Decode,
			OutputType: out,
			MaxBytes:   utfvec.MaxBytes3,
			Mode:       utfvec.ModeValidate,
		}, nil
	case tocode == UTF8 && (fromcode == UTF16LE || fromcode == UTF32LE):
		in := utfvec.UTF16
		if fromcode == UTF32LE {
			in = utfvec.UTF32
		}
		return utfvec.ProcessorConfig{
			Direction:  utfvec.Encode,
			OutputType: in,
			MaxBytes:   utfvec.MaxBytes3,
			Mode:       utfvec.ModeValidate,
		}, nil
	default:
		return utfvec.ProcessorConfig{}, ErrInvalidEncoding
	}
}

// Conv converts as much of src as fits in dst, in the style of iconv(3):
// it returns the number of source bytes consumed, the number of
// destination bytes written, and an error that is nil on full
// consumption of src.
//
// If dst is nil, Conv performs a dry run: it reports how many bytes
// would be consumed and produced without writing anything, for callers
// sizing a destination buffer ahead of time (POSIX iconv has no direct
// equivalent; passing an actual zero-length non-nil buffer there is an
// immediate E2BIG instead).
func (cd *CD) Conv(src, dst []byte) (consumed, written int, err error) {
	if cd.closed {
		return 0, 0, errors.New("iconv: use of closed CD")
	}
	if dst == nil {
		size := cd.proc.MaxDecodedSize(len(src))
		if cd.proc.Config().Direction == utfvec.Encode {
			size = cd.proc.MaxEncodedSize(len(src))
		}
		probe := make([]byte, size)
		res := cd.proc.ConvertInMemory(src, probe)
		return res.BytesRead, res.BytesWritten, statusErr(res.Status)
	}
	res := cd.proc.ConvertInMemory(src, dst)
	return res.BytesRead, res.BytesWritten, statusErr(res.Status)
}

func statusErr(status utfvec.StatusCode) error {
	switch status {
	case utfvec.StatusSuccess:
		return nil
	case utfvec.StatusIncompleteData:
		return EINVAL
	case utfvec.StatusIncorrectData:
		return EILSEQ
	case utfvec.StatusOverflowPossible:
		return E2BIG
	default:
		return errors.New("iconv: conversion failed")
	}
}

// Close marks cd unusable. iconv_close never fails; neither does this.
func (cd *CD) Close() error {
	cd.closed = true
	return nil
}
