package iconv

import (
	"github.com/transcodego/utfvec"
	"golang.org/x/text/transform"
)

// Transformer adapts a utfvec.Processor to golang.org/x/text/transform's
// Transformer interface, so a conversion can be chained with x/text's
// other encodings (transform.Chain) or wrapped in transform.NewReader /
// transform.NewWriter — the composition point doc.go calls out for
// charsets outside utfvec's own UTF-8/UTF-16/UTF-32 scope.
type Transformer struct {
	p       *utfvec.Processor
	pending []byte
}

// NewTransformer returns a transform.Transformer that performs the
// conversion p is configured for.
func NewTransformer(p *utfvec.Processor) *Transformer {
	return &Transformer{p: p}
}

// Transform implements transform.Transformer. Unconsumed trailing bytes
// of src that don't yet form a complete sequence are held back and
// prepended on the next call, mirroring Stream's behavior; x/text's
// chunking guarantees Transform will be called again with more data
// unless atEOF is set, at which point a dangling tail becomes
// transform.ErrShortSrc's counterpart: an outright error, since no more
// input is coming.
func (tr *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	full := src
	if len(tr.pending) > 0 {
		full = append(append([]byte(nil), tr.pending...), src...)
	}

	res := tr.p.Process(full, dst, atEOF)
	switch res.Status {
	case utfvec.StatusSuccess:
		// Whatever wasn't converted is now in pending, so all of src
		// counts as consumed; reporting less would make the caller hand
		// those bytes back a second time.
		tr.pending = append([]byte(nil), full[res.BytesRead:]...)
		return res.BytesWritten, len(src), nil
	case utfvec.StatusOverflowPossible:
		tr.pending = append([]byte(nil), full[res.BytesRead:]...)
		return res.BytesWritten, len(src), transform.ErrShortDst
	case utfvec.StatusIncompleteData:
		if !atEOF {
			tr.pending = append([]byte(nil), full...)
			return 0, len(src), transform.ErrShortSrc
		}
		return res.BytesWritten, len(src), EINVAL
	default:
		return res.BytesWritten, len(src), EILSEQ
	}
}

// Reset clears any bytes held back from a previous Transform call.
func (tr *Transformer) Reset() { tr.pending = nil }
