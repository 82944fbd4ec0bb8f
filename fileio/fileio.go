// Package fileio implements the file-to-file conversion path: a
// buffered streaming copy built on utfvec.Stream for the common case,
// and an optional whole-file memory-mapped path
// (mmap_unix.go / mmap_other.go) for callers that want to avoid the
// read() copy for large, fully-available files.
package fileio

import (
	"bufio"
	"io"
	"os"

	"github.com/transcodego/utfvec"
)

// ConvertFiles streams srcPath through p and writes the result to
// dstPath, creating or truncating dstPath. The returned Result carries
// the total bytes read and written, and as its Status the first
// non-success status encountered (StatusSuccess if the whole file
// converted cleanly).
func ConvertFiles(p *utfvec.Processor, srcPath, dstPath string) (utfvec.Result, error) {
	in, err := os.Open(srcPath)
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}
	defer in.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}
	defer out.Close()

	chunk := p.InputBufferRecommendedSize()
	return Convert(p, bufio.NewReaderSize(in, chunk), bufio.NewWriterSize(out, chunk))
}

// Convert streams r through p and writes the result to w, flushing w
// (if it implements an explicit Flush, as *bufio.Writer does) before
// returning.
func Convert(p *utfvec.Processor, r io.Reader, w io.Writer) (utfvec.Result, error) {
	st := utfvec.NewStream(p)
	chunk := p.InputBufferRecommendedSize()
	readBuf := make([]byte, chunk)
	writeBuf := make([]byte, p.OutputBufferMinSize(chunk)*p.StreamsCount())

	total := utfvec.Result{Status: utfvec.StatusSuccess}
	for {
		n, readErr := r.Read(readBuf)
		eof := readErr == io.EOF
		if n > 0 || eof {
			if n > 0 {
				st.SetInput(readBuf[:n])
			} else {
				st.SetInput(nil)
			}
			st.SetLastBlock(eof)
			st.SetOutput(writeBuf)
			res, err := st.Process()
			if err != nil {
				return total, err
			}
			if _, werr := w.Write(st.OutputDone()); werr != nil {
				return total, werr
			}
			total.BytesRead += res.BytesRead
			total.BytesWritten += res.BytesWritten
			if res.Status != utfvec.StatusSuccess {
				total.Status = res.Status
				return total, nil
			}
		}
		if eof {
			break
		}
		if readErr != nil {
			return total, readErr
		}
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

type flusher interface {
	Flush() error
}
