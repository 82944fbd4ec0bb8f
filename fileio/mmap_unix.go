//go:build unix

package fileio

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/transcodego/utfvec"
)

// ConvertFileMmap converts the whole of srcPath in one Processor call by
// memory-mapping it rather than copying it through a read buffer, then
// writes the result to dstPath. It suits large files that are fully
// available up front; for files arriving incrementally (a pipe, a
// socket-backed file), use ConvertFiles instead.
func ConvertFileMmap(p *utfvec.Processor, srcPath, dstPath string) (utfvec.Result, error) {
	in, err := os.Open(srcPath)
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}
	size := int(fi.Size())
	if size == 0 {
		if err := os.WriteFile(dstPath, nil, 0o644); err != nil {
			return utfvec.Result{Status: utfvec.StatusNoAccess}, err
		}
		return utfvec.Result{Status: utfvec.StatusSuccess}, nil
	}

	data, err := unix.Mmap(int(in.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return utfvec.Result{Status: utfvec.StatusNoAccess}, err
	}
	defer unix.Munmap(data)

	dst, res := p.ConvertInMemoryAlloc(data)
	if res.Status != utfvec.StatusSuccess {
		return res, utfvec.ErrMalformedInput
	}
	if err := os.WriteFile(dstPath, dst, 0o644); err != nil {
		return res, err
	}
	return res, nil
}
