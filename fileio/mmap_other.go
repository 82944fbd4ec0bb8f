//go:build !unix

package fileio

import "github.com/transcodego/utfvec"

// ConvertFileMmap is unavailable on non-unix platforms; callers should
// fall back to ConvertFiles, which has no such restriction.
func ConvertFileMmap(p *utfvec.Processor, srcPath, dstPath string) (utfvec.Result, error) {
	return utfvec.Result{Status: utfvec.StatusNoAccess}, utfvec.ErrMmapUnsupported
}
