package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// EnsureDir creates path as a directory. It reports false without error when
// a directory already exists there; any other failure is returned.
func EnsureDir(path string, mode os.FileMode) (bool, error) {
	err := os.Mkdir(path, mode)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return false, statErr
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists and is not a directory", path)
	}
	return false, nil
}

// WriteStream streams r into dst, truncating any existing file, and returns
// the number of bytes written. On failure dst is left in place holding
// whatever was written; files are never removed.
func WriteStream(dst string, r io.Reader, mode os.FileMode) (int64, error) {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}

	written, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return written, copyErr
	}
	return written, closeErr
}
