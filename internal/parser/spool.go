package parser

import (
	"fmt"
	"io"
	"os"
)

// spooled is a temp file holding an upload for libraries that need random
// access. close removes it.
type spooled struct {
	*os.File
}

func spool(r io.Reader, pattern string) (*spooled, int64, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}
	f := &spooled{File: tmp}

	size, err := io.Copy(tmp, r)
	if err != nil {
		f.close()
		return nil, 0, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		f.close()
		return nil, 0, fmt.Errorf("seek temp file: %w", err)
	}
	return f, size, nil
}

func (f *spooled) close() {
	f.File.Close()
	os.Remove(f.Name())
}
