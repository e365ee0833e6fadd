package target

import (
	"fmt"
	"io"
	"os"
)

// Handle is an open write handle owned by exactly one worker.
type Handle interface {
	io.Writer
	io.Closer
}

type Opener interface {
	Open(path string) (Handle, error)
}

type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("Failed to open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// FileOpener opens existing files and block devices write-only. Targets are
// never created or truncated.
type FileOpener struct{}

func (FileOpener) Open(path string) (Handle, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		// the path is already part of OpenError
		if pe, ok := err.(*os.PathError); ok {
			err = pe.Err
		}
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}

type syncer interface {
	Sync() error
}

// Flush pushes written data to stable storage when the handle supports it.
func Flush(h Handle) error {
	if rl, ok := h.(*rateLimitedHandle); ok {
		h = rl.Handle
	}
	if f, ok := h.(*os.File); ok {
		return flushFile(f)
	}
	if s, ok := h.(syncer); ok {
		return s.Sync()
	}
	return nil
}
