//go:build !linux

package target

import "os"

func flushFile(f *os.File) error {
	return f.Sync()
}
