package target

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func flushFile(f *os.File) error {
	err := unix.Fdatasync(int(f.Fd()))
	if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOSYS) {
		return f.Sync()
	}
	return err
}
