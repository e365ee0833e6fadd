//go:build unix

package target

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsDeviceFull reports whether err means the medium refused more data.
func IsDeviceFull(err error) bool {
	return errors.Is(err, unix.ENOSPC) || errors.Is(err, unix.EFBIG) || errors.Is(err, unix.EDQUOT)
}
