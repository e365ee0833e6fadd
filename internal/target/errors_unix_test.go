//go:build unix

package target

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestIsDeviceFull(t *testing.T) {
	assert.True(t, IsDeviceFull(unix.ENOSPC))
	assert.True(t, IsDeviceFull(&os.PathError{Op: "write", Path: "/dev/sdx", Err: unix.ENOSPC}))
	assert.True(t, IsDeviceFull(fmt.Errorf("write failed: %w", unix.EFBIG)))
	assert.False(t, IsDeviceFull(unix.EACCES))
	assert.False(t, IsDeviceFull(errors.New("broken pipe")))
	assert.False(t, IsDeviceFull(nil))
}
