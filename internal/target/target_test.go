package target

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferHandle struct {
	bytes.Buffer
	closed bool
	synced bool
}

func (b *bufferHandle) Close() error { b.closed = true; return nil }
func (b *bufferHandle) Sync() error  { b.synced = true; return nil }

func TestFileOpenerMissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.img")
	_, err := FileOpener{}.Open(path)
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, path, openErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, "Failed to open "+path+": no such file or directory", err.Error())

	// targets are never created
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileOpenerDoesNotTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.img")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	h, err := FileOpener{}.Open(path)
	require.NoError(t, err)
	n, err := h.Write([]byte("HE"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, Flush(h))
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HEllo world", string(data))
}

func TestRateLimitedDisabled(t *testing.T) {
	h := &bufferHandle{}
	assert.Same(t, Handle(h), NewRateLimited(h, 0, 1024))
}

func TestRateLimitedPassesData(t *testing.T) {
	h := &bufferHandle{}
	rl := NewRateLimited(h, 1<<20, 1024)
	n, err := rl.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", h.String())

	require.NoError(t, Flush(rl))
	assert.True(t, h.synced)
	require.NoError(t, rl.Close())
	assert.True(t, h.closed)
}

func TestRateLimitedThrottles(t *testing.T) {
	h := &bufferHandle{}
	rl := NewRateLimited(h, 10240, 1024)
	block := make([]byte, 1024)
	start := time.Now()
	// the first 10 blocks drain the burst, the next 10 take about a second
	for range 20 {
		_, err := rl.Write(block)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 800*time.Millisecond)
	assert.Equal(t, 20*1024, h.Len())
}

func TestRateLimitedBurstCoversBlock(t *testing.T) {
	h := &bufferHandle{}
	// rate below the block size must still accept full blocks
	rl := NewRateLimited(h, 512, 1024)
	_, err := rl.Write(make([]byte, 1024))
	assert.NoError(t, err)
}
