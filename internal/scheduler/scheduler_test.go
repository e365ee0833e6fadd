package scheduler

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/diskdestroyer/internal/output"
	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
	"github.com/tanq16/diskdestroyer/internal/worker"
)

type sink struct {
	mu       sync.Mutex
	capacity int
	written  int
}

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(len(p), s.capacity-s.written)
	s.written += n
	return n, nil
}

func (s *sink) Close() error { return nil }

type brokenHandle struct{}

func (brokenHandle) Write([]byte) (int, error) { return 0, errors.New("input/output error") }
func (brokenHandle) Close() error               { return nil }

type mapOpener map[string]target.Handle

func (m mapOpener) Open(path string) (target.Handle, error) {
	if h, ok := m[path]; ok {
		return h, nil
	}
	return nil, &target.OpenError{Path: path, Err: errors.New("permission denied")}
}

// countingReporter wraps Noop and remembers what was tracked.
type countingReporter struct {
	output.Noop
	mu      sync.Mutex
	tracked []string
	started atomic.Bool
	stopped atomic.Bool
}

func (r *countingReporter) Track(name string) output.Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked = append(r.tracked, name)
	return r.Noop.Track(name)
}

func (r *countingReporter) Start() { r.started.Store(true) }
func (r *countingReporter) Stop()  { r.stopped.Store(true) }

func config(threads int, targets ...string) utils.Config {
	return utils.Config{
		Targets:   targets,
		Policy:    utils.FillZero,
		BlockSize: 1024,
		Threads:   threads,
	}
}

func TestRunIsolatesOpenFailure(t *testing.T) {
	opener := mapOpener{
		"A": &sink{capacity: 4096},
		"C": &sink{capacity: 10000},
	}
	reporter := &countingReporter{}
	results := Run(config(2, "A", "B", "C"), opener, reporter)

	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Target)
	assert.Equal(t, utils.StatusComplete, results[0].State.Status)
	assert.Equal(t, int64(4096), results[0].State.BytesWritten)

	assert.Equal(t, "B", results[1].Target)
	assert.Equal(t, utils.StatusFailed, results[1].State.Status)
	var openErr *target.OpenError
	assert.ErrorAs(t, results[1].State.Err, &openErr)

	assert.Equal(t, "C", results[2].Target)
	assert.Equal(t, utils.StatusComplete, results[2].State.Status)
	assert.Equal(t, int64(10000), results[2].State.BytesWritten)

	assert.Equal(t, []string{"A", "B", "C"}, reporter.tracked)
	assert.True(t, reporter.started.Load())
	assert.True(t, reporter.stopped.Load())
}

func TestRunWriteErrorDoesNotAffectOthers(t *testing.T) {
	opener := mapOpener{
		"bad":  brokenHandle{},
		"good": &sink{capacity: 1 << 20},
	}
	results := Run(config(2, "good", "bad"), opener, output.Noop{})

	assert.Equal(t, utils.StatusComplete, results[0].State.Status)
	assert.Equal(t, int64(1<<20), results[0].State.BytesWritten)

	assert.Equal(t, utils.StatusFailed, results[1].State.Status)
	assert.Zero(t, results[1].State.BytesWritten)
	var writeErr *worker.WriteError
	assert.ErrorAs(t, results[1].State.Err, &writeErr)
}

func TestRunWaitsForQueuedTargets(t *testing.T) {
	opener := mapOpener{}
	var targets []string
	for _, name := range []string{"t1", "t2", "t3", "t4", "t5", "t6"} {
		opener[name] = &sink{capacity: 64 * 1024}
		targets = append(targets, name)
	}
	results := Run(config(1, targets...), opener, output.Noop{})

	require.Len(t, results, len(targets))
	for i, res := range results {
		assert.Equal(t, targets[i], res.Target)
		assert.True(t, res.State.Status.Terminal())
		assert.Equal(t, int64(64*1024), res.State.BytesWritten)
		assert.NotEmpty(t, res.ID)
	}
}

func TestRunNoTargets(t *testing.T) {
	reporter := &countingReporter{}
	results := Run(config(4), mapOpener{}, reporter)
	assert.Empty(t, results)
	assert.True(t, reporter.stopped.Load())
}

type inlineExecutor struct {
	submitted int
}

func (e *inlineExecutor) Submit(task func()) {
	e.submitted++
	task()
}

func (e *inlineExecutor) Join() {}

func TestRunWithCustomExecutor(t *testing.T) {
	exec := &inlineExecutor{}
	opener := mapOpener{"x": &sink{capacity: 2048}, "y": &sink{capacity: 512}}
	results := RunWith(exec, config(0, "x", "y"), opener, output.Noop{})
	assert.Equal(t, 2, exec.submitted)
	assert.Equal(t, int64(2048), results[0].State.BytesWritten)
	assert.Equal(t, int64(512), results[1].State.BytesWritten)
}

func TestRunReportsOpenFailureOnStderr(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.img")
	var out, errOut bytes.Buffer
	results := Run(config(1, missing), target.FileOpener{}, output.NewPlain(&out, &errOut, 0))

	require.Len(t, results, 1)
	assert.Equal(t, utils.StatusFailed, results[0].State.Status)
	assert.ErrorIs(t, results[0].State.Err, fs.ErrNotExist)
	assert.Empty(t, out.String())
	line := errOut.String()
	assert.True(t, strings.HasPrefix(line, "Failed to open "+missing+": "), "unexpected stderr line %q", line)
	assert.Equal(t, 1, strings.Count(line, missing), "path should appear once")
	assert.True(t, strings.HasSuffix(line, "\n"))
}
