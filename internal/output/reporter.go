package output

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
)

// Reporter renders the progress of every tracked target.
type Reporter interface {
	Track(name string) Tracker
	Start()
	Stop()
}

// Tracker is the write side of one target's progress. It has a single writer:
// the worker that owns the target.
type Tracker interface {
	Begin()
	Update(total int64)
	Finish(message string)
	Fail(err error)
	Snapshot() utils.ProgressState
}

type tracker struct {
	id    string
	name  string
	index int

	bytes  atomic.Int64
	status atomic.Int32
	start  atomic.Int64 // unix nanos, set on Begin
	end    atomic.Int64 // unix nanos, set on a terminal transition

	mu      sync.Mutex
	message string
	err     error

	onTerminal func(*tracker)
}

func newTracker(id, name string, index int) *tracker {
	t := &tracker{id: id, name: name, index: index}
	t.status.Store(int32(utils.StatusPending))
	return t
}

func (t *tracker) state() utils.Status {
	return utils.Status(t.status.Load())
}

func (t *tracker) Begin() {
	if t.status.CompareAndSwap(int32(utils.StatusPending), int32(utils.StatusRunning)) {
		t.start.Store(time.Now().UnixNano())
	}
}

// Update is a plain atomic store so the write loop never waits on rendering.
func (t *tracker) Update(total int64) {
	if t.state() != utils.StatusRunning {
		return
	}
	if total > t.bytes.Load() {
		t.bytes.Store(total)
	}
}

func (t *tracker) Finish(message string) {
	if message == "" {
		message = fmt.Sprintf("%s: complete", t.name)
	}
	t.terminate(utils.StatusComplete, message, nil)
}

func (t *tracker) Fail(err error) {
	t.terminate(utils.StatusFailed, failureLine(t.name, err), err)
}

// failureLine names the target once: open errors already carry the path.
func failureLine(name string, err error) string {
	var openErr *target.OpenError
	if errors.As(err, &openErr) {
		return openErr.Error()
	}
	return fmt.Sprintf("%s: %v", name, err)
}

func (t *tracker) terminate(status utils.Status, message string, err error) {
	t.mu.Lock()
	current := t.state()
	// Complete is only reachable from Running
	if current.Terminal() || (status == utils.StatusComplete && current != utils.StatusRunning) {
		t.mu.Unlock()
		return
	}
	t.message = message
	t.err = err
	t.end.Store(time.Now().UnixNano())
	t.status.Store(int32(status))
	t.mu.Unlock()
	if t.onTerminal != nil {
		t.onTerminal(t)
	}
}

func (t *tracker) Snapshot() utils.ProgressState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return utils.ProgressState{
		BytesWritten: t.bytes.Load(),
		Status:       t.state(),
		Err:          t.err,
	}
}

func (t *tracker) finalMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// elapsed is measured from Begin to the terminal transition, or to now while
// the target is still running.
func (t *tracker) elapsed() time.Duration {
	start := t.start.Load()
	if start == 0 {
		return 0
	}
	end := t.end.Load()
	if end == 0 {
		end = time.Now().UnixNano()
	}
	return time.Duration(end - start)
}

// Noop discards all progress. Trackers still keep state so callers can read
// snapshots.
type Noop struct{}

func (Noop) Track(name string) Tracker {
	return newTracker("", name, 0)
}

func (Noop) Start() {}
func (Noop) Stop()  {}
