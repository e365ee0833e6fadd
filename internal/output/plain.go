package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tanq16/diskdestroyer/internal/utils"
)

// Plain writes line-oriented progress for pipes and log files. Final lines are
// "<target>: complete" on out and "<target>: <error>" on errOut.
type Plain struct {
	out      io.Writer
	errOut   io.Writer
	interval time.Duration

	mutex    sync.Mutex
	trackers []*tracker
	doneCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPlain reports running targets every interval; an interval of zero prints
// final lines only.
func NewPlain(out, errOut io.Writer, interval time.Duration) *Plain {
	return &Plain{
		out:      out,
		errOut:   errOut,
		interval: interval,
		doneCh:   make(chan struct{}),
	}
}

func (p *Plain) Track(name string) Tracker {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	t := newTracker("", name, len(p.trackers)+1)
	t.onTerminal = p.printFinal
	p.trackers = append(p.trackers, t)
	return t
}

func (p *Plain) printFinal(t *tracker) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	w := p.out
	if t.state() == utils.StatusFailed {
		w = p.errOut
	}
	_, _ = fmt.Fprintln(w, t.finalMessage())
}

func (p *Plain) printProgress() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, t := range p.trackers {
		if t.state() != utils.StatusRunning {
			continue
		}
		written := t.bytes.Load()
		_, _ = fmt.Fprintf(p.out, "%s (%s)\n", progressText(t.name, written), speedText(written, t.elapsed()))
	}
}

func (p *Plain) Start() {
	if p.interval <= 0 {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.printProgress()
			case <-p.doneCh:
				return
			}
		}
	}()
}

func (p *Plain) Stop() {
	p.stopOnce.Do(func() {
		close(p.doneCh)
		p.wg.Wait()
	})
}
