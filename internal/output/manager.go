package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
)

type errorReport struct {
	message string
	time    time.Time
}

// Manager redraws one line per target on a terminal.
type Manager struct {
	out          io.Writer
	errOut       io.Writer
	outputs      map[string]*tracker
	mutex        sync.RWMutex
	numLines     int
	errors       []errorReport
	doneCh       chan struct{} // Channel to signal stopping the display
	displayTick  time.Duration // Interval between display updates
	trackerCount int
	frame        int
	displayWg    sync.WaitGroup // WaitGroup for display goroutine shutdown
	started      bool
	stopOnce     sync.Once
}

func NewManager(out, errOut io.Writer) *Manager {
	return &Manager{
		out:         out,
		errOut:      errOut,
		outputs:     make(map[string]*tracker),
		errors:      []errorReport{},
		doneCh:      make(chan struct{}),
		displayTick: 200 * time.Millisecond,
	}
}

func (m *Manager) SetUpdateInterval(interval time.Duration) {
	if interval > 0 {
		m.displayTick = interval
	}
}

func (m *Manager) Track(name string) Tracker {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.trackerCount++
	t := newTracker(uuid.NewString(), name, m.trackerCount)
	t.onTerminal = m.recordError
	m.outputs[t.id] = t
	return t
}

func (m *Manager) recordError(t *tracker) {
	state := t.Snapshot()
	if state.Status != utils.StatusFailed || target.IsDeviceFull(state.Err) {
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.errors = append(m.errors, errorReport{
		message: t.finalMessage(),
		time:    time.Now(),
	})
}

func (m *Manager) sortTrackers() (active, pending, completed []*tracker) {
	var all []*tracker
	for _, t := range m.outputs {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].index < all[j].index
	})
	for _, t := range all {
		switch t.state() {
		case utils.StatusPending:
			pending = append(pending, t)
		case utils.StatusRunning:
			active = append(active, t)
		default:
			completed = append(completed, t)
		}
	}
	return active, pending, completed
}

func (m *Manager) statusIndicator(t *tracker) string {
	switch t.state() {
	case utils.StatusComplete:
		return successStyle.Render(styleSymbols["pass"])
	case utils.StatusFailed:
		if target.IsDeviceFull(t.Snapshot().Err) {
			return warningStyle.Render(styleSymbols["warning"])
		}
		return errorStyle.Render(styleSymbols["fail"])
	case utils.StatusPending:
		return pendingStyle.Render(styleSymbols["pending"])
	default:
		return infoStyle.Render(spinnerFrames[m.frame%len(spinnerFrames)])
	}
}

func (m *Manager) render() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var b strings.Builder
	if m.numLines > 0 {
		fmt.Fprintf(&b, "\033[%dA\033[J", m.numLines)
	}
	width := getTerminalWidth(m.out) - basePadding - 12
	pad := strings.Repeat(" ", basePadding)
	lineCount := 0
	active, pending, completed := m.sortTrackers()

	for _, t := range active {
		elapsed := t.elapsed()
		written := t.bytes.Load()
		text := truncateText(progressText(t.name, written), width)
		fmt.Fprintf(&b, "%s%s %s %s %s %s\n", pad, m.statusIndicator(t),
			debugStyle.Render(elapsed.Round(time.Second).String()),
			pendingStyle.Render(text),
			styleSymbols["bullet"],
			streamStyle.Render(speedText(written, elapsed)))
		lineCount++
	}
	for _, t := range pending {
		fmt.Fprintf(&b, "%s%s %s %s\n", pad, m.statusIndicator(t),
			pendingStyle.Render("Waiting..."), streamStyle.Render(truncateText(t.name, width)))
		lineCount++
	}
	for _, t := range completed {
		state := t.Snapshot()
		text := truncateText(completedText(t.finalMessage(), state.BytesWritten), width)
		var styled string
		switch {
		case state.Status == utils.StatusComplete:
			styled = successStyle.Render(text)
		case target.IsDeviceFull(state.Err):
			styled = warningStyle.Render(text)
		default:
			styled = errorStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", pad, m.statusIndicator(t),
			debugStyle.Render(t.elapsed().Round(time.Second).String()), styled)
		lineCount++
	}
	m.numLines = lineCount
	return b.String()
}

// updateDisplay ignores write errors; a broken display must not affect the run.
func (m *Manager) updateDisplay() {
	frame := m.render()
	m.frame++
	_, _ = io.WriteString(m.out, frame)
}

func (m *Manager) Start() {
	m.started = true
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				m.ShowSummary()
				return
			}
		}
	}()
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.doneCh)
		if !m.started {
			m.updateDisplay()
			m.ShowSummary()
			return
		}
		m.displayWg.Wait() // Wait for goroutine to finish
	})
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat(" ", basePadding)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Fprintf(&b, "%s%s %s %s\n",
			strings.Repeat(" ", basePadding+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.time.Format("15:04:05"))),
			errorStyle.Render(err.message))
	}
	_, _ = io.WriteString(m.errOut, b.String())
}

func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	var complete, full, failures int
	for _, t := range m.outputs {
		state := t.Snapshot()
		switch {
		case state.Status == utils.StatusComplete:
			complete++
		case state.Status == utils.StatusFailed && target.IsDeviceFull(state.Err):
			full++
		case state.Status == utils.StatusFailed:
			failures++
		}
	}
	total := len(m.outputs)
	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, strings.Repeat(" ", basePadding)+successStyle.Render(fmt.Sprintf("Completed %d of %d", complete, total)))
	if full > 0 {
		fmt.Fprintln(&b, strings.Repeat(" ", basePadding)+warningStyle.Render(fmt.Sprintf("Device full %d of %d", full, total)))
	}
	if failures > 0 {
		fmt.Fprintln(&b, strings.Repeat(" ", basePadding)+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, total)))
	}
	_, _ = io.WriteString(m.out, b.String())
	m.displayErrors()
}
