// Package worker drives a single target until the medium stops accepting
// data.
package worker

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/diskdestroyer/internal/output"
	"github.com/tanq16/diskdestroyer/internal/source"
	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
)

type WriteError struct {
	Path    string
	Written int64
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed after %s: %v", utils.FormatBytes(uint64(e.Written)), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type Worker struct {
	ID        string
	Path      string
	Policy    utils.FillPolicy
	BlockSize int
	RateLimit int64
	Sync      bool
	Opener    target.Opener
	Tracker   output.Tracker
}

type Result struct {
	ID       string
	Target   string
	State    utils.ProgressState
	Duration time.Duration
}

// Run blocks until the target reaches a terminal state. Every failure is
// confined to this target and reported through the tracker.
func (w *Worker) Run() Result {
	start := time.Now()
	state := w.run()
	return Result{
		ID:       w.ID,
		Target:   w.Path,
		State:    state,
		Duration: time.Since(start),
	}
}

func (w *Worker) run() utils.ProgressState {
	logger := log.With().Str("op", "worker/run").Str("target", w.Path).Str("id", w.ID).Logger()

	src, err := source.New(w.Policy, w.BlockSize)
	if err != nil {
		logger.Debug().Err(err).Msg("byte source unavailable")
		return w.fail(0, err)
	}
	h, err := w.Opener.Open(w.Path)
	if err != nil {
		logger.Debug().Err(err).Msg("open failed")
		return w.fail(0, err)
	}
	h = target.NewRateLimited(h, w.RateLimit, w.BlockSize)

	w.Tracker.Begin()
	logger.Debug().Str("fill", src.Policy().String()).Int("blocksize", src.Size()).Msg("writing")
	total, err := w.writeUntilFull(h, src)
	// the handle is released before the terminal state becomes visible
	w.close(h)
	if err != nil {
		logger.Debug().Err(err).Int64("written", total).Msg("write stopped")
		return w.fail(total, &WriteError{Path: w.Path, Written: total, Err: err})
	}
	logger.Debug().Int64("written", total).Msg("target accepted zero bytes")
	w.Tracker.Update(total)
	w.Tracker.Finish(fmt.Sprintf("%s: complete", w.Path))
	return utils.ProgressState{BytesWritten: total, Status: utils.StatusComplete}
}

// writeUntilFull returns a nil error only when the handle accepts zero bytes.
// Partial writes count toward the total and the loop carries on with a fresh
// block.
func (w *Worker) writeUntilFull(h target.Handle, src *source.ByteSource) (int64, error) {
	var total int64
	for {
		buf := src.Fill()
		n, err := h.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		if n < len(buf) {
			log.Debug().Str("op", "worker/write").Str("target", w.Path).
				Int("requested", len(buf)).Int("written", n).Msg("partial write")
		}
		w.Tracker.Update(total)
	}
}

func (w *Worker) fail(total int64, err error) utils.ProgressState {
	w.Tracker.Update(total)
	w.Tracker.Fail(err)
	return utils.ProgressState{BytesWritten: total, Status: utils.StatusFailed, Err: err}
}

func (w *Worker) close(h target.Handle) {
	if w.Sync {
		if err := target.Flush(h); err != nil {
			log.Debug().Str("op", "worker/close").Str("target", w.Path).Err(err).Msg("flush failed")
		}
	}
	if err := h.Close(); err != nil {
		log.Debug().Str("op", "worker/close").Str("target", w.Path).Err(err).Msg("close failed")
	}
}
