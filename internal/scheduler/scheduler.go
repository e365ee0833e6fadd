package scheduler

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/diskdestroyer/internal/output"
	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
	"github.com/tanq16/diskdestroyer/internal/worker"
)

// Run writes to every target in cfg and returns once all of them are terminal.
// Results keep the order of cfg.Targets.
func Run(cfg utils.Config, opener target.Opener, reporter output.Reporter) []worker.Result {
	return RunWith(NewPool(cfg.Threads), cfg, opener, reporter)
}

func RunWith(pool Executor, cfg utils.Config, opener target.Opener, reporter output.Reporter) []worker.Result {
	runID := uuid.NewString()
	log.Debug().Str("op", "scheduler/run").Str("run", runID).Int("targets", len(cfg.Targets)).
		Int("threads", cfg.Threads).Str("fill", cfg.Policy.String()).Int("blocksize", cfg.BlockSize).
		Msg("starting run")

	// every target is tracked up front so queued ones show as waiting
	workers := make([]*worker.Worker, len(cfg.Targets))
	for i, path := range cfg.Targets {
		workers[i] = &worker.Worker{
			ID:        uuid.NewString(),
			Path:      path,
			Policy:    cfg.Policy,
			BlockSize: cfg.BlockSize,
			RateLimit: cfg.RateLimit,
			Sync:      cfg.Sync,
			Opener:    opener,
			Tracker:   reporter.Track(path),
		}
	}

	reporter.Start()
	results := make([]worker.Result, len(workers))
	for i, w := range workers {
		pool.Submit(func() {
			results[i] = w.Run()
		})
	}
	pool.Join()
	reporter.Stop()

	var complete, failed int
	for _, res := range results {
		if res.State.Status == utils.StatusComplete {
			complete++
		} else {
			failed++
		}
	}
	log.Debug().Str("op", "scheduler/run").Str("run", runID).Int("complete", complete).Int("failed", failed).Msg("run finished")
	return results
}
