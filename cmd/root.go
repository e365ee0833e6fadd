package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/diskdestroyer/internal/output"
	"github.com/tanq16/diskdestroyer/internal/scheduler"
	"github.com/tanq16/diskdestroyer/internal/target"
	"github.com/tanq16/diskdestroyer/internal/utils"
)

var DestroyerVersion = "dev"

const plainInterval = 2 * time.Second

type options struct {
	zero        bool
	threads     int
	blockSize   int
	targetsFile string
	rateLimit   int64
	sync        bool
	progress    string
	debug       bool
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}
	cmd := &cobra.Command{
		Use:     "diskdestroyer [FILES...]",
		Short:   "Overwrite files and block devices until they refuse more data",
		Version: DestroyerVersion,
		Args:    cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			utils.InitLogger(opts.debug)
			cfg, err := resolveConfig(opts, args)
			if err != nil {
				output.PrintError(fmt.Sprintf("Error: %v", err))
				os.Exit(1)
			}
			reporter := newReporter(cfg.Progress, os.Stdout, os.Stderr)
			scheduler.Run(cfg, target.FileOpener{}, reporter)
		},
	}
	cmd.Flags().BoolVarP(&opts.zero, "zero", "z", false, "Write zeroes instead of random data")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 0, "Number of targets written in parallel (default: number of CPU cores)")
	cmd.Flags().IntVarP(&opts.blockSize, "blocksize", "b", utils.DefaultBlockSize, "Number of bytes written at a time")
	cmd.Flags().StringVarP(&opts.targetsFile, "targets", "l", "", "Path to YAML file listing targets")
	cmd.Flags().Int64VarP(&opts.rateLimit, "rate-limit", "r", 0, "Per-target write rate in bytes per second (0 for unlimited)")

	// flags without shorthand
	cmd.Flags().BoolVar(&opts.sync, "sync", false, "Flush each target to stable storage before closing it")
	cmd.Flags().StringVar(&opts.progress, "progress", string(utils.ProgressAuto), "Progress output: auto, plain or none")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return cmd, opts
}

func resolveConfig(opts *options, args []string) (utils.Config, error) {
	cfg := utils.Config{
		Policy:    utils.FillRandom,
		BlockSize: opts.blockSize,
		Threads:   opts.threads,
		RateLimit: opts.rateLimit,
		Sync:      opts.sync,
		Progress:  utils.ProgressMode(opts.progress),
		Debug:     opts.debug,
	}
	if opts.zero {
		cfg.Policy = utils.FillZero
	}
	if cfg.BlockSize < 1 {
		return cfg, utils.ErrInvalidBlockSize
	}
	if cfg.Threads < 0 {
		return cfg, fmt.Errorf("threads must not be negative, got %d", cfg.Threads)
	}
	if cfg.RateLimit < 0 {
		return cfg, fmt.Errorf("rate limit must not be negative, got %d", cfg.RateLimit)
	}
	switch cfg.Progress {
	case utils.ProgressAuto, utils.ProgressPlain, utils.ProgressNone:
	default:
		return cfg, fmt.Errorf("unknown progress mode %q", opts.progress)
	}

	targets := append([]string{}, args...)
	if opts.targetsFile != "" {
		listed, err := utils.ReadTargetList(opts.targetsFile)
		if err != nil {
			return cfg, err
		}
		targets = append(targets, listed...)
	}
	targets, dropped := utils.DedupeTargets(targets)
	for _, d := range dropped {
		log.Warn().Str("op", "cmd/config").Str("target", d).Msg("Duplicate target ignored")
	}
	if len(targets) == 0 {
		return cfg, utils.ErrNoTargets
	}
	cfg.Targets = targets
	return cfg, nil
}

// newReporter falls back to plain lines when out is not a terminal. The none
// mode still reports failures on errOut.
func newReporter(mode utils.ProgressMode, out, errOut io.Writer) output.Reporter {
	switch mode {
	case utils.ProgressNone:
		return output.NewPlain(io.Discard, errOut, 0)
	case utils.ProgressPlain:
		return output.NewPlain(out, errOut, plainInterval)
	}
	if output.IsTerminal(out) {
		return output.NewManager(out, errOut)
	}
	return output.NewPlain(out, errOut, plainInterval)
}

func Execute() {
	rootCmd, _ := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
