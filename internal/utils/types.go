package utils

import "fmt"

type FillPolicy int

const (
	FillRandom FillPolicy = iota
	FillZero
)

func (p FillPolicy) String() string {
	if p == FillZero {
		return "zero"
	}
	return "random"
}

type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusFailed
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	case StatusComplete:
		return "complete"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	return s == StatusFailed || s == StatusComplete
}

// ProgressState is a point-in-time view of one target's run.
type ProgressState struct {
	BytesWritten int64
	Status       Status
	Err          error
}

type ProgressMode string

const (
	ProgressAuto  ProgressMode = "auto"
	ProgressPlain ProgressMode = "plain"
	ProgressNone  ProgressMode = "none"
)

type Config struct {
	Targets   []string
	Policy    FillPolicy
	BlockSize int
	Threads   int
	RateLimit int64 // bytes per second per target, 0 disables throttling
	Sync      bool
	Progress  ProgressMode
	Debug     bool
}

type TargetEntry struct {
	Path string `yaml:"path"`
}

type TargetList struct {
	Targets []TargetEntry `yaml:"targets"`
}
