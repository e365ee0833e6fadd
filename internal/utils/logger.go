package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// InitLogger sends logs to stderr so they never mix with the progress area on
// stdout. Colors are dropped when stderr is redirected.
func InitLogger(debug bool) {
	initLogger(os.Stderr, debug, !term.IsTerminal(int(os.Stderr.Fd())))
}

func initLogger(w io.Writer, debug, noColor bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Str("tool", ToolName).Logger()
}

func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
