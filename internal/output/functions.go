package output

import (
	"fmt"
	"time"

	"github.com/tanq16/diskdestroyer/internal/utils"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// progressText is the body of a running target's line.
func progressText(name string, written int64) string {
	return fmt.Sprintf("%s: %s", name, utils.FormatBytes(uint64(written)))
}

func speedText(written int64, elapsed time.Duration) string {
	return utils.FormatSpeed(written, elapsed.Seconds())
}

func completedText(message string, written int64) string {
	return fmt.Sprintf("%s (%s)", message, utils.FormatBytes(uint64(written)))
}
