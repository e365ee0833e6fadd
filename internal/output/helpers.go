package output

import (
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// IsTerminal reports whether w is attached to a terminal that can take cursor
// movement.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}

// truncateText keeps a redrawn line on a single terminal row.
func truncateText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		maxWidth = 80
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxWidth-1]) + "…"
}
