// Package render draws the monitor's terminal output: live tables,
// process trees, sparklines, and the final session summary.
package render

import (
	"os"

	"golang.org/x/term"
)

// ANSI palette.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 120

// TerminalWidth returns the current terminal width, or DefaultWidth
// when stdout is not a tty.
func TerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// usageColor picks a color by how close a value is to its threshold.
// A zero threshold means unconfigured; everything renders green.
func usageColor(value, threshold float64) string {
	if threshold <= 0 {
		return green
	}
	switch {
	case value > threshold:
		return red
	case value > threshold*0.8:
		return yellow
	default:
		return green
	}
}
