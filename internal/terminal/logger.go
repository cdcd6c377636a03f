package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Style selects the color the log tag is rendered in.
type Style string

const (
	StyleInfo    Style = "info"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
	StyleDim     Style = "dim"
	StylePhase   Style = "phase"
)

var styleColors = map[Style]string{
	StyleInfo:    Cyan,
	StyleSuccess: Green,
	StyleWarning: Yellow,
	StyleError:   Red,
	StyleDim:     Dim,
	StylePhase:   Magenta + Bold,
}

// Logger writes tagged progress lines to stderr.
type Logger struct {
	isTTY bool
}

// NewLogger creates a logger that clears spinner output when stderr is a TTY.
func NewLogger() *Logger {
	return &Logger{isTTY: IsStderrTTY()}
}

// Log writes a single tagged line to stderr.
func (l *Logger) Log(msg string, style Style) {
	color, ok := styleColors[style]
	if !ok {
		color = Cyan
	}

	// A running spinner owns the current line; wipe it first.
	if l.isTTY {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", 100)+"\r")
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", tag(color), msg)
}

// Logf is Log with Printf formatting.
func (l *Logger) Logf(style Style, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...), style)
}

// tag renders the "[review]" prefix with the name in the given color.
func tag(color string) string {
	return fmt.Sprintf("%s[%s%sreview%s%s]%s",
		Color(Dim), Color(Reset), Color(color), Color(Reset), Color(Dim), Color(Reset))
}
