package terminal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// MaxReportWidth caps report rendering even on very wide terminals.
const MaxReportWidth = 90

// ReportWidth returns the width reports render at: the terminal width
// capped at MaxReportWidth, or 80 when detection fails.
func ReportWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return min(width, MaxReportWidth)
}

// FormatDuration renders an elapsed time as "12.3s" or "2m 45.5s".
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs) / 60
	return fmt.Sprintf("%dm %.1fs", mins, secs-float64(mins*60))
}

// Ruler returns a dimmed horizontal rule of the given width.
func Ruler(width int, char string) string {
	return Color(Dim) + strings.Repeat(char, width) + Color(Reset)
}

// WrapText greedily wraps text at word boundaries, prefixing every line
// with indent. A word longer than the width gets a line to itself rather
// than being split.
func WrapText(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if width <= len(indent) {
		return indent + text
	}

	var out strings.Builder
	line := indent + words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			out.WriteString(line)
			out.WriteString("\n")
			line = indent + word
		} else {
			line += " " + word
		}
	}
	out.WriteString(line)
	return out.String()
}
