package terminal

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureStderr collects everything f writes to stderr.
func captureStderr(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestLog_TagMessageAndNewline(t *testing.T) {
	WithColorsDisabled(func() {
		logger := &Logger{isTTY: false}
		out := captureStderr(t, func() {
			logger.Log("fetching files", StyleInfo)
		})

		if !strings.Contains(out, "[review]") {
			t.Errorf("missing tag in output: %q", out)
		}
		if !strings.Contains(out, "fetching files") {
			t.Errorf("missing message in output: %q", out)
		}
		if !strings.HasSuffix(out, "\n") {
			t.Errorf("output should end with newline: %q", out)
		}
	})
}

func TestLog_EveryStyleRenders(t *testing.T) {
	styles := []Style{StyleInfo, StyleSuccess, StyleWarning, StyleError, StyleDim, StylePhase}

	WithColorsDisabled(func() {
		for _, style := range styles {
			logger := &Logger{isTTY: false}
			out := captureStderr(t, func() {
				logger.Log("msg", style)
			})
			if !strings.Contains(out, "[review] msg") {
				t.Errorf("style %s: got %q", style, out)
			}
		}
	})
}

func TestLogf_Formats(t *testing.T) {
	WithColorsDisabled(func() {
		logger := &Logger{isTTY: false}
		out := captureStderr(t, func() {
			logger.Logf(StyleInfo, "PR #%d: %s", 42, "title")
		})
		if !strings.Contains(out, "PR #42: title") {
			t.Errorf("missing formatted message: %q", out)
		}
	})
}

func TestLog_ColorsIncludeEscapes(t *testing.T) {
	logger := &Logger{isTTY: false}
	out := captureStderr(t, func() {
		logger.Log("done", StyleSuccess)
	})
	if !strings.Contains(out, "\033[") {
		t.Errorf("expected ANSI escapes in colored output: %q", out)
	}
}

func TestLog_TTYClearsSpinnerLine(t *testing.T) {
	WithColorsDisabled(func() {
		logger := &Logger{isTTY: true}
		out := captureStderr(t, func() {
			logger.Log("msg", StyleInfo)
		})
		if !strings.Contains(out, "\r") {
			t.Errorf("TTY logger should clear the current line: %q", out)
		}
	})
}
