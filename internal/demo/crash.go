package demo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/x/ansi"
)

const crashLogRelPath = "fastoverlay/crash.log"

// crashLogPath returns the state file the demo writes render failures to.
func crashLogPath() string {
	path, err := xdg.StateFile(crashLogRelPath)
	if err != nil {
		return filepath.Join(os.TempDir(), "fastoverlay-crash.log")
	}
	return path
}

func writeCrashLog(path, data string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create crash log dir: %w", err)
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

// formatCrashLog dumps every rendered line with its visible width.
func formatCrashLog(reason string, width int, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crash at %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Terminal width: %d\n", width)
	fmt.Fprintf(&b, "Reason: %s\n\n", reason)
	b.WriteString("=== All rendered lines ===\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "[%d] (w=%d) %s\n", i, ansi.StringWidth(l), l)
	}
	return b.String()
}

// clampWidth truncates lines wider than width. The first time it has to,
// the offending frame is written to the crash log.
func (m *Model) clampWidth(view string) string {
	lines := strings.Split(view, "\n")
	over := -1
	for i, l := range lines {
		if ansi.StringWidth(l) > m.width {
			if over == -1 {
				over = i
			}
			lines[i] = ansi.Truncate(l, m.width, "")
		}
	}
	if over != -1 && !m.crashReported {
		m.crashReported = true
		reason := fmt.Sprintf("rendered line %d exceeds terminal width", over)
		path := crashLogPath()
		if err := writeCrashLog(path, formatCrashLog(reason, m.width, strings.Split(view, "\n"))); err != nil {
			m.logger.Error("write crash log", "err", err)
		} else {
			m.logger.Warn(reason, "log", path)
		}
	}
	return strings.Join(lines, "\n")
}

// recoverView writes a crash log for a panic during rendering and re-panics.
func (m *Model) recoverView() {
	r := recover()
	if r == nil {
		return
	}
	path := crashLogPath()
	if err := writeCrashLog(path, formatCrashLog(fmt.Sprint(r), m.width, m.lastFrame)); err != nil {
		m.logger.Error("write crash log", "err", err)
	}
	panic(r)
}
