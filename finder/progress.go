package finder

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/luinbytes/imgdedup/detect"
)

const barWidth = 30

var (
	filledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Background(lipgloss.Color("#7D56F4"))
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3c3c3c")).
			Background(lipgloss.Color("#3c3c3c"))
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progress returns the callback for the similar phase. On a terminal it
// redraws a bar in place, otherwise it logs a line per update.
func (f *Finder) progress() detect.Progress {
	startTime := time.Now()
	return func(current, total int) {
		if !f.bar {
			f.logger.Infof("Processing image %d/%d", current, total)
			return
		}
		fmt.Fprintf(f.out, "\r%s%s", f.emoji("🖼️"), renderBar(current, total, time.Since(startTime)))
	}
}

func (f *Finder) finishProgress(total int) {
	if !f.bar || total == 0 {
		return
	}
	fmt.Fprintf(f.out, "\r%s%s\n", f.emoji("✅"), renderBar(total, total, 0))
}

// renderBar draws a fixed-width bar with counts and an ETA derived from the
// time spent so far.
func renderBar(current, total int, elapsed time.Duration) string {
	if total <= 0 {
		return ""
	}
	percentage := float64(current) / float64(total)
	filled := int(percentage * barWidth)
	if filled > barWidth {
		filled = barWidth
	}

	var bar strings.Builder
	bar.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(emptyStyle.Render(strings.Repeat("░", barWidth-filled)))

	eta := "..."
	if current >= total {
		eta = "done"
	} else if current > 0 && elapsed > 0 {
		etaSeconds := float64(total-current) * (elapsed.Seconds() / float64(current))
		eta = formatDuration(etaSeconds)
	}

	return fmt.Sprintf("%s %d/%d (%.1f%%) ETA: %s", bar.String(), current, total, percentage*100, eta)
}

// formatDuration converts seconds to a human-readable duration
func formatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	}
	minutes := int(seconds / 60)
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, int(seconds)%60)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
