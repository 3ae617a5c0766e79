package finder

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luinbytes/imgdedup/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 2)
)

// Report is the exported record of a run.
type Report struct {
	Version             string        `json:"version"`
	Timestamp           time.Time     `json:"timestamp"`
	Roots               []string      `json:"roots"`
	Threshold           int           `json:"threshold"`
	HashAlgorithm       string        `json:"hash_algorithm"`
	PerceptualAlgorithm string        `json:"perceptual_algorithm"`
	ExactGroups         []ReportGroup `json:"exact_groups"`
	SimilarMatches      []ReportMatch `json:"similar_matches"`
	Summary             Summary       `json:"summary"`
}

// ReportGroup is one set of byte-identical images.
type ReportGroup struct {
	Fingerprint string   `json:"fingerprint"`
	Kept        string   `json:"kept"`
	Duplicates  []string `json:"duplicates"`
}

// ReportMatch is one image judged similar to an earlier one.
type ReportMatch struct {
	Item     string `json:"item"`
	Original string `json:"original"`
	Distance int    `json:"distance"`
}

func newReport(cfg Config, res *Result) Report {
	report := Report{
		Version:             Version,
		Timestamp:           time.Now(),
		Roots:               cfg.Roots,
		Threshold:           cfg.Threshold,
		HashAlgorithm:       string(cfg.HashAlgorithm),
		PerceptualAlgorithm: string(cfg.PerceptualAlgorithm),
		ExactGroups:         make([]ReportGroup, 0, len(res.Exact.Groups)),
		SimilarMatches:      make([]ReportMatch, 0, len(res.Similar.Duplicates)),
		Summary:             res.Summary,
	}
	for _, g := range res.Exact.Groups {
		report.ExactGroups = append(report.ExactGroups, ReportGroup{
			Fingerprint: g.Fingerprint,
			Kept:        g.Kept(),
			Duplicates:  g.Duplicates(),
		})
	}
	for _, m := range res.Similar.Duplicates {
		report.SimilarMatches = append(report.SimilarMatches, ReportMatch{
			Item:     m.Item,
			Original: m.Original,
			Distance: m.Distance,
		})
	}
	return report
}

// exportReport writes CSV when path ends in .csv and indented JSON otherwise.
func exportReport(path string, cfg Config, res *Result) error {
	report := newReport(cfg, res)

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return exportCSV(path, report)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func exportCSV(path string, report Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"kind", "path", "original", "distance", "fingerprint"}); err != nil {
		return err
	}
	for _, g := range report.ExactGroups {
		for _, dup := range g.Duplicates {
			if err := w.Write([]string{"exact", dup, g.Kept, "0", g.Fingerprint}); err != nil {
				return err
			}
		}
	}
	for _, m := range report.SimilarMatches {
		if err := w.Write([]string{"similar", m.Item, m.Original, strconv.Itoa(m.Distance), ""}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// recoverable sums the sizes of paths that infos knows about.
func recoverable(paths []string, infos map[string]storage.FileInfo) int64 {
	var total int64
	for _, p := range paths {
		total += infos[p].Size
	}
	return total
}

func (f *Finder) printSummary(s Summary) {
	row := func(label string, value any) string {
		return labelStyle.Render(fmt.Sprintf("%-26s", label+":")) + valueStyle.Render(fmt.Sprint(value))
	}

	lines := []string{
		titleStyle.Render(f.emoji("📊") + "Summary"),
		row("Total images scanned", s.Scanned),
		row("Exact duplicates found", s.Exact),
		row("Similar duplicates found", s.Similar),
		row("Total duplicates", s.Total()),
		row("Space recoverable", formatBytes(s.RecoverableBytes)),
	}
	if s.Skipped > 0 {
		lines = append(lines, row("Skipped", s.Skipped))
	}
	if s.DryRun {
		if s.Total() > 0 {
			lines = append(lines, "", labelStyle.Render("Run with --execute to remove duplicates."))
		}
	} else {
		lines = append(lines, row("Removed", s.Removed))
		if s.Failed > 0 {
			lines = append(lines, row("Failed", s.Failed))
		}
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, summaryStyle.Render(strings.Join(lines, "\n")))
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatFileError provides user-friendly error messages for common file issues
func formatFileError(path string, err error) string {
	errStr := err.Error()

	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("%s: Permission denied. Check file ownership.", path)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("%s: File not found. It may have been deleted or moved.", path)
	case strings.Contains(errStr, "too many open files"):
		return fmt.Sprintf("%s: System limit reached. Increase ulimit.", path)
	case strings.Contains(errStr, "input/output error") || strings.Contains(errStr, "I/O error"):
		return fmt.Sprintf("%s: I/O error. The disk may be failing or the file is corrupted.", path)
	case strings.Contains(errStr, "is a directory"):
		return fmt.Sprintf("%s: Expected a file but found a directory.", path)
	case strings.Contains(errStr, "image: unknown format"):
		return fmt.Sprintf("%s: Not a decodable image.", path)
	default:
		return fmt.Sprintf("%s: %v", path, err)
	}
}
