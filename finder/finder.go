// Package finder runs a duplicate image scan end to end: it collects images
// under a set of roots, classifies exact and similar duplicates, reports them
// and, when asked to, removes them.
package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/luinbytes/imgdedup/detect"
	"github.com/luinbytes/imgdedup/fingerprint"
	"github.com/luinbytes/imgdedup/storage"
)

// Version is reported by the CLI and written into exported reports.
const Version = "1.0.0"

// DefaultThreshold is the default maximum Hamming distance for similar images.
const DefaultThreshold = 5

// ErrDirectoryNotFound is returned when a root does not exist. Nothing is
// scanned in that case.
var ErrDirectoryNotFound = errors.New("directory does not exist")

// Config holds the options of one scan.
type Config struct {
	Roots               []string
	Threshold           int
	Execute             bool // false means dry run
	HashAlgorithm       fingerprint.HashAlgorithm
	PerceptualAlgorithm fingerprint.PerceptualAlgorithm
	MoveTo              string // move duplicates here instead of deleting them
	Review              bool   // pick the files to remove in the TUI
	ExportPath          string // write a JSON report here
	NoEmoji             bool
	Verbose             bool
}

// Finder runs scans. It holds configuration only; all run state is local to Run.
type Finder struct {
	cfg      Config
	provider storage.Provider
	logger   *log.Logger
	out      io.Writer
	review   Reviewer
	bar      bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger replaces the default stdout logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

// WithOutput sets where the report and summary are written.
func WithOutput(w io.Writer) Option {
	return func(f *Finder) { f.out = w }
}

// WithReviewer replaces the interactive review used when Config.Review is set.
func WithReviewer(r Reviewer) Option {
	return func(f *Finder) { f.review = r }
}

// New validates cfg and returns a Finder reading through provider.
func New(cfg Config, provider storage.Provider, opts ...Option) (*Finder, error) {
	if len(cfg.Roots) == 0 {
		return nil, errors.New("no directories to scan")
	}
	if cfg.Threshold < 0 || cfg.Threshold > detect.MaxThreshold {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", detect.ErrThresholdOutOfRange, cfg.Threshold, detect.MaxThreshold)
	}
	if cfg.HashAlgorithm == "" {
		cfg.HashAlgorithm = fingerprint.DefaultHashAlgorithm
	}
	if cfg.PerceptualAlgorithm == "" {
		cfg.PerceptualAlgorithm = fingerprint.DefaultPerceptualAlgorithm
	}

	f := &Finder{
		cfg:      cfg,
		provider: provider,
		out:      os.Stdout,
		review:   runReview,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = NewLogger(f.out, cfg.Verbose)
	}
	f.bar = !cfg.Verbose && IsTerminal(f.out)
	return f, nil
}

// NewLogger returns the logger used for progress and warnings.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Summary counts what a run found and did.
type Summary struct {
	Scanned int  `json:"scanned"`
	Exact   int  `json:"exact_duplicates"`
	Similar int  `json:"similar_duplicates"`
	Skipped int  `json:"skipped"`
	Removed int  `json:"removed"`
	Failed  int  `json:"failed"`
	DryRun  bool `json:"dry_run"`

	RecoverableBytes int64 `json:"recoverable_bytes"`
}

// Total is the number of duplicates of either kind.
func (s Summary) Total() int {
	return s.Exact + s.Similar
}

// Result is everything a run produced.
type Result struct {
	Images  []string
	Exact   detect.ExactResult
	Similar detect.SimilarResult
	Summary Summary
}

// Duplicates lists exact duplicates followed by similar ones.
func (r *Result) Duplicates() []string {
	dups := make([]string, 0, len(r.Exact.Duplicates)+len(r.Similar.Duplicates))
	dups = append(dups, r.Exact.Duplicates...)
	return append(dups, r.Similar.DuplicateItems()...)
}

// CheckRoots fails with ErrDirectoryNotFound on the first root that does
// not exist.
func (f *Finder) CheckRoots(ctx context.Context) error {
	for _, root := range f.cfg.Roots {
		ok, err := f.provider.Exists(ctx, root)
		if err != nil {
			return fmt.Errorf("check directory %q: %w", root, err)
		}
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrDirectoryNotFound, root)
		}
	}
	return nil
}

// Run performs one scan.
func (f *Finder) Run(ctx context.Context) (*Result, error) {
	if err := f.CheckRoots(ctx); err != nil {
		return nil, err
	}
	startTime := time.Now()

	fmt.Fprintln(f.out, titleStyle.Render(f.emoji("🔍")+"Duplicate Image Eliminator v"+Version))
	fmt.Fprintln(f.out, strings.Repeat("=", 50))
	f.logConfig()

	images, infos, unreadable, err := f.scan(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Images:  images,
		Summary: Summary{Scanned: len(images), Skipped: unreadable, DryRun: !f.cfg.Execute},
	}
	if len(images) == 0 {
		f.logger.Info("No image files found.")
		return res, nil
	}

	open := f.opener(ctx)

	f.logger.Infof("%sFinding exact duplicates...", f.emoji("🔐"))
	res.Exact = detect.ClassifyExact(images, fingerprint.NewContent(f.cfg.HashAlgorithm, open))
	for _, s := range res.Exact.Skipped {
		f.logger.Warnf("%sError hashing %s", f.emoji("⚠️"), formatFileError(s.Item, s.Err))
	}
	for _, g := range res.Exact.Groups {
		f.logger.Infof("Exact duplicates found: [%s]", strings.Join(g.Items, ", "))
	}

	f.logger.Infof("%sFinding similar duplicates...", f.emoji("🖼️"))
	perceptual := fingerprint.NewPerceptual(f.cfg.PerceptualAlgorithm, open)
	res.Similar, err = detect.ClassifySimilar(res.Exact.Kept, f.cfg.Threshold, perceptual, f.progress())
	if err != nil {
		return nil, err
	}
	f.finishProgress(len(res.Exact.Kept))
	for _, s := range res.Similar.Skipped {
		f.logger.Debugf("Error processing image %s", formatFileError(s.Item, s.Err))
	}
	for _, m := range res.Similar.Duplicates {
		f.logger.Infof("Similar images found (diff: %d): %s <-> %s", m.Distance, m.Original, m.Item)
	}

	res.Summary.Exact = len(res.Exact.Duplicates)
	res.Summary.Similar = len(res.Similar.Duplicates)
	res.Summary.Skipped += len(res.Exact.Skipped) + len(res.Similar.Skipped)

	res.Summary.RecoverableBytes = recoverable(res.Duplicates(), infos)

	removed, failed, err := f.removeDuplicates(ctx, res, infos)
	res.Summary.Removed = removed
	res.Summary.Failed = failed
	if err != nil {
		return res, err
	}

	if f.cfg.ExportPath != "" {
		if err := exportReport(f.cfg.ExportPath, f.cfg, res); err != nil {
			f.logger.Warnf("%sFailed to export report: %v", f.emoji("⚠️"), err)
		} else {
			f.logger.Infof("%sReport exported to %s", f.emoji("📄"), f.cfg.ExportPath)
		}
	}

	f.printSummary(res.Summary)
	f.logger.Infof("%sComplete in %v", f.emoji("✅"), time.Since(startTime).Round(time.Millisecond))
	return res, nil
}

// scan lists supported images under every root, in root order and lexical
// order within a root. A path reachable from two roots is listed once.
// Entries that cannot be read are logged and counted in unreadable.
func (f *Finder) scan(ctx context.Context) (images []string, infos map[string]storage.FileInfo, unreadable int, err error) {
	infos = make(map[string]storage.FileInfo)

	for _, root := range f.cfg.Roots {
		f.logger.Infof("%sScanning directory: %s", f.emoji("📁"), root)

		files, err := f.provider.ListFiles(ctx, root, true)
		var listErr *storage.ListError
		if errors.As(err, &listErr) {
			for _, e := range listErr.Entries {
				f.logger.Warnf("%sCannot read %s", f.emoji("⚠️"), formatFileError(e.Path, e.Err))
			}
			unreadable += len(listErr.Entries)
		} else if err != nil {
			return nil, nil, 0, fmt.Errorf("scan %s: %w", root, err)
		}

		for _, file := range files {
			if !fingerprint.IsImageFile(file.Name) {
				f.logger.Debugf("%sSkipping non-image file: %s", f.emoji("🚫"), file.ID)
				continue
			}
			if _, seen := infos[file.ID]; seen {
				continue
			}
			infos[file.ID] = file
			images = append(images, file.ID)
		}
	}

	f.logger.Infof("%sFound %d image files", f.emoji("📊"), len(images))
	return images, infos, unreadable, nil
}

func (f *Finder) opener(ctx context.Context) fingerprint.Opener {
	return func(path string) (io.ReadCloser, error) {
		return f.provider.OpenFile(ctx, path)
	}
}

func (f *Finder) logConfig() {
	f.logger.Debug("configuration",
		"roots", f.cfg.Roots,
		"threshold", f.cfg.Threshold,
		"hash", f.cfg.HashAlgorithm,
		"perceptual", f.cfg.PerceptualAlgorithm,
		"execute", f.cfg.Execute,
		"move_to", f.cfg.MoveTo,
		"storage", f.provider.Name(),
	)
}

// emoji returns the emoji if NoEmoji is false, otherwise returns empty string
func (f *Finder) emoji(e string) string {
	if f.cfg.NoEmoji {
		return ""
	}
	return e + " "
}
