package finder

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luinbytes/imgdedup/storage"
	"github.com/luinbytes/imgdedup/tui"
)

// Reviewer lets a user choose which duplicates to remove. It returns the
// chosen paths.
type Reviewer func(groups []tui.Group) ([]string, error)

func runReview(groups []tui.Group) ([]string, error) {
	return tui.Run(groups)
}

// removeDuplicates lists the duplicates in dry run mode and deletes or moves
// them otherwise. A failure on one file is counted and does not stop the rest.
func (f *Finder) removeDuplicates(ctx context.Context, res *Result, infos map[string]storage.FileInfo) (removed, failed int, err error) {
	dups := res.Duplicates()
	if len(dups) == 0 {
		f.logger.Infof("%sNo duplicates to remove.", f.emoji("✨"))
		return 0, 0, nil
	}

	f.logger.Infof("%sFound %d duplicate files", f.emoji("👯"), len(dups))

	if !f.cfg.Execute {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, "DRY RUN MODE - Files that would be deleted:")
		for _, path := range dups {
			fmt.Fprintf(f.out, "  %s\n", path)
		}
		return 0, 0, nil
	}

	if f.cfg.Review {
		selected, err := f.review(reviewGroups(res, infos))
		if err != nil {
			return 0, 0, fmt.Errorf("review: %w", err)
		}
		dups = selected
		if len(dups) == 0 {
			f.logger.Infof("%sNo files selected. Nothing was removed.", f.emoji("❓"))
			return 0, 0, nil
		}
	}

	if f.cfg.MoveTo != "" {
		f.logger.Infof("%sMoving %d duplicate files to %s...", f.emoji("📦"), len(dups), f.cfg.MoveTo)
	} else {
		f.logger.Infof("%sRemoving %d duplicate files...", f.emoji("🗑️"), len(dups))
	}

	var freed int64
	for _, path := range dups {
		if err := ctx.Err(); err != nil {
			return removed, failed, err
		}

		if err := f.removeOne(ctx, path); err != nil {
			f.logger.Errorf("%sError removing %s", f.emoji("❌"), formatFileError(path, err))
			failed++
			continue
		}
		removed++
		freed += infos[path].Size
	}

	f.logger.Infof("%sSuccessfully removed %d duplicate files, freed %s", f.emoji("✅"), removed, formatBytes(freed))
	return removed, failed, nil
}

func (f *Finder) removeOne(ctx context.Context, path string) error {
	if f.cfg.MoveTo == "" {
		if err := f.provider.DeleteFile(ctx, path); err != nil {
			return err
		}
		f.logger.Infof("Removed: %s", path)
		return nil
	}

	target, err := uniqueTarget(ctx, f.provider, f.cfg.MoveTo, path)
	if err != nil {
		return err
	}
	if err := f.provider.MoveFile(ctx, path, target); err != nil {
		return err
	}
	f.logger.Infof("Moved: %s -> %s", path, target)
	return nil
}

// uniqueTarget returns dir/base(path), appending _1, _2, ... before the
// extension while provider reports that name as taken.
func uniqueTarget(ctx context.Context, provider storage.Provider, dir, path string) (string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	target := filepath.Join(dir, base)
	for counter := 1; ; counter++ {
		taken, err := provider.Exists(ctx, target)
		if err != nil {
			return "", fmt.Errorf("check move target %s: %w", target, err)
		}
		if !taken {
			return target, nil
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, counter, ext))
	}
}

// reviewGroups builds one review group per exact group and one per image
// that similar images matched. The kept file comes first, unselected.
func reviewGroups(res *Result, infos map[string]storage.FileInfo) []tui.Group {
	file := func(path string, distance int, kept bool) tui.File {
		info := infos[path]
		return tui.File{
			Path:     path,
			Size:     info.Size,
			ModTime:  info.ModTime.Format("2006-01-02"),
			Distance: distance,
			Kept:     kept,
			Selected: !kept,
		}
	}

	var groups []tui.Group
	for _, g := range res.Exact.Groups {
		group := tui.Group{Kind: tui.Exact, Fingerprint: g.Fingerprint}
		group.Files = append(group.Files, file(g.Kept(), 0, true))
		for _, dup := range g.Duplicates() {
			group.Files = append(group.Files, file(dup, 0, false))
		}
		groups = append(groups, group)
	}

	byOriginal := make(map[string]int)
	for _, m := range res.Similar.Duplicates {
		idx, ok := byOriginal[m.Original]
		if !ok {
			idx = len(groups)
			byOriginal[m.Original] = idx
			groups = append(groups, tui.Group{
				Kind:  tui.Similar,
				Files: []tui.File{file(m.Original, 0, true)},
			})
		}
		groups[idx].Files = append(groups[idx].Files, file(m.Item, m.Distance, false))
	}
	return groups
}
