package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalProvider implements Provider for local filesystem
type LocalProvider struct{}

// NewLocalProvider creates a new local filesystem provider
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Exists reports whether path exists. A root that is a regular file exists
// and simply lists nothing.
func (p *LocalProvider) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListFiles lists regular files under root in lexical order. Symlinks to
// regular files are listed; symlinked directories are not followed.
// Entries that cannot be read are skipped and reported in a *ListError.
func (p *LocalProvider) ListFiles(ctx context.Context, root string, recursive bool) ([]FileInfo, error) {
	root = filepath.Clean(root)

	var (
		files      []FileInfo
		unreadable []EntryError
	)

	err := filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				return err
			}
			unreadable = append(unreadable, EntryError{Path: filePath, Err: err})
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Check context cancellation
		if err := ctx.Err(); err != nil {
			return err
		}

		if filePath == root {
			return nil
		}

		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		var info fs.FileInfo
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			info, err = os.Stat(filePath)
			if err != nil {
				unreadable = append(unreadable, EntryError{Path: filePath, Err: err})
				return nil
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		case d.Type().IsRegular():
			info, err = d.Info()
			if err != nil {
				unreadable = append(unreadable, EntryError{Path: filePath, Err: err})
				return nil
			}
		default:
			return nil
		}

		relPath, err := filepath.Rel(root, filePath)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, FileInfo{
			ID:      filePath,
			Name:    d.Name(),
			Path:    relPath,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(unreadable) > 0 {
		return files, &ListError{Root: root, Entries: unreadable}
	}
	return files, nil
}

// OpenFile opens a file for reading
func (p *LocalProvider) OpenFile(ctx context.Context, id string) (Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(id)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// DeleteFile deletes a file
func (p *LocalProvider) DeleteFile(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(id); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// MoveFile moves a file to a new location
func (p *LocalProvider) MoveFile(ctx context.Context, id string, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Ensure target directory exists
	targetDir := filepath.Dir(newPath)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	if err := os.Rename(id, newPath); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}

	return nil
}

// Name returns the provider name
func (p *LocalProvider) Name() string {
	return string(ProviderLocal)
}

// Close cleans up provider resources (no-op for local)
func (p *LocalProvider) Close() error {
	return nil
}

// Ensure LocalProvider implements Provider interface
var _ Provider = (*LocalProvider)(nil)
