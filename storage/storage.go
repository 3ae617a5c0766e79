// Package storage abstracts where scanned images live and how duplicates are
// removed from there.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// FileInfo represents a file from any storage provider
type FileInfo struct {
	ID      string    // Provider-specific ID (for local: the path as walked)
	Name    string    // File name
	Path    string    // Path relative to the listed root
	Size    int64     // File size in bytes
	ModTime time.Time // Last modified time
}

// EntryError is one entry a listing could not read.
type EntryError struct {
	Path string
	Err  error
}

// ListError is returned by ListFiles alongside the files it did list when
// some entries under the root could not be read.
type ListError struct {
	Root    string
	Entries []EntryError
}

func (e *ListError) Error() string {
	if len(e.Entries) == 1 {
		return fmt.Sprintf("%s: cannot read %s: %v", e.Root, e.Entries[0].Path, e.Entries[0].Err)
	}
	return fmt.Sprintf("%s: cannot read %d entries", e.Root, len(e.Entries))
}

// Reader provides read access to a file
type Reader interface {
	io.ReadCloser
}

// Provider defines the interface for storage providers
type Provider interface {
	// Exists reports whether path exists
	Exists(ctx context.Context, path string) (bool, error)

	// ListFiles lists the regular files under root (optionally recursive).
	// Unreadable entries do not stop the listing: they are reported in a
	// *ListError returned together with the files that were listed.
	ListFiles(ctx context.Context, root string, recursive bool) ([]FileInfo, error)

	// OpenFile opens a file for reading
	OpenFile(ctx context.Context, id string) (Reader, error)

	// DeleteFile deletes a file
	DeleteFile(ctx context.Context, id string) error

	// MoveFile moves a file to a new location
	MoveFile(ctx context.Context, id string, newPath string) error

	// Name returns the provider name
	Name() string

	// Close cleans up provider resources
	Close() error
}

// ProviderType represents the type of storage provider
type ProviderType string

const (
	ProviderLocal ProviderType = "local"
)
