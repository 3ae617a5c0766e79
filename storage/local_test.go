package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestListFilesRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "b.jpg"), "b")
	writeFile(t, filepath.Join(tmpDir, "a.png"), "a")
	writeFile(t, filepath.Join(tmpDir, "sub", "d.gif"), "dd")

	files, err := NewLocalProvider().ListFiles(context.Background(), tmpDir, true)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, f.Path)
		assert.Equal(t, filepath.Join(tmpDir, f.Path), f.ID)
	}
	assert.Equal(t, []string{"a.png", "b.jpg", filepath.Join("sub", "d.gif")}, rel, "lexical order")
	assert.Equal(t, int64(2), files[2].Size)
	assert.Equal(t, "d.gif", files[2].Name)
}

func relPaths(files []FileInfo) []string {
	var rel []string
	for _, f := range files {
		rel = append(rel, f.Path)
	}
	return rel
}

func TestListFilesIncludesHiddenEntries(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.jpg"), "a")
	writeFile(t, filepath.Join(tmpDir, ".hidden.jpg"), "hidden")
	writeFile(t, filepath.Join(tmpDir, ".thumbs", "b.jpg"), "thumb")

	files, err := NewLocalProvider().ListFiles(context.Background(), tmpDir, true)
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden.jpg", filepath.Join(".thumbs", "b.jpg"), "a.jpg"}, relPaths(files))
}

func TestListFilesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "a.jpg")
	writeFile(t, target, "payload")
	writeFile(t, filepath.Join(tmpDir, "dir", "c.jpg"), "c")
	require.NoError(t, os.Symlink(target, filepath.Join(tmpDir, "link.jpg")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "dir"), filepath.Join(tmpDir, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone.jpg"), filepath.Join(tmpDir, "broken.jpg")))

	files, err := NewLocalProvider().ListFiles(context.Background(), tmpDir, true)
	assert.Equal(t, []string{"a.jpg", filepath.Join("dir", "c.jpg"), "link.jpg"}, relPaths(files),
		"file links listed, directory links not followed")
	assert.Equal(t, int64(len("payload")), files[2].Size)

	var listErr *ListError
	require.ErrorAs(t, err, &listErr)
	require.Len(t, listErr.Entries, 1)
	assert.Equal(t, filepath.Join(tmpDir, "broken.jpg"), listErr.Entries[0].Path)
	assert.ErrorIs(t, listErr.Entries[0].Err, os.ErrNotExist)
}

func TestListFilesUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.jpg"), "a")
	writeFile(t, filepath.Join(tmpDir, "locked", "b.jpg"), "b")
	writeFile(t, filepath.Join(tmpDir, "z.jpg"), "z")
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	files, err := NewLocalProvider().ListFiles(context.Background(), tmpDir, true)
	assert.Equal(t, []string{"a.jpg", "z.jpg"}, relPaths(files), "the rest of the tree is still listed")

	var listErr *ListError
	require.ErrorAs(t, err, &listErr)
	require.Len(t, listErr.Entries, 1)
	assert.Equal(t, locked, listErr.Entries[0].Path)
	assert.ErrorIs(t, listErr.Entries[0].Err, os.ErrPermission)
	assert.Contains(t, err.Error(), "cannot read "+locked)
}

func TestListFilesNonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "file1.jpg"), "content1")
	writeFile(t, filepath.Join(tmpDir, "subdir", "file2.jpg"), "content2")

	files, err := NewLocalProvider().ListFiles(context.Background(), tmpDir, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "file1.jpg", files[0].Name)
}

func TestListFilesCancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.jpg"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalProvider().ListFiles(ctx, tmpDir, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "photo.jpg")
	writeFile(t, file, "x")
	p := NewLocalProvider()
	ctx := context.Background()

	ok, err := p.Exists(ctx, tmpDir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Exists(ctx, filepath.Join(tmpDir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Exists(ctx, file)
	require.NoError(t, err)
	assert.True(t, ok)

	files, err := p.ListFiles(ctx, file, true)
	require.NoError(t, err)
	assert.Empty(t, files, "a file root lists nothing")
}

func TestOpenDeleteMove(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a.jpg")
	writeFile(t, src, "payload")
	p := NewLocalProvider()
	ctx := context.Background()

	r, err := p.OpenFile(ctx, src)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(data))

	target := filepath.Join(tmpDir, "moved", "a.jpg")
	require.NoError(t, p.MoveFile(ctx, src, target))
	assert.NoFileExists(t, src)
	assert.FileExists(t, target)

	require.NoError(t, p.DeleteFile(ctx, target))
	assert.NoFileExists(t, target)

	err = p.DeleteFile(ctx, target)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.OpenFile(ctx, target)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "local", p.Name())
	assert.NoError(t, p.Close())
}
