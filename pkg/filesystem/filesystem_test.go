package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidots/aidots/pkg/filesystem"
)

func TestOSFS_SymlinkRoundTrip(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()

	source := filepath.Join(dir, "source")
	link := filepath.Join(dir, "link")
	require.NoError(t, fs.WriteFile(source, []byte("content"), 0644))
	require.NoError(t, fs.Symlink("source", link))

	dest, err := fs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "source", dest)

	info, err := fs.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	// Stat follows the link
	info, err = fs.Stat(link)
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&os.ModeSymlink)

	require.NoError(t, fs.Remove(link))
	_, err = fs.Lstat(link)
	assert.True(t, os.IsNotExist(err))
}

func TestOSFS_RenameAndReadDir(t *testing.T) {
	fs := filesystem.NewOS()
	dir := t.TempDir()

	require.NoError(t, fs.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, fs.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0644))
	require.NoError(t, fs.Rename(filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")))

	entries, err := fs.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.ElementsMatch(t, []string{"sub", "b.md"}, names)
}

func TestAferoFS_Basics(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fs.MkdirAll("/data/sub", 0755))
	require.NoError(t, fs.WriteFile("/data/file.txt", []byte("hello"), 0644))

	data, err := fs.ReadFile("/data/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// Reading a directory is rejected
	_, err = fs.ReadFile("/data/sub")
	require.Error(t, err)

	require.NoError(t, fs.Rename("/data/file.txt", "/data/renamed.txt"))
	_, err = fs.Stat("/data/file.txt")
	require.Error(t, err)

	entries, err := fs.ReadDir("/data")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAferoFS_SimulatedSymlinks(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())

	// MemMapFs has no native symlinks; the adapter simulates them so
	// symlink-free components can still be tested in memory.
	require.NoError(t, fs.Symlink("../shared/claude", "/project/.claude"))

	dest, err := fs.Readlink("/project/.claude")
	require.NoError(t, err)
	assert.Equal(t, "../shared/claude", dest)
}
