package types

import "io/fs"

// FS abstracts the filesystem operations the reconciler and session
// recorder need, so tests can substitute an in-memory implementation.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Removal and renames
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}
