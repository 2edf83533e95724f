// Package filesystem provides implementations of the types.FS
// interface: one backed by the OS filesystem for real runs, and an
// afero adapter so tests that don't need symlinks can run against an
// in-memory filesystem.
package filesystem
