// Package filesystem provides filesystem implementations for modlink.
//
// This package contains the OS implementation of the types.FS interface.
// Symlinks are native, so tests run against real temporary directories.
package filesystem
