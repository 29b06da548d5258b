// Package testutil provides fixtures for testing modlink components.
//
// Key components:
//   - ModRepo: a mods repository and active-links root in a temp dir
//   - MemoryFS: an in-memory types.FS with per-operation error injection
//
// Engine and CLI tests use ModRepo on the real filesystem since links are
// native. MemoryFS is for failures that are hard to provoke on disk, such
// as a permission error on one link.
package testutil
