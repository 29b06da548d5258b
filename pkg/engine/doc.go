// Package engine owns the activation state of mods.
//
// A Manager works between two roots: the repository root, where every mod is
// a folder, and the active-links root, which the mod loader watches. A mod is
// active exactly when a symbolic link named after it exists directly under the
// active-links root. That state is never cached; every query inspects the
// filesystem again, so links created or removed by other programs are picked
// up on the next call.
//
// The Manager is the only writer of the active-links root. It creates and
// removes links through pkg/links and never deletes anything under the
// repository root.
package engine
