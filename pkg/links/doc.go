// Package links holds the single-entry filesystem primitives modlink is
// built on: create, remove and inspect one symbolic link, and delete one
// entry of any kind.
//
// Every primitive works on the entry itself (Lstat, never Stat) so a link
// is never followed into the real mod folder it points at. Failures are
// returned as *errors.Error values; nothing here panics.
package links
