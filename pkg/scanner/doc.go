// Package scanner derives display metadata for one mod folder: a preview
// image, keybinds declared in the folder's ini files, a display name taken
// from a leading comment, and a default description.
//
// Scanning is best effort. A folder that cannot be read, or an ini file that
// cannot be parsed, degrades the record instead of failing the scan.
package scanner
