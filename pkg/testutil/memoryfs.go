package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// maxLinkDepth bounds the links followed while resolving one path
const maxLinkDepth = 40

// MemoryFS implements types.FS with in-memory storage and per-operation
// error injection. Paths are absolute and slash separated.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	// errorPaths fail every operation on a path; opErrors fail one
	// operation ("symlink", "remove", ...) on a path
	errorPaths map[string]error
	opErrors   map[string]error
}

type fileNode struct {
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

// NewMemoryFS creates an empty filesystem containing only "/"
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		mode:     0755 | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}
	return &MemoryFS{
		files:      map[string]*fileNode{"/": root},
		errorPaths: make(map[string]error),
		opErrors:   make(map[string]error),
	}
}

// WithError makes every operation on path fail with err
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[clean(path)] = err
	return m
}

// FailOn makes a single operation on path fail with err. op is the lower
// case method name, e.g. "symlink" or "remove".
func (m *MemoryFS) FailOn(op, path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opErrors[op+":"+clean(path)] = err
	return m
}

func clean(path string) string {
	return filepath.Clean("/" + filepath.ToSlash(path))
}

func (m *MemoryFS) injected(op, path string) error {
	if err, ok := m.errorPaths[path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	if err, ok := m.opErrors[op+":"+path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

// walk resolves path one component at a time, following links in every
// component but the last. The last one is followed only when followLast is
// set. It returns the node and its real path.
func (m *MemoryFS) walk(op, path string, followLast bool) (*fileNode, string, error) {
	if err := m.injected(op, path); err != nil {
		return nil, path, err
	}

	remaining := components(path)
	current, node := "/", m.files["/"]
	hops := 0
	for len(remaining) > 0 {
		name := remaining[0]
		remaining = remaining[1:]
		if !node.isDir {
			return nil, path, &fs.PathError{Op: op, Path: path, Err: errors.New("not a directory")}
		}

		next := filepath.Join(current, name)
		child, ok := m.files[next]
		if !ok {
			return nil, path, &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
		}

		if child.isLink && (len(remaining) > 0 || followLast) {
			hops++
			if hops > maxLinkDepth {
				return nil, path, &fs.PathError{Op: op, Path: path, Err: errors.New("too many levels of symbolic links")}
			}
			target := child.linkDest
			if !filepath.IsAbs(target) {
				target = filepath.Join(current, target)
			}
			remaining = append(components(target), remaining...)
			current, node = "/", m.files["/"]
			continue
		}
		current, node = next, child
	}
	return node, current, nil
}

func components(path string) []string {
	var parts []string
	for _, part := range strings.Split(clean(path), "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// lookup returns the node at path without following a final symlink
func (m *MemoryFS) lookup(op, path string) (*fileNode, string, error) {
	return m.walk(op, path, false)
}

// resolve returns the node at path with every symlink followed
func (m *MemoryFS) resolve(op, path string) (*fileNode, string, error) {
	return m.walk(op, path, true)
}

// parentOf resolves the directory holding path and returns it with the real
// path the new entry should be stored under
func (m *MemoryFS) parentOf(op, path string) (*fileNode, string, error) {
	parent, dir, err := m.resolve(op, filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	if !parent.isDir {
		return nil, "", &fs.PathError{Op: op, Path: path, Err: errors.New("not a directory")}
	}
	return parent, filepath.Join(dir, filepath.Base(path)), nil
}

// ReadFile reads the entire file content, following symlinks
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := clean(name)
	node, _, err := m.resolve("readfile", path)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	return append([]byte(nil), node.content...), nil
}

// WriteFile writes data to a file, through a link if name is one. The parent
// directory must exist.
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := clean(name)
	if err := m.injected("writefile", path); err != nil {
		return err
	}
	parent, key, err := m.parentOf("writefile", path)
	if err != nil {
		return err
	}

	existing := parent.children[filepath.Base(key)]
	if existing != nil && existing.isLink {
		if target, _, err := m.resolve("writefile", key); err == nil {
			existing = target
		}
	}
	if existing != nil && existing.isDir {
		return &fs.PathError{Op: "writefile", Path: path, Err: errors.New("is a directory")}
	}
	if existing != nil && !existing.isLink {
		existing.content = append([]byte(nil), data...)
		existing.modTime = time.Now()
		return nil
	}

	node := &fileNode{
		mode:    perm,
		modTime: time.Now(),
		content: append([]byte(nil), data...),
	}
	parent.children[filepath.Base(key)] = node
	m.files[key] = node
	return nil
}

// Rename moves a file, link or directory
func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to := clean(oldpath), clean(newpath)
	node, fromKey, err := m.lookup("rename", from)
	if err != nil {
		return err
	}
	if err := m.injected("rename", to); err != nil {
		return err
	}
	newParent, toKey, err := m.parentOf("rename", to)
	if err != nil {
		return err
	}
	oldParent := m.files[filepath.Dir(fromKey)]

	delete(oldParent.children, filepath.Base(fromKey))
	newParent.children[filepath.Base(toKey)] = node

	moved := make(map[string]*fileNode)
	for p, n := range m.files {
		if p == fromKey || strings.HasPrefix(p, fromKey+"/") {
			delete(m.files, p)
			moved[toKey+strings.TrimPrefix(p, fromKey)] = n
		}
	}
	for p, n := range moved {
		m.files[p] = n
	}
	return nil
}

// Stat returns file info, following symlinks
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := clean(name)
	node, _, err := m.resolve("stat", path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(path)}, nil
}

// Lstat returns file info without following a final symlink
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := clean(name)
	node, _, err := m.lookup("lstat", path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(path)}, nil
}

// Remove removes a file, a link or an empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := clean(name)
	node, key, err := m.lookup("remove", path)
	if err != nil {
		return err
	}
	if key == "/" {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrPermission}
	}
	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: path, Err: errors.New("directory not empty")}
	}
	delete(m.files[filepath.Dir(key)].children, filepath.Base(key))
	delete(m.files, key)
	return nil
}

// RemoveAll removes path and everything below it. Links are removed, not
// followed. A missing path is not an error.
func (m *MemoryFS) RemoveAll(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := clean(name)
	if err := m.injected("removeall", path); err != nil {
		return err
	}
	parent, key, err := m.parentOf("removeall", path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for p := range m.files {
		if p == key || strings.HasPrefix(p, key+"/") {
			delete(m.files, p)
		}
	}
	delete(parent.children, filepath.Base(key))
	return nil
}

// MkdirAll creates a directory and all missing parents, following links to
// directories along the way
func (m *MemoryFS) MkdirAll(name string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := clean(name)
	current := "/"
	node := m.files["/"]
	for _, part := range components(path) {
		next := filepath.Join(current, part)
		if err := m.injected("mkdir", next); err != nil {
			return err
		}

		child, ok := node.children[part]
		if ok && child.isLink {
			target, resolved, err := m.resolve("mkdir", next)
			if err != nil {
				return err
			}
			child, next = target, resolved
		}
		switch {
		case child == nil:
			child = &fileNode{
				mode:     perm | os.ModeDir,
				modTime:  time.Now(),
				isDir:    true,
				children: make(map[string]*fileNode),
			}
			node.children[part] = child
			m.files[next] = child
		case !child.isDir:
			return &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
		}
		node, current = child, next
	}
	return nil
}

// Readlink returns the destination of a symbolic link
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := clean(name)
	node, _, err := m.lookup("readlink", path)
	if err != nil {
		return "", err
	}
	if !node.isLink {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: errors.New("not a symbolic link")}
	}
	return node.linkDest, nil
}

// Symlink creates link pointing at target. The target need not exist.
func (m *MemoryFS) Symlink(target, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := clean(link)
	if err := m.injected("symlink", path); err != nil {
		return err
	}
	parent, key, err := m.parentOf("symlink", path)
	if err != nil {
		return err
	}
	if _, exists := parent.children[filepath.Base(key)]; exists {
		return &fs.PathError{Op: "symlink", Path: path, Err: fs.ErrExist}
	}

	node := &fileNode{
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: target,
	}
	parent.children[filepath.Base(key)] = node
	m.files[key] = node
	return nil
}

// ReadDir lists a directory sorted by name, following a linked directory
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	path := clean(name)
	node, _, err := m.resolve("readdir", path)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: errors.New("not a directory")}
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{info: &fileInfo{node: child, name: childName}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// fileInfo implements fs.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry from the unresolved node, like os.ReadDir
type dirEntry struct {
	info *fileInfo
}

func (de *dirEntry) Name() string               { return de.info.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (fs.FileInfo, error) { return de.info, nil }
