// Package store holds the in-memory file tree passed through the build
// pipeline: an immutable mapping from relative path to file record.
package store

import "sort"

// File is the record for one source file: the front matter documents
// extracted from it (possibly empty) and its content bytes with the
// front matter stripped. File is a value type with no identity beyond
// the path it is stored under.
type File struct {
	Meta    []map[string]any
	Content []byte
}

// Store maps slash-separated, root-relative paths to File records.
//
// A Store value is immutable: Set, Delete, and Merge return a new Store
// and never modify the receiver. Versions share File values (including
// their Meta and Content backing), so callers must treat a File obtained
// from one Store as read-only and put a fresh File in its place instead
// of mutating it. The map layer is copied per update, which keeps the
// semantics simple for the tree sizes this engine targets.
type Store struct {
	files map[string]File
}

// New returns an empty store.
func New() Store {
	return Store{files: map[string]File{}}
}

// FromMap builds a store from a plain map. The map is copied, so the
// caller may keep modifying it afterwards.
func FromMap(files map[string]File) Store {
	m := make(map[string]File, len(files))
	for path, f := range files {
		m[path] = f
	}
	return Store{files: m}
}

// Get returns the record stored under path.
func (s Store) Get(path string) (File, bool) {
	f, ok := s.files[path]
	return f, ok
}

// Len returns the number of records.
func (s Store) Len() int { return len(s.files) }

// Paths returns all keys in sorted order.
func (s Store) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Range calls fn for every (path, record) pair in sorted path order,
// stopping early when fn returns false.
func (s Store) Range(fn func(path string, f File) bool) {
	for _, path := range s.Paths() {
		if !fn(path, s.files[path]) {
			return
		}
	}
}

// Set returns a new store with f inserted under path. The receiver is
// left unchanged.
func (s Store) Set(path string, f File) Store {
	m := s.clone(1)
	m[path] = f
	return Store{files: m}
}

// Delete returns a new store without path. The receiver is left
// unchanged.
func (s Store) Delete(path string) Store {
	m := s.clone(0)
	delete(m, path)
	return Store{files: m}
}

// Merge returns a new store combining the receiver with updates.
// Keys present in updates win; all other keys are carried through
// unchanged. This is the insert/update operation stages use to rewrite
// a subset of files while lazily preserving the rest.
func (s Store) Merge(updates Store) Store {
	m := s.clone(updates.Len())
	for path, f := range updates.files {
		m[path] = f
	}
	return Store{files: m}
}

func (s Store) clone(extra int) map[string]File {
	m := make(map[string]File, len(s.files)+extra)
	for path, f := range s.files {
		m[path] = f
	}
	return m
}
