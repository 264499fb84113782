// Package walker enumerates the regular files under a source root,
// applying ignore-list filtering. It is the directory walk provider the
// build engine consumes: the engine only ever sees an already-filtered
// list of absolute paths.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Walk returns the absolute paths of all regular files reachable by
// recursive descent under root, sorted. Directories are never returned.
// Ignore entries are root-relative, slash-separated paths; an entry
// excludes the exact file and, for directories, the whole subtree.
func Walk(root string, ignores []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && ignored(rel, ignores) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ignored(rel, ignores) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func ignored(rel string, ignores []string) bool {
	for _, ig := range ignores {
		ig = strings.Trim(filepath.ToSlash(ig), "/")
		if ig == "" {
			continue
		}
		if rel == ig || strings.HasPrefix(rel, ig+"/") {
			return true
		}
	}
	return false
}
