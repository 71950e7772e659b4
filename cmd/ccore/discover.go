package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// discoverFiles expands each of args into a sorted, de-duplicated list of
// plain file paths: a path naming an existing file passes through
// unchanged, a directory is walked recursively for *.c/*.h, and anything
// else is treated as a doublestar glob pattern. Grounded on
// core/filewalker.go's matchPattern (doublestar.PathMatch against the full
// path, falling back to a basename match for patterns with no '/'), though
// single-threaded: this driver's file counts don't warrant filewalker's
// worker-pool traversal.
func discoverFiles(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			if walkErr := filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if isCSource(path) {
					add(path)
				}
				return nil
			}); walkErr != nil {
				return nil, walkErr
			}
		case err == nil:
			add(arg)
		default:
			matches, globErr := expandGlob(arg)
			if globErr != nil {
				return nil, globErr
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func isCSource(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".c" || ext == ".h"
}

// expandGlob matches pattern against the current directory tree with one
// doublestar glob: a pattern containing a path separator is used as given,
// and one without is prefixed with "**/" so it matches by basename at any
// depth.
func expandGlob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}
	return doublestar.FilepathGlob(pattern)
}
