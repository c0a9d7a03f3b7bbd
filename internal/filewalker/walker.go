package filewalker

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"localize-collector/internal/diag"
	"localize-collector/internal/ignore"

	"github.com/rs/zerolog/log"
)

// Walker enumerates the files under a root directory, honoring ignore rules.
type Walker struct {
	root    string
	ignore  ignore.Matcher
	diag    *diag.Collector
	readDir func(string) ([]os.DirEntry, error)
	visited int
}

// NewWalker creates a Walker for root. A nil matcher accepts everything.
func NewWalker(root string, matcher ignore.Matcher, collector *diag.Collector) (*Walker, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	if matcher == nil {
		matcher = ignore.Compile(nil)
	}
	return &Walker{root: root, ignore: matcher, diag: collector, readDir: os.ReadDir}, nil
}

// Root returns the absolute scan root.
func (w *Walker) Root() string { return w.root }

// Visited returns the number of directories listed by the latest walk.
func (w *Walker) Visited() int { return w.visited }

// Walk yields file paths relative to the root, depth first in directory
// listing order. Every call starts a fresh traversal. Denied directories are
// never listed; a directory that cannot be listed is reported and its
// siblings are still visited.
//
// Symbolic links to directories are followed. A directory reached twice,
// through a link loop or an alias of a visited directory, is listed once.
func (w *Walker) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		w.visited = 0
		w.walk("", make(map[string]bool), yield)
	}
}

func (w *Walker) walk(dir string, seen map[string]bool, yield func(string) bool) bool {
	abs := filepath.Join(w.root, dir)
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		if seen[real] {
			log.Debug().Str("dir", displayPath(dir)).Str("target", real).Msg("Directory already visited, skipping")
			return true
		}
		seen[real] = true
	}

	entries, err := w.readDir(abs)
	if err != nil {
		w.diag.Report(diag.Entry{
			Kind:    diag.UnreadableDir,
			Path:    displayPath(dir),
			Message: "Failed to read directory",
			Err:     err,
		})
		return true
	}
	w.visited++

	for _, e := range entries {
		rel := filepath.Join(dir, e.Name())
		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			isDir = w.linksToDir(rel)
		}

		if w.ignore.Denies(rel, isDir) {
			continue
		}
		if isDir {
			if !w.walk(rel, seen, yield) {
				return false
			}
			continue
		}
		if !w.ignore.Accepts(rel) {
			continue
		}
		if !yield(rel) {
			return false
		}
	}
	return true
}

// linksToDir reports whether the link at rel resolves to a directory. A
// dangling link is handed on as a file so that reading it is reported.
func (w *Walker) linksToDir(rel string) bool {
	info, err := os.Stat(filepath.Join(w.root, rel))
	return err == nil && info.IsDir()
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return filepath.ToSlash(rel)
}
