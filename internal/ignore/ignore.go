// Package ignore evaluates gitignore rules for the tree walker.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const gitignoreFile = ".gitignore"

// Matcher decides which paths relative to the scan root take part in a walk.
type Matcher interface {
	// Denies reports whether path is excluded. A denied directory is never
	// descended into.
	Denies(path string, isDir bool) bool
	// Accepts reports whether a non-directory path is eligible.
	Accepts(path string) bool
}

// Rules is a Matcher backed by gitignore patterns. Later patterns take
// precedence over earlier ones.
type Rules struct {
	matcher  gitignore.Matcher
	patterns int
}

func newRules(patterns []gitignore.Pattern) *Rules {
	return &Rules{matcher: gitignore.NewMatcher(patterns), patterns: len(patterns)}
}

// Compile builds rules from gitignore-formatted lines scoped to the root.
// Blank lines and comments are skipped.
func Compile(lines []string) *Rules {
	return newRules(parse(lines))
}

// Load reads the ignore file name at the root of dir. A missing file yields
// empty rules that accept everything. With nested set, .gitignore files in
// subdirectories are read too, each scoped to its own directory.
func Load(dir, name string, nested bool) (*Rules, error) {
	var patterns []gitignore.Pattern
	if name != "" && !(nested && name == gitignoreFile) {
		lines, err := readLines(filepath.Join(dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Compile(nil), fmt.Errorf("read ignore file: %w", err)
		}
		patterns = parse(lines)
	}

	if nested {
		found, err := gitignore.ReadPatterns(osfs.New(dir), nil)
		if err != nil {
			return newRules(patterns), fmt.Errorf("read nested ignore files: %w", err)
		}
		patterns = append(patterns, found...)
	}

	return newRules(patterns), nil
}

// Len returns the number of compiled patterns.
func (r *Rules) Len() int { return r.patterns }

func (r *Rules) Denies(path string, isDir bool) bool {
	return r.matcher.Match(split(path), isDir)
}

func (r *Rules) Accepts(path string) bool {
	return !r.matcher.Match(split(path), false)
}

func split(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}

func parse(lines []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return lines, nil
}
