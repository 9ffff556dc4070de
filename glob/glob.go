// Package glob matches file names against glob patterns.
package glob

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

type Glob interface {
	Match(name string) bool
	Pattern() string
}

type globber struct {
	pattern string
	glob    glob.Glob
}

func MustCompile(pattern string, separators ...rune) Glob {
	return &globber{pattern: pattern, glob: glob.MustCompile(pattern, separators...)}
}

func Compile(pattern string, separators ...rune) (Glob, error) {
	g, err := glob.Compile(pattern, separators...)
	if err != nil {
		return nil, err
	}

	return &globber{pattern: pattern, glob: g}, nil
}

func (g *globber) Match(name string) bool {
	return g.glob.Match(name)
}

func (g *globber) Pattern() string {
	return g.pattern
}

// IsPattern returns whether the string contains any glob meta characters.
func IsPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Match returns whether the name matches the glob pattern. An error is only
// returned if the pattern is invalid.
func Match(pattern, name string, separators ...rune) (bool, error) {
	g, err := Compile(pattern, separators...)
	if err != nil {
		return false, err
	}

	return g.Match(name), nil
}

var errFound = errors.New("found")

// FindFile walks the tree below root and returns the path of the first
// regular file whose base name matches the pattern. The walk is in lexical
// order. An empty string is returned if no file matches.
func FindFile(root, pattern string) (string, error) {
	g, err := Compile(pattern)
	if err != nil {
		return "", err
	}

	found := ""

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if g.Match(d.Name()) {
			found = path
			return errFound
		}

		return nil
	})

	if err != nil && !errors.Is(err, errFound) {
		return "", err
	}

	return found, nil
}
