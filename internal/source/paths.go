package source

import (
	"path/filepath"
	"strings"
)

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Paths outside baseDir stay
// absolute.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
