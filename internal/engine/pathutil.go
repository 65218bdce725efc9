package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolvePath resolves a user-provided path (absolute, relative, or containing "..")
// to a clean absolute path under root. Relative paths are taken from cwd.
// Paths that escape root are rejected with ErrNotFound.
func ResolvePath(userPath, cwd, root string) (string, error) {
	var absPath string
	if filepath.IsAbs(userPath) {
		absPath = userPath
	} else {
		absPath = filepath.Join(cwd, userPath)
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	relPath, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", fmt.Errorf("failed to compute root-relative path for %q: %w", userPath, err)
	}

	// Reject paths outside the tree
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q resolves to %q which is outside %s: %w", userPath, absPath, root, ErrNotFound)
	}

	return absPath, nil
}

// ResolvePaths applies ResolvePath to every entry, stopping at the first error.
func ResolvePaths(userPaths []string, cwd, root string) ([]string, error) {
	out := make([]string, 0, len(userPaths))
	for _, p := range userPaths {
		abs, err := ResolvePath(p, cwd, root)
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}
