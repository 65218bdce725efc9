// Package config manages arbor configuration and filesystem paths.
//
// The default root is ~/.arbor/ containing sessions/ and config.yaml. The
// root can be moved with ARBOR_ROOT; settings in config.yaml can be
// overridden with ARBOR_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by arbor.
type Paths struct {
	// Root is the base directory for all arbor data (default: ~/.arbor)
	Root string

	// Sessions is the directory containing per-tree session state files
	Sessions string

	// Config is the path to the config file
	Config string
}

// DefaultPaths returns the default paths for arbor.
// Paths can be overridden with environment variables:
// - ARBOR_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("ARBOR_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".arbor")
	}

	return PathsAt(root), nil
}

// PathsAt returns the paths rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:     root,
		Sessions: filepath.Join(root, "sessions"),
		Config:   filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Sessions,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
