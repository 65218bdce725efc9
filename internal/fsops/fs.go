// Package fsops provides the filesystem primitives arbor is built on.
//
// All filesystem reads and mutations in arbor go through the FS interface so
// that the tree model, the planner and the committer can be exercised against
// stubs in tests.
//
// Key features:
//   - Symlink-aware stat and existence checks
//   - Bulk move/copy that attempts every entry and reports each failure
//   - Atomic writes using temp file + rename
//   - Base-name validation for user supplied rename answers
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	cp "github.com/otiai10/copy"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// ReadDir lists the absolute paths of the immediate children of a directory.
	ReadDir(path string) ([]string, error)

	// Exists checks if a path exists. With follow=false a dangling symlink exists.
	Exists(path string, follow bool) (bool, error)

	// Move renames src to dst, falling back to copy+remove across devices.
	Move(src, dst string) error

	// Copy copies a file or directory tree from src to dst.
	Copy(src, dst string) error

	// Readlink returns the destination of a symbolic link as stored.
	Readlink(path string) (string, error)

	// Remove removes a file or empty directory.
	Remove(path string) error

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)
}

// RealFS implements FS using actual OS operations.
type RealFS struct {
	// FollowLinksOnCopy copies the target of a symlink instead of the link itself.
	FollowLinksOnCopy bool
}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Lstat returns file info without following symlinks.
func (fs *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Stat returns file info, following symlinks.
func (fs *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the absolute paths of the immediate children of a directory.
func (fs *RealFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		children = append(children, filepath.Join(path, entry.Name()))
	}
	return children, nil
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string, follow bool) (bool, error) {
	var err error
	if follow {
		_, err = os.Stat(path)
	} else {
		_, err = os.Lstat(path)
	}
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Move renames src to dst. When the rename crosses a device boundary the
// entry is copied and the source removed.
func (fs *RealFS) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := fs.copyTree(src, dst, false); err != nil {
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}
	return nil
}

// Copy copies a file or directory tree from src to dst.
// Symlinks are recreated as links unless FollowLinksOnCopy is set.
func (fs *RealFS) Copy(src, dst string) error {
	return fs.copyTree(src, dst, fs.FollowLinksOnCopy)
}

func (fs *RealFS) copyTree(src, dst string, follow bool) error {
	opts := cp.Options{
		OnSymlink: func(string) cp.SymlinkAction {
			if follow {
				return cp.Deep
			}
			return cp.Shallow
		},
		PreserveTimes: true,
		Sync:          true,
	}
	return cp.Copy(src, dst, opts)
}

// Readlink returns the destination of a symbolic link as stored.
func (fs *RealFS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".arbor-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ValidateName validates a single path component supplied by a user, such as
// the alternate name offered for a colliding destination.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid name: empty")
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return fmt.Errorf("invalid name %q: must not contain path separators", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name %q: path traversal not allowed", name)
	}
	return nil
}
