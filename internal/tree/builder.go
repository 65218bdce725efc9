package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/pathset"
)

// Builder constructs and refreshes trees from a filesystem.
// It holds no state besides the filesystem and is safe for concurrent use.
type Builder struct {
	fs fsops.FS
}

// NewBuilder creates a new Builder.
func NewBuilder(fs fsops.FS) *Builder {
	return &Builder{fs: fs}
}

// Build constructs the node for path, descending into folders that are in
// the index. Listing errors propagate; the builder never retries.
func (b *Builder) Build(path string, index Index) (*Node, error) {
	path = filepath.Clean(path)
	mode := StatPath(b.fs, path)
	if !mode.Has(ModeFolder) {
		return newLeaf(path, mode), nil
	}

	node := &Node{
		Path: path,
		Name: filepath.Base(path),
		Mode: mode,
	}
	if !index.Has(path) {
		return node, nil
	}

	entries, err := b.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	node.Children = make(map[string]*Node, len(entries))
	for _, entry := range entries {
		child, err := b.Build(entry, index)
		if err != nil {
			return nil, err
		}
		node.Children[child.Path] = child
	}
	return node, nil
}

// Update returns a new tree in which every node whose path is in changed has
// been rebuilt from disk. Other folders are copied with their children
// updated recursively; nodes without children are shared with the old tree.
//
// If the root itself vanished or changed type, or the walk fails because an
// entry vanished, the whole root is rebuilt.
func (b *Builder) Update(root *Node, index Index, changed pathset.Set) (*Node, error) {
	if StatPath(b.fs, root.Path) != root.Mode {
		return b.Build(root.Path, index)
	}

	updated, err := b.update(root, index, changed)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return b.Build(root.Path, index)
}

func (b *Builder) update(n *Node, index Index, changed pathset.Set) (*Node, error) {
	if changed.Has(n.Path) {
		return b.Build(n.Path, index)
	}
	if n.Children == nil {
		return n, nil
	}

	children := make(map[string]*Node, len(n.Children))
	for path, child := range n.Children {
		updated, err := b.update(child, index, changed)
		if err != nil {
			return nil, err
		}
		children[path] = updated
	}
	return &Node{
		Path:     n.Path,
		Name:     n.Name,
		Ext:      n.Ext,
		Mode:     n.Mode,
		Children: children,
	}, nil
}
