// Package tree models a directory as an immutable, lazily materialized tree.
//
// A folder's children are only listed when its path is in the caller supplied
// expansion index. Updates never mutate an existing tree: Update walks the old
// tree and returns a new one, rebuilding only the subtrees whose paths were
// reported as changed.
package tree

import (
	"path/filepath"
	"strings"

	"github.com/danieljhkim/arbor/internal/pathset"
)

// Index is the set of folder paths whose children are materialized.
type Index = pathset.Set

// Node is one filesystem entry. Nodes are immutable once constructed.
type Node struct {
	// Path is the absolute path and the node's identity within a tree.
	Path string

	// Name is the base name of Path.
	Name string

	// Ext is the file extension including the dot; empty for folders.
	Ext string

	// Mode is the set of classification tags.
	Mode Mode

	// Children maps child path to child node. Nil means the folder is
	// collapsed (or the node is not a folder); an expanded empty folder has a
	// non-nil empty map.
	Children map[string]*Node
}

// IsDir reports whether the node is a folder.
func IsDir(n *Node) bool {
	return n.Mode.Has(ModeFolder)
}

// Expanded reports whether the node's children are materialized.
func (n *Node) Expanded() bool {
	return n.Children != nil
}

// SortedChildren returns the children ordered by path.
func (n *Node) SortedChildren() []*Node {
	keys := make([]string, 0, len(n.Children))
	for k := range n.Children {
		keys = append(keys, k)
	}
	pathset.Sort(keys)
	out := make([]*Node, len(keys))
	for i, k := range keys {
		out[i] = n.Children[k]
	}
	return out
}

// Find returns the node at path, or nil if path is not materialized in the tree.
func Find(root *Node, path string) *Node {
	path = filepath.Clean(path)
	n := root
	for n != nil {
		if n.Path == path {
			return n
		}
		if !pathset.IsAncestor(n.Path, path) {
			return nil
		}
		var next *Node
		for childPath, child := range n.Children {
			if childPath == path || pathset.IsAncestor(childPath, path) {
				next = child
				break
			}
		}
		n = next
	}
	return nil
}

// WalkFunc is called for every visited node with its depth below the root.
// Returning false skips the node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits the materialized tree depth-first, children in path order.
func Walk(root *Node, fn WalkFunc) {
	walk(root, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.SortedChildren() {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of materialized nodes, root included.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

func newLeaf(path string, mode Mode) *Node {
	name := filepath.Base(path)
	return &Node{
		Path: path,
		Name: name,
		Ext:  extension(name),
		Mode: mode,
	}
}

// extension returns the suffix after the last dot, ignoring leading dots so
// that ".bashrc" has no extension.
func extension(name string) string {
	return filepath.Ext(strings.TrimLeft(name, "."))
}
