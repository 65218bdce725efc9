package engine

import (
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/tree"
)

// Open builds a fresh session for root. The root is always part of the index.
func (e *Engine) Open(root string, index, selection pathset.Set) (*Session, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("tree root must be absolute, got %q", root)
	}
	root = filepath.Clean(root)

	idx := pathset.New(root).Union(index)
	node, err := e.builder.Build(root, idx)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for %s: %w", root, err)
	}
	if node.Mode.Has(tree.ModeOrphanLink) {
		e.log.Warn("tree root does not exist", "root", root)
	}

	return &Session{
		Root:      node,
		Index:     idx,
		Selection: selection.Clone(),
	}, nil
}

// Refresh rebuilds the subtrees at paths. An empty set refreshes the root.
func (e *Engine) Refresh(sess *Session, paths pathset.Set) (*Session, error) {
	if paths.Len() == 0 {
		paths = pathset.New(sess.Root.Path)
	}
	return e.forward(sess, sess.Index, sess.Selection, paths)
}

// Expand adds folders to the index and materializes their children.
// Collapsed ancestors between the root and each path are expanded as well.
func (e *Engine) Expand(sess *Session, paths ...string) (*Session, error) {
	root := sess.Root.Path
	changed := pathset.New(paths...)
	for p := range changed {
		if !pathset.IsAncestor(root, p) && p != root {
			return nil, fmt.Errorf("%s is outside %s: %w", p, root, ErrNotFound)
		}
	}
	for _, a := range pathset.Ancestors(lo.Keys(changed)...).Sorted() {
		if pathset.IsAncestor(root, a) && !sess.Index.Has(a) {
			changed.Add(a)
		}
	}
	return e.forward(sess, sess.Index.Union(changed), sess.Selection, changed)
}

// Collapse removes folders and all their descendants from the index.
// The root itself cannot be collapsed.
func (e *Engine) Collapse(sess *Session, paths ...string) (*Session, error) {
	changed := pathset.New(paths...)
	changed.Remove(sess.Root.Path)

	collapsed := lo.Keys(changed)
	index := pathset.New(lo.Filter(lo.Keys(sess.Index), func(p string, _ int) bool {
		return !changed.Has(p) && !lo.SomeBy(collapsed, func(c string) bool {
			return pathset.IsAncestor(c, p)
		})
	})...)
	return e.forward(sess, index, sess.Selection, changed)
}

// Select adds paths to the selection.
func (e *Engine) Select(sess *Session, paths ...string) *Session {
	return &Session{
		Root:      sess.Root,
		Index:     sess.Index,
		Selection: sess.Selection.Union(pathset.New(paths...)),
	}
}

// Deselect removes paths from the selection. No paths clears it.
func (e *Engine) Deselect(sess *Session, paths ...string) *Session {
	selection := pathset.New()
	if len(paths) > 0 {
		selection = sess.Selection.Clone()
		for _, p := range paths {
			selection.Remove(p)
		}
	}
	return &Session{
		Root:      sess.Root,
		Index:     sess.Index,
		Selection: selection,
	}
}

// forward produces the next session from a new index and selection,
// rebuilding the changed paths.
func (e *Engine) forward(sess *Session, index, selection, changed pathset.Set) (*Session, error) {
	e.log.Debug("updating tree", "root", sess.Root.Path, "changed", changed.Sorted())

	root, err := e.builder.Update(sess.Root, index, changed)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s: %w", sess.Root.Path, err)
	}
	return &Session{
		Root:      root,
		Index:     index,
		Selection: selection,
	}, nil
}
