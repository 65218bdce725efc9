package cli

import (
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/danieljhkim/arbor/internal/engine"
	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/tree"
)

// renderTree prints the materialized part of the session tree, one entry per
// line, indented by depth. Selected entries are marked with '*'.
func renderTree(w io.Writer, fs fsops.FS, sess *engine.Session, showHidden bool) {
	tree.Walk(sess.Root, func(n *tree.Node, depth int) bool {
		if depth > 0 && !showHidden && hidden(n) {
			return false
		}

		mark := "  "
		if sess.Selection.Has(n.Path) {
			mark = selectedColor.Sprint("* ")
		}

		name := n.Name
		if depth == 0 {
			name = n.Path
		}
		_, _ = io.WriteString(w, strings.Repeat("  ", depth)+mark+entryLabel(fs, n, name)+"\n")
		return true
	})

	if sess.Root.Expanded() && len(visibleChildren(sess.Root, showHidden)) == 0 {
		PrintEmptyState(w, "(empty)")
	}
}

func hidden(n *tree.Node) bool {
	return strings.HasPrefix(n.Name, ".")
}

func visibleChildren(n *tree.Node, showHidden bool) []*tree.Node {
	children := n.SortedChildren()
	if showHidden {
		return children
	}
	return lo.Reject(children, func(c *tree.Node, _ int) bool {
		return hidden(c)
	})
}

// entryLabel decorates name according to the node's mode.
func entryLabel(fs fsops.FS, n *tree.Node, name string) string {
	switch {
	case n.Mode.Has(tree.ModeOrphanLink):
		return orphanLinkColor.Sprint(name + " -> " + linkTarget(fs, n.Path))
	case n.Mode.Has(tree.ModeLink):
		label := name
		if tree.IsDir(n) {
			label += "/"
		}
		return linkColor.Sprint(label + " -> " + linkTarget(fs, n.Path))
	case tree.IsDir(n):
		arrow := "▸ "
		if n.Expanded() {
			arrow = "▾ "
		}
		return folderColor.Sprint(arrow + name + "/")
	case n.Mode.Has(tree.ModeExecutable):
		return executableColor.Sprint(name)
	default:
		return name
	}
}

func linkTarget(fs fsops.FS, path string) string {
	target, err := fs.Readlink(path)
	if err != nil {
		return "?"
	}
	return target
}

// nodeJSON is the JSON rendering of a node.
type nodeJSON struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Ext      string      `json:"ext,omitempty"`
	Mode     string      `json:"mode"`
	Selected bool        `json:"selected,omitempty"`
	Expanded bool        `json:"expanded,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

// sessionJSON is the JSON rendering of a session.
type sessionJSON struct {
	Root      *nodeJSON `json:"root"`
	Expanded  []string  `json:"expanded"`
	Selection []string  `json:"selection"`
}

func toSessionJSON(sess *engine.Session, showHidden bool) *sessionJSON {
	return &sessionJSON{
		Root:      toNodeJSON(sess.Root, sess.Selection, showHidden),
		Expanded:  sess.Index.Sorted(),
		Selection: sess.Selection.Sorted(),
	}
}

func toNodeJSON(n *tree.Node, selection pathset.Set, showHidden bool) *nodeJSON {
	children := visibleChildren(n, showHidden)
	return &nodeJSON{
		Path:     n.Path,
		Name:     n.Name,
		Ext:      n.Ext,
		Mode:     n.Mode.String(),
		Selected: selection.Has(n.Path),
		Expanded: n.Expanded(),
		Children: lo.Map(children, func(c *tree.Node, _ int) *nodeJSON {
			return toNodeJSON(c, selection, showHidden)
		}),
	}
}

// printSession writes the session as JSON or as a rendered tree.
func (a *app) printSession(w io.Writer, sess *engine.Session) error {
	if jsonOutput {
		return outputJSON(w, toSessionJSON(sess, a.settings.ShowHidden))
	}
	renderTree(w, a.fs, sess, a.settings.ShowHidden)
	return nil
}
