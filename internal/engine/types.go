package engine

import (
	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/planner"
	"github.com/danieljhkim/arbor/internal/tree"
)

// Session is the in-memory view of one tree: the materialized tree plus the
// caller owned expansion index and selection. Sessions are values; every
// engine call returns a new one.
type Session struct {
	// Root is the current tree
	Root *tree.Node

	// Index is the set of expanded folders
	Index pathset.Set

	// Selection is the set of selected paths
	Selection pathset.Set
}

// OperationRequest represents a request to cut or copy.
type OperationRequest struct {
	// Session is the session the operation runs against
	Session *Session

	// CWD is the current working directory; it and its ancestors cannot be cut
	CWD string

	// Target is the path of the node destinations are placed next to
	Target string

	// Paths overrides the session selection when non-empty
	Paths []string
}

// OperationResult represents the outcome of a cut or copy.
type OperationResult struct {
	// Session is the session after the operation (refreshed on commit failure)
	Session *Session

	// Mapping is the confirmed source to destination mapping (nil if not confirmed)
	Mapping planner.Mapping

	// Applied is true when the mapping was committed successfully
	Applied bool

	// Focus is the first destination in path order, empty when nothing was applied
	Focus string
}
