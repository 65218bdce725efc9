package state

import (
	"github.com/danieljhkim/arbor/internal/pathset"
)

// SessionState is the persisted view state of one tree root.
type SessionState struct {
	// Root is the absolute path of the tree root
	Root string `json:"root"`

	// Index is the list of expanded folder paths
	Index []string `json:"index"`

	// Selection is the list of selected paths
	Selection []string `json:"selection"`
}

// NewSessionState creates a session for root with only the root expanded.
func NewSessionState(root string) *SessionState {
	return &SessionState{
		Root:      root,
		Index:     []string{root},
		Selection: []string{},
	}
}

// IndexSet returns the expansion index as a set.
func (s *SessionState) IndexSet() pathset.Set {
	return pathset.New(s.Index...)
}

// SelectionSet returns the selection as a set.
func (s *SessionState) SelectionSet() pathset.Set {
	return pathset.New(s.Selection...)
}

// SetIndex replaces the index with the members of idx in path order.
func (s *SessionState) SetIndex(idx pathset.Set) {
	s.Index = idx.Sorted()
}

// SetSelection replaces the selection with the members of sel in path order.
func (s *SessionState) SetSelection(sel pathset.Set) {
	s.Selection = sel.Sorted()
}
