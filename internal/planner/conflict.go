package planner

import (
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/pathset"
)

// State is the phase of a Negotiation.
type State int

const (
	// StateAwaitingAnswer means Current holds a collision that needs a new name.
	StateAwaitingAnswer State = iota

	// StateResolved means every destination is free; Result returns the mapping.
	StateResolved

	// StateUnresolved means the user declined; Result returns a *CollisionError.
	StateUnresolved
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateResolved:
		return "resolved"
	case StateUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Negotiation resolves destination collisions one entry at a time. It never
// prompts by itself: callers read Current, obtain an answer however they
// like and feed it back through Answer.
type Negotiation struct {
	fs fsops.FS
	op Op

	// proposed holds every unified source with its derived destination.
	proposed Mapping

	// pending collisions, head first; the head is the current question.
	pending []fsops.Pair

	// renamed holds entries whose alternate name was accepted.
	renamed Mapping

	// claimed holds destinations already assigned to some entry of this plan.
	claimed pathset.Set

	// rejected holds the validation error of the last answer, if any.
	rejected error

	state State
}

// Propose validates the request, derives every destination and detects the
// entries whose destination is already taken, on disk or by another entry.
func Propose(fs fsops.FS, req Request) (*Negotiation, error) {
	unified := pathset.Unify(req.Selection)
	if unified.Len() == 0 || req.Target == nil {
		return nil, ErrNothingSelected
	}

	if !unified.Disjoint(req.Forbidden) {
		bad := lo.Filter(unified.Sorted(), func(p string, _ int) bool {
			return req.Forbidden.Has(p)
		})
		return nil, &ForbiddenError{Op: req.Op, Paths: bad, Reason: "path is protected"}
	}

	n := &Negotiation{
		fs:       fs,
		op:       req.Op,
		proposed: make(Mapping, unified.Len()),
		renamed:  make(Mapping),
		claimed:  pathset.New(),
	}

	var intoSelf []string
	for _, src := range unified.Sorted() {
		dst := Destination(src, req.Target)
		if pathset.IsAncestor(src, dst) {
			intoSelf = append(intoSelf, src)
		}
		n.proposed[src] = dst
	}
	if len(intoSelf) > 0 {
		return nil, &ForbiddenError{Op: req.Op, Paths: intoSelf, Reason: "cannot place a folder inside itself"}
	}

	for _, p := range n.proposed.Pairs() {
		taken, err := n.taken(p.Dst)
		if err != nil {
			return nil, err
		}
		if taken {
			n.pending = append(n.pending, p)
			continue
		}
		n.claimed.Add(p.Dst)
	}

	n.advance()
	return n, nil
}

// taken reports whether dst exists without following links, or is already
// assigned to another entry. A source that is moved onto itself counts as taken.
func (n *Negotiation) taken(dst string) (bool, error) {
	if n.claimed.Has(dst) {
		return true, nil
	}
	exists, err := n.fs.Exists(dst, false)
	if err != nil {
		return false, fmt.Errorf("failed to check destination %s: %w", dst, err)
	}
	return exists, nil
}

func (n *Negotiation) advance() {
	if n.state == StateUnresolved {
		return
	}
	if len(n.pending) == 0 {
		n.state = StateResolved
		return
	}
	n.state = StateAwaitingAnswer
}

// State returns the current phase.
func (n *Negotiation) State() State {
	return n.state
}

// Current returns the collision awaiting an answer.
func (n *Negotiation) Current() (fsops.Pair, bool) {
	if n.state != StateAwaitingAnswer {
		return fsops.Pair{}, false
	}
	return n.pending[0], true
}

// Rejected returns why the previous answer was refused, or nil.
func (n *Negotiation) Rejected() error {
	return n.rejected
}

// Proposed returns the destinations derived from the anchor, before renames.
func (n *Negotiation) Proposed() Mapping {
	return n.proposed
}

// Answer applies the user's reply to the current collision.
//
// No answer stops the negotiation: the current and every remaining collision
// stay unresolved. A name that is also taken keeps the entry pending with the
// rejected destination, so the same entry is asked again. An invalid name
// keeps the entry as it was and is reported by Rejected.
func (n *Negotiation) Answer(name string, ok bool) error {
	cur, awaiting := n.Current()
	if !awaiting {
		return fmt.Errorf("negotiation is %s, not awaiting an answer", n.state)
	}

	n.rejected = nil
	if !ok || name == "" {
		n.state = StateUnresolved
		return nil
	}

	if err := fsops.ValidateName(name); err != nil {
		n.rejected = err
		return nil
	}

	dst := filepath.Join(filepath.Dir(cur.Dst), name)
	taken, err := n.taken(dst)
	if err != nil {
		return err
	}
	if taken {
		n.pending[0].Dst = dst
		return nil
	}

	n.pending = n.pending[1:]
	n.renamed[cur.Src] = dst
	n.claimed.Add(dst)
	n.advance()
	return nil
}

// Result returns the final mapping once every collision is resolved, or a
// *CollisionError listing the remaining collisions in source order.
func (n *Negotiation) Result() (Mapping, error) {
	switch n.state {
	case StateResolved:
		final := make(Mapping, len(n.proposed))
		for src, dst := range n.proposed {
			final[src] = dst
		}
		for src, dst := range n.renamed {
			final[src] = dst
		}
		return final, nil
	case StateUnresolved:
		remaining := make(Mapping, len(n.pending))
		for _, p := range n.pending {
			remaining[p.Src] = p.Dst
		}
		return nil, &CollisionError{Op: n.op, Pairs: remaining.Pairs()}
	default:
		return nil, fmt.Errorf("negotiation is still awaiting an answer")
	}
}
