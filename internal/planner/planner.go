package planner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/prompt"
)

// Planner drives a Negotiation with a prompter.
type Planner struct {
	fs       fsops.FS
	prompter prompt.Prompter

	// display renders a path in questions; identity when nil.
	display func(string) string
}

// New creates a new Planner. display may be nil.
func New(fs fsops.FS, prompter prompt.Prompter, display func(string) string) *Planner {
	if display == nil {
		display = func(p string) string { return p }
	}
	return &Planner{
		fs:       fs,
		prompter: prompter,
		display:  display,
	}
}

// Plan is a negotiated operation.
type Plan struct {
	Op Op

	// Mapping is the final source to destination mapping.
	Mapping Mapping

	// Confirmed is false when the user declined the final confirmation.
	Confirmed bool
}

// Plan negotiates every collision of req and asks for confirmation of the
// final mapping. Guard failures and unresolved collisions are returned as
// errors; a declined confirmation is a Plan with Confirmed == false.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	n, err := Propose(p.fs, req)
	if err != nil {
		return nil, p.withDisplay(err)
	}

	for {
		cur, ok := n.Current()
		if !ok {
			break
		}
		question := fmt.Sprintf("%s already exists, new name:", p.display(cur.Dst))
		if rejected := n.Rejected(); rejected != nil {
			question = fmt.Sprintf("%v\n%s", rejected, question)
		}
		answer, answered, err := p.prompter.Ask(ctx, question, filepath.Base(cur.Dst))
		if err != nil {
			return nil, fmt.Errorf("failed to ask for a new name: %w", err)
		}
		if err := n.Answer(answer, answered); err != nil {
			return nil, err
		}
	}

	mapping, err := n.Result()
	if err != nil {
		return nil, p.withDisplay(err)
	}

	plan := &Plan{Op: req.Op, Mapping: mapping}
	yes, answered, err := p.prompter.Confirm(ctx, p.Describe(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to confirm %s: %w", req.Op, err)
	}
	plan.Confirmed = answered && yes
	return plan, nil
}

// Describe renders the confirmation question for a plan.
func (p *Planner) Describe(plan *Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s the following?\n", capitalize(string(plan.Op)))
	for _, pair := range plan.Mapping.Pairs() {
		fmt.Fprintf(&b, "  %s -> %s\n", p.display(pair.Src), p.display(pair.Dst))
	}
	return strings.TrimRight(b.String(), "\n")
}

// withDisplay makes path-carrying planner errors render paths like the questions do.
func (p *Planner) withDisplay(err error) error {
	var collision *CollisionError
	if errors.As(err, &collision) {
		collision.Display = p.display
	}
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		forbidden.Display = p.display
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
