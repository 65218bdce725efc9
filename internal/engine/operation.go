package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/planner"
	"github.com/danieljhkim/arbor/internal/tree"
)

// Cut moves the selection next to the target node.
// The working directory, the tree root and all their ancestors are protected.
func (e *Engine) Cut(ctx context.Context, req *OperationRequest) (*OperationResult, error) {
	root := req.Session.Root.Path
	forbidden := pathset.New(req.CWD, root).Union(pathset.Ancestors(req.CWD, root))
	return e.operation(ctx, req, planner.OpCut, forbidden)
}

// Copy copies the selection next to the target node.
func (e *Engine) Copy(ctx context.Context, req *OperationRequest) (*OperationResult, error) {
	return e.operation(ctx, req, planner.OpCopy, pathset.New())
}

func (e *Engine) operation(ctx context.Context, req *OperationRequest, op planner.Op, forbidden pathset.Set) (*OperationResult, error) {
	sess := req.Session
	result := &OperationResult{Session: sess}

	selection := sess.Selection
	if len(req.Paths) > 0 {
		selection = pathset.New(req.Paths...)
	}

	target, err := e.targetNode(sess, req.Target)
	if err != nil {
		return result, err
	}

	display := func(p string) string { return DisplayPath(sess.Root.Path, p) }
	plan, err := planner.New(e.fs, e.prompter, display).Plan(ctx, planner.Request{
		Op:        op,
		Selection: selection,
		Target:    target,
		Forbidden: forbidden,
	})
	if err != nil {
		return result, err
	}
	if !plan.Confirmed {
		e.log.Debug("operation declined", "op", op)
		return result, nil
	}
	result.Mapping = plan.Mapping

	if err := e.committer.Commit(ctx, op, plan.Mapping); err != nil {
		var commitErr *CommitError
		if errors.As(err, &commitErr) {
			commitErr.Display = display
		}
		refreshed, rerr := e.Refresh(sess, pathset.New(sess.Root.Path))
		if rerr != nil {
			return result, errors.Join(err, rerr)
		}
		result.Session = refreshed
		return result, err
	}

	sources, destinations := plan.Mapping.Sources(), plan.Mapping.Destinations()
	changed := pathset.Parents(append(sources, destinations...)...)
	next, err := e.forward(sess, sess.Index.Union(changed), pathset.New(destinations...), changed)
	if err != nil {
		return result, err
	}

	if op.IsMove() {
		e.notifier.ReleaseBuffers(selection.Sorted())
		e.notifier.PathsMoved(plan.Mapping)
	} else {
		e.notifier.PathsCreated(next.Selection.Sorted())
	}

	result.Session = next
	result.Applied = true
	if focus := next.Selection.Sorted(); len(focus) > 0 {
		result.Focus = focus[0]
	}
	return result, nil
}

// targetNode resolves the node destinations are computed against. Paths not
// materialized in the tree are built on their own.
func (e *Engine) targetNode(sess *Session, target string) (*tree.Node, error) {
	if target == "" {
		return nil, ErrNothingSelected
	}
	target = filepath.Clean(target)
	if n := tree.Find(sess.Root, target); n != nil {
		return n, nil
	}

	exists, err := e.fs.Exists(target, false)
	if err != nil {
		return nil, fmt.Errorf("failed to check target %s: %w", target, err)
	}
	if !exists {
		return nil, fmt.Errorf("target %s: %w", target, ErrNotFound)
	}
	return e.builder.Build(target, pathset.New())
}
