package engine

import (
	"errors"

	"github.com/danieljhkim/arbor/internal/planner"
)

var (
	// ErrNotFound indicates a path vanished or does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the operation targets a protected path.
	ErrForbidden = planner.ErrForbidden

	// ErrNothingSelected indicates an empty selection or missing target.
	ErrNothingSelected = planner.ErrNothingSelected

	// ErrCollisionUnresolved indicates destinations exist and were not renamed.
	ErrCollisionUnresolved = planner.ErrCollisionUnresolved

	// ErrCommitFailure indicates the move or copy itself failed.
	ErrCommitFailure = errors.New("commit failed")
)
