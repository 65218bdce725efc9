package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/planner"
)

// CommitError reports a failed move or copy. Entries not listed in Failed
// may have been applied; there is no rollback.
type CommitError struct {
	Op     planner.Op
	Failed []*fsops.EntryError
	Cause  error

	// Display renders paths in the message; absolute paths when nil.
	Display func(string) string
}

func (e *CommitError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("%s: %v: %v", e.Op, ErrCommitFailure, e.Cause)
	}
	line := func(f *fsops.EntryError, _ int) string {
		return "  " + f.Error()
	}
	if e.Display != nil {
		line = func(f *fsops.EntryError, _ int) string {
			return fmt.Sprintf("  %s -> %s: %v", e.Display(f.Src), e.Display(f.Dst), reason(f.Err))
		}
	}
	lines := lo.Map(e.Failed, line)
	return fmt.Sprintf("%s: %v for %d of the entries:\n%s", e.Op, ErrCommitFailure, len(e.Failed), strings.Join(lines, "\n"))
}

func (e *CommitError) Unwrap() []error {
	return []error{ErrCommitFailure, e.Cause}
}

// reason strips the operation and paths an os error carries.
func reason(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}

// Committer applies a confirmed mapping to the filesystem.
type Committer struct {
	fs  fsops.FS
	log *charm.Logger
}

// NewCommitter creates a new Committer.
func NewCommitter(fs fsops.FS, log *charm.Logger) *Committer {
	return &Committer{fs: fs, log: log}
}

// Commit moves or copies every entry of mapping in source order. Every
// entry is attempted; any failure is returned as a *CommitError.
func (c *Committer) Commit(ctx context.Context, op planner.Op, mapping planner.Mapping) error {
	if err := ctx.Err(); err != nil {
		return &CommitError{Op: op, Cause: err}
	}

	pairs := mapping.Pairs()
	c.log.Info("committing", "op", op, "entries", len(pairs))

	var err error
	if op.IsMove() {
		err = fsops.MoveMany(c.fs, pairs)
	} else {
		err = fsops.CopyMany(c.fs, pairs)
	}
	if err != nil {
		failed := fsops.FailedEntries(err)
		c.log.Error("commit failed", "op", op, "failed", len(failed), "entries", len(pairs))
		return &CommitError{Op: op, Failed: failed, Cause: err}
	}

	c.log.Info("committed", "op", op, "entries", len(pairs))
	return nil
}
