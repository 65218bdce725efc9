package planner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/tree"
)

var (
	// ErrNothingSelected indicates the unified selection or the target is empty.
	ErrNothingSelected = errors.New("nothing selected")

	// ErrForbidden indicates the selection touches a protected path.
	ErrForbidden = errors.New("operation not permitted")

	// ErrCollisionUnresolved indicates destinations that exist and were not renamed.
	ErrCollisionUnresolved = errors.New("paths already exist")
)

// Op is the kind of operation being planned.
type Op string

// Operation kinds
const (
	OpCut  Op = "cut"
	OpCopy Op = "copy"
)

// IsMove reports whether sources are removed by the operation.
func (o Op) IsMove() bool {
	return o == OpCut
}

// Mapping maps source paths to destination paths.
type Mapping map[string]string

// Pairs returns the entries ordered by source path.
func (m Mapping) Pairs() []fsops.Pair {
	sources := lo.Keys(m)
	pathset.Sort(sources)
	return lo.Map(sources, func(src string, _ int) fsops.Pair {
		return fsops.Pair{Src: src, Dst: m[src]}
	})
}

// Sources returns the source paths.
func (m Mapping) Sources() []string {
	return lo.Keys(m)
}

// Destinations returns the destination paths.
func (m Mapping) Destinations() []string {
	return lo.Values(m)
}

// Request describes one cut or copy.
type Request struct {
	// Op is the operation kind.
	Op Op

	// Selection is the raw selected paths; overlapping entries are unified.
	Selection pathset.Set

	// Target is the node the destinations are computed against.
	Target *tree.Node

	// Forbidden paths may not be part of the unified selection.
	Forbidden pathset.Set
}

// Anchor returns the folder destinations are placed in: the target itself
// when it is a folder, its parent otherwise.
func Anchor(target *tree.Node) string {
	if tree.IsDir(target) {
		return target.Path
	}
	return filepath.Dir(target.Path)
}

// Destination returns the proposed destination of src for target.
func Destination(src string, target *tree.Node) string {
	return filepath.Join(Anchor(target), filepath.Base(src))
}

// CollisionError lists the entries whose destinations still exist.
type CollisionError struct {
	Op    Op
	Pairs []fsops.Pair

	// Display renders paths in the message; absolute paths when nil.
	Display func(string) string
}

func (e *CollisionError) Error() string {
	lines := lo.Map(e.Pairs, func(p fsops.Pair, _ int) string {
		return fmt.Sprintf("  %s -> %s", show(e.Display, p.Src), show(e.Display, p.Dst))
	})
	return fmt.Sprintf("%s: %s\n%s", e.Op, ErrCollisionUnresolved, strings.Join(lines, "\n"))
}

func (e *CollisionError) Unwrap() error {
	return ErrCollisionUnresolved
}

// ForbiddenError names the selected paths that are protected.
type ForbiddenError struct {
	Op     Op
	Paths  []string
	Reason string

	// Display renders paths in the message; absolute paths when nil.
	Display func(string) string
}

func (e *ForbiddenError) Error() string {
	paths := lo.Map(e.Paths, func(p string, _ int) string {
		return show(e.Display, p)
	})
	return fmt.Sprintf("%s %s: %s", e.Op, strings.Join(paths, ", "), e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func show(display func(string) string, path string) string {
	if display == nil {
		return path
	}
	return display(path)
}
