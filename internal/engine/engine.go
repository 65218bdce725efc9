// Package engine provides the core orchestration for arbor operations.
//
// The engine sits between the CLI and the tree model, the planner and the
// filesystem. It keeps a Session consistent with the filesystem: every
// mutation is followed by a selective refresh of the affected folders, and a
// failed mutation by a full refresh of the root.
//
// Key components:
//   - Engine: Main orchestrator called by the CLI
//   - Session: tree, expansion index and selection
//   - Committer: applies a confirmed mapping to the filesystem
//   - Notifier: downstream notifications for created and moved paths
package engine

import (
	"path/filepath"
	"strings"

	charm "github.com/charmbracelet/log"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/logger"
	"github.com/danieljhkim/arbor/internal/prompt"
	"github.com/danieljhkim/arbor/internal/tree"
)

// Engine orchestrates all arbor operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs        fsops.FS
	builder   *tree.Builder
	committer *Committer
	prompter  prompt.Prompter
	notifier  Notifier
	log       *charm.Logger
}

// New creates a new Engine with the given dependencies.
// A nil notifier logs notifications; a nil log uses the default logger.
func New(fs fsops.FS, prompter prompt.Prompter, notifier Notifier, log *charm.Logger) *Engine {
	if log == nil {
		log = logger.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return &Engine{
		fs:        fs,
		builder:   tree.NewBuilder(fs),
		committer: NewCommitter(fs, log),
		prompter:  prompter,
		notifier:  notifier,
		log:       log,
	}
}

// DisplayPath renders path relative to root when it lies inside it.
func DisplayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
