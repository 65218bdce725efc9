package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charm "github.com/charmbracelet/log"

	"github.com/danieljhkim/arbor/internal/config"
	"github.com/danieljhkim/arbor/internal/engine"
	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/logger"
	"github.com/danieljhkim/arbor/internal/prompt"
	"github.com/danieljhkim/arbor/internal/state"
)

// app bundles the engine with the settings and session store of one invocation.
type app struct {
	settings *config.Settings
	fs       fsops.FS
	engine   *engine.Engine
	store    state.StateStore
	log      *charm.Logger
	cwd      string
	root     string
}

// newApp creates an engine with real implementations of all dependencies.
func newApp() (*app, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.Load(paths)
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stderr, logger.ParseLevel(settings.LogLevel))
	logger.SetDefault(log)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	root, err := resolveRoot(rootFlag, cwd)
	if err != nil {
		return nil, err
	}

	fs := &fsops.RealFS{FollowLinksOnCopy: settings.FollowLinksOnCopy}

	return &app{
		settings: settings,
		fs:       fs,
		engine:   engine.New(fs, newPrompter(settings), nil, log),
		store:    state.NewFileStateStore(fs, paths.Sessions),
		log:      log,
		cwd:      cwd,
		root:     root,
	}, nil
}

// newPrompter returns the terminal prompter, or one that never asks when
// --yes or assume_yes is set.
func newPrompter(settings *config.Settings) prompt.Prompter {
	if assumeYes || settings.AssumeYes {
		return prompt.Unattended{}
	}
	return prompt.NewTerminal(settings.Accessible)
}

// resolveRoot turns the --root flag into a clean absolute path.
// An empty flag means the working directory.
func resolveRoot(flag, cwd string) (string, error) {
	if flag == "" {
		return filepath.Clean(cwd), nil
	}
	if filepath.IsAbs(flag) {
		return filepath.Clean(flag), nil
	}
	abs, err := filepath.Abs(filepath.Join(cwd, flag))
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", flag, err)
	}
	return abs, nil
}

// resolve maps user-supplied paths to absolute paths under the tree root.
func (a *app) resolve(paths []string) ([]string, error) {
	return engine.ResolvePaths(paths, a.cwd, a.root)
}

// openSession loads the persisted index and selection for the tree root and
// builds a session from them.
func (a *app) openSession() (*engine.Session, error) {
	saved, err := state.LoadOrNew(a.store, a.root)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return a.engine.Open(a.root, saved.IndexSet(), saved.SelectionSet())
}

// saveSession persists the index and selection of sess.
func (a *app) saveSession(sess *engine.Session) error {
	saved := state.NewSessionState(a.root)
	saved.SetIndex(sess.Index)
	saved.SetSelection(sess.Selection)
	if err := a.store.SaveSession(saved); err != nil {
		return err
	}
	a.log.Debug("session saved", "root", a.root, "expanded", sess.Index.Len(), "selected", sess.Selection.Len())
	return nil
}

// display renders path relative to the tree root.
func (a *app) display(path string) string {
	return engine.DisplayPath(a.root, path)
}

// FormatError formats an error for display.
func FormatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
