package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/arbor/internal/engine"
	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/logger"
	"github.com/danieljhkim/arbor/internal/prompt"
	"github.com/danieljhkim/arbor/internal/state"
)

// testStateStore is an in-memory state store for testing
type testStateStore struct {
	sessions map[string]*state.SessionState
}

func newTestStateStore() *testStateStore {
	return &testStateStore{sessions: make(map[string]*state.SessionState)}
}

func (s *testStateStore) LoadSession(root string) (*state.SessionState, error) {
	if sess, ok := s.sessions[root]; ok {
		// Return a copy
		c := *sess
		c.Index = append([]string{}, sess.Index...)
		c.Selection = append([]string{}, sess.Selection...)
		return &c, nil
	}
	return nil, os.ErrNotExist
}

func (s *testStateStore) SaveSession(sess *state.SessionState) error {
	// Save a copy
	c := *sess
	c.Index = append([]string{}, sess.Index...)
	c.Selection = append([]string{}, sess.Selection...)
	s.sessions[sess.Root] = &c
	return nil
}

func (s *testStateStore) DeleteSession(root string) error {
	delete(s.sessions, root)
	return nil
}

// harness wires an engine over a real temporary directory.
type harness struct {
	root     string
	engine   *engine.Engine
	store    *testStateStore
	prompter *prompt.Scripted
}

func setupTestEngine(t *testing.T, answers ...prompt.Answer) *harness {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}

	p := prompt.NewScripted(answers...)
	return &harness{
		root:     root,
		engine:   engine.New(fsops.NewRealFS(), p, nil, logger.Discard()),
		store:    newTestStateStore(),
		prompter: p,
	}
}

func (h *harness) path(parts ...string) string {
	return filepath.Join(append([]string{h.root}, parts...)...)
}

func (h *harness) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := h.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return p
}

// open loads the stored session for the harness root, as the CLI does.
func (h *harness) open(t *testing.T) *engine.Session {
	t.Helper()
	saved, err := state.LoadOrNew(h.store, h.root)
	if err != nil {
		t.Fatalf("LoadOrNew() error = %v", err)
	}
	sess, err := h.engine.Open(h.root, saved.IndexSet(), saved.SelectionSet())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return sess
}

func (h *harness) save(t *testing.T, sess *engine.Session) {
	t.Helper()
	saved := state.NewSessionState(h.root)
	saved.SetIndex(sess.Index)
	saved.SetSelection(sess.Selection)
	if err := h.store.SaveSession(saved); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}
