package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/logger"
	"github.com/danieljhkim/arbor/internal/planner"
	"github.com/danieljhkim/arbor/internal/prompt"
)

// recordingFS wraps RealFS, records every mutation and can fail selected sources.
type recordingFS struct {
	*fsops.RealFS
	moves   []fsops.Pair
	copies  []fsops.Pair
	failSrc map[string]error
}

func newRecordingFS() *recordingFS {
	return &recordingFS{RealFS: fsops.NewRealFS(), failSrc: make(map[string]error)}
}

func (f *recordingFS) Move(src, dst string) error {
	f.moves = append(f.moves, fsops.Pair{Src: src, Dst: dst})
	if err, ok := f.failSrc[src]; ok {
		return err
	}
	return f.RealFS.Move(src, dst)
}

func (f *recordingFS) Copy(src, dst string) error {
	f.copies = append(f.copies, fsops.Pair{Src: src, Dst: dst})
	if err, ok := f.failSrc[src]; ok {
		return err
	}
	return f.RealFS.Copy(src, dst)
}

func (f *recordingFS) mutations() int {
	return len(f.moves) + len(f.copies)
}

// recordingNotifier captures downstream notifications.
type recordingNotifier struct {
	created  [][]string
	moved    []planner.Mapping
	released [][]string
}

func (n *recordingNotifier) PathsCreated(paths []string)        { n.created = append(n.created, paths) }
func (n *recordingNotifier) PathsMoved(mapping planner.Mapping) { n.moved = append(n.moved, mapping) }
func (n *recordingNotifier) ReleaseBuffers(paths []string)      { n.released = append(n.released, paths) }

type fixture struct {
	root     string
	fs       *recordingFS
	prompter *prompt.Scripted
	notifier *recordingNotifier
	engine   *Engine
}

func newFixture(t *testing.T, answers ...prompt.Answer) *fixture {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		root:     root,
		fs:       newRecordingFS(),
		prompter: prompt.NewScripted(answers...),
		notifier: &recordingNotifier{},
	}
	f.engine = New(f.fs, f.prompter, f.notifier, logger.Discard())
	return f
}

func (f *fixture) path(parts ...string) string {
	return filepath.Join(append([]string{f.root}, parts...)...)
}

func (f *fixture) write(t *testing.T, rel string) string {
	t.Helper()
	p := f.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(rel), 0644))
	return p
}

func (f *fixture) mkdir(t *testing.T, rel string) string {
	t.Helper()
	p := f.path(rel)
	require.NoError(t, os.MkdirAll(p, 0755))
	return p
}
