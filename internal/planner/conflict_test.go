package planner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/pathset"
	"github.com/danieljhkim/arbor/internal/tree"
)

// mockFS is a mock implementation of fsops.FS for testing. Only existence
// checks are answered; every mutation is recorded and fails the test.
type mockFS struct {
	exists    map[string]bool
	existsErr map[string]error
	mutations []string
}

func newMockFS(existing ...string) *mockFS {
	m := &mockFS{
		exists:    make(map[string]bool),
		existsErr: make(map[string]error),
	}
	for _, p := range existing {
		m.exists[p] = true
	}
	return m
}

func (m *mockFS) Exists(path string, follow bool) (bool, error) {
	if err, ok := m.existsErr[path]; ok {
		return false, err
	}
	return m.exists[path], nil
}

func (m *mockFS) Move(src, dst string) error {
	m.mutations = append(m.mutations, "move "+src)
	return nil
}

func (m *mockFS) Copy(src, dst string) error {
	m.mutations = append(m.mutations, "copy "+src)
	return nil
}

// Unused methods for mockFS
func (m *mockFS) Lstat(path string) (os.FileInfo, error)                       { return nil, os.ErrNotExist }
func (m *mockFS) Stat(path string) (os.FileInfo, error)                        { return nil, os.ErrNotExist }
func (m *mockFS) ReadDir(path string) ([]string, error)                        { return nil, os.ErrNotExist }
func (m *mockFS) Readlink(path string) (string, error)                         { return "", os.ErrNotExist }
func (m *mockFS) Remove(path string) error                                     { return nil }
func (m *mockFS) AtomicWrite(path string, data []byte, perm os.FileMode) error { return nil }
func (m *mockFS) ReadFile(path string) ([]byte, error)                         { return nil, nil }

func folder(path string) *tree.Node {
	return &tree.Node{Path: path, Name: filepath.Base(path), Mode: tree.ModeFolder}
}

func file(path string) *tree.Node {
	return &tree.Node{Path: path, Name: filepath.Base(path), Ext: filepath.Ext(path), Mode: tree.ModeFile}
}

func TestDestination(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target *tree.Node
		want   string
	}{
		{"into folder", "/src/x.txt", folder("/dst"), "/dst/x.txt"},
		{"beside file", "/src/x.txt", file("/dst/other.go"), "/dst/x.txt"},
		{"folder source", "/src/pkg", folder("/dst"), "/dst/pkg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Destination(tt.src, tt.target))
		})
	}
}

func TestPropose_Guards(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "empty selection",
			req:     Request{Op: OpCut, Selection: pathset.New(), Target: folder("/dst")},
			wantErr: ErrNothingSelected,
		},
		{
			name:    "no target",
			req:     Request{Op: OpCut, Selection: pathset.New("/a")},
			wantErr: ErrNothingSelected,
		},
		{
			name: "working directory",
			req: Request{
				Op:        OpCut,
				Selection: pathset.New("/home/me/proj"),
				Target:    folder("/tmp"),
				Forbidden: pathset.New("/home/me/proj", "/home/me", "/home", "/"),
			},
			wantErr: ErrForbidden,
		},
		{
			name: "ancestor of working directory",
			req: Request{
				Op:        OpCut,
				Selection: pathset.New("/home/me", "/home/me/file"),
				Target:    folder("/tmp"),
				Forbidden: pathset.New("/home/me/proj", "/home/me", "/home", "/"),
			},
			wantErr: ErrForbidden,
		},
		{
			name: "folder into itself",
			req: Request{
				Op:        OpCopy,
				Selection: pathset.New("/a"),
				Target:    folder("/a/b"),
			},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newMockFS()
			_, err := Propose(fs, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, fs.mutations)
		})
	}
}

func TestPropose_UnifiesSelection(t *testing.T) {
	n, err := Propose(newMockFS(), Request{
		Op:        OpCopy,
		Selection: pathset.New("/a", "/a/b"),
		Target:    folder("/dst"),
	})
	require.NoError(t, err)
	assert.Equal(t, StateResolved, n.State())

	mapping, err := n.Result()
	require.NoError(t, err)
	assert.Equal(t, Mapping{"/a": "/dst/a"}, mapping)
}

func TestNegotiation_RenameRoundTrip(t *testing.T) {
	fs := newMockFS("/dst/x.txt")
	n, err := Propose(fs, Request{Op: OpCopy, Selection: pathset.New("/src/x.txt"), Target: folder("/dst")})
	require.NoError(t, err)

	assert.Equal(t, Mapping{"/src/x.txt": "/dst/x.txt"}, n.Proposed())
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, fsops.Pair{Src: "/src/x.txt", Dst: "/dst/x.txt"}, cur)

	require.NoError(t, n.Answer("y.txt", true))
	assert.Equal(t, StateResolved, n.State())

	mapping, err := n.Result()
	require.NoError(t, err)
	assert.Equal(t, Mapping{"/src/x.txt": "/dst/y.txt"}, mapping)
}

func TestNegotiation_TakenAnswerKeepsEntryPending(t *testing.T) {
	fs := newMockFS("/dst/x.txt", "/dst/y.txt")
	n, err := Propose(fs, Request{Op: OpCopy, Selection: pathset.New("/src/x.txt"), Target: folder("/dst")})
	require.NoError(t, err)

	require.NoError(t, n.Answer("y.txt", true))
	cur, ok := n.Current()
	require.True(t, ok, "collision must persist")
	assert.Equal(t, "/dst/y.txt", cur.Dst)

	require.NoError(t, n.Answer("z.txt", true))
	mapping, err := n.Result()
	require.NoError(t, err)
	assert.Equal(t, Mapping{"/src/x.txt": "/dst/z.txt"}, mapping)
}

func TestNegotiation_InvalidNameIsAskedAgain(t *testing.T) {
	fs := newMockFS("/dst/x.txt")
	n, err := Propose(fs, Request{Op: OpCopy, Selection: pathset.New("/src/x.txt"), Target: folder("/dst")})
	require.NoError(t, err)

	for _, bad := range []string{"..", "sub/y.txt", "."} {
		require.NoError(t, n.Answer(bad, true))
		cur, ok := n.Current()
		require.True(t, ok)
		assert.Equal(t, "/dst/x.txt", cur.Dst)
		require.Error(t, n.Rejected(), bad)
		assert.Contains(t, n.Rejected().Error(), bad)
	}

	require.NoError(t, n.Answer("y.txt", true))
	assert.NoError(t, n.Rejected())
	assert.Equal(t, StateResolved, n.State())
}

func TestNegotiation_TakenNameIsNotRejected(t *testing.T) {
	fs := newMockFS("/dst/x.txt", "/dst/y.txt")
	n, err := Propose(fs, Request{Op: OpCopy, Selection: pathset.New("/src/x.txt"), Target: folder("/dst")})
	require.NoError(t, err)

	require.NoError(t, n.Answer("a/b", true))
	require.Error(t, n.Rejected())

	require.NoError(t, n.Answer("y.txt", true))
	assert.NoError(t, n.Rejected(), "a taken name is reported through the destination")
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "/dst/y.txt", cur.Dst)
}

func TestNegotiation_DeclineStopsAndReportsAllRemaining(t *testing.T) {
	fs := newMockFS("/dst/a", "/dst/b", "/dst/c")
	n, err := Propose(fs, Request{
		Op:        OpCut,
		Selection: pathset.New("/src/c", "/src/a", "/src/b", "/src/free"),
		Target:    folder("/dst"),
	})
	require.NoError(t, err)

	// first collision in source order is /src/a
	cur, _ := n.Current()
	assert.Equal(t, "/src/a", cur.Src)
	require.NoError(t, n.Answer("a2", true))

	cur, _ = n.Current()
	assert.Equal(t, "/src/b", cur.Src)
	require.NoError(t, n.Answer("", false))
	assert.Equal(t, StateUnresolved, n.State())

	_, ok := n.Current()
	assert.False(t, ok, "no further collisions are asked after a decline")

	_, err = n.Result()
	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	assert.True(t, errors.Is(err, ErrCollisionUnresolved))
	assert.Equal(t, []fsops.Pair{
		{Src: "/src/b", Dst: "/dst/b"},
		{Src: "/src/c", Dst: "/dst/c"},
	}, collision.Pairs)
	assert.Contains(t, err.Error(), "/src/b -> /dst/b")
	assert.Empty(t, fs.mutations)
}

func TestNegotiation_DuplicateBaseNamesCollide(t *testing.T) {
	n, err := Propose(newMockFS(), Request{
		Op:        OpCopy,
		Selection: pathset.New("/one/x", "/two/x"),
		Target:    folder("/dst"),
	})
	require.NoError(t, err)

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, fsops.Pair{Src: "/two/x", Dst: "/dst/x"}, cur)

	// renaming onto the destination claimed by /one/x is still taken
	require.NoError(t, n.Answer("x", true))
	_, ok = n.Current()
	require.True(t, ok)

	require.NoError(t, n.Answer("x-two", true))
	mapping, err := n.Result()
	require.NoError(t, err)
	assert.Equal(t, Mapping{"/one/x": "/dst/x", "/two/x": "/dst/x-two"}, mapping)
}

func TestNegotiation_ExistsErrorPropagates(t *testing.T) {
	fs := newMockFS()
	fs.existsErr["/dst/x"] = os.ErrPermission
	_, err := Propose(fs, Request{Op: OpCopy, Selection: pathset.New("/src/x"), Target: folder("/dst")})
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestNegotiation_AnswerWhenNotAwaiting(t *testing.T) {
	n, err := Propose(newMockFS(), Request{Op: OpCopy, Selection: pathset.New("/src/x"), Target: folder("/dst")})
	require.NoError(t, err)
	assert.Error(t, n.Answer("y", true))
}
