package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/arbor/internal/engine"
)

// setupTestEnv creates a tree root and points ARBOR_ROOT at a scratch
// directory so sessions never touch the real home directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Setenv("ARBOR_ROOT", filepath.Join(tmpDir, ".arbor"))
	t.Setenv("ARBOR_LOG_LEVEL", "error")
	color.NoColor = true

	root := filepath.Join(tmpDir, "tree")
	require.NoError(t, os.MkdirAll(root, 0755))
	return root
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes arbor with args and returns everything written to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0644))
	return path
}

func TestTreeCommand_Render(t *testing.T) {
	root := setupTestEnv(t)
	writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "sub", "b.txt"))
	require.NoError(t, os.Symlink("a.txt", filepath.Join(root, "link")))
	require.NoError(t, os.Symlink("missing", filepath.Join(root, "dangling")))

	out, err := run(t, "--root", root, "tree")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"  ▾ " + root + "/",
		"    a.txt",
		"    dangling -> missing",
		"    link -> a.txt",
		"    ▸ sub/",
	}, lines)
}

func TestTreeCommand_JSON(t *testing.T) {
	root := setupTestEnv(t)
	writeFile(t, filepath.Join(root, "a.go"))

	out, err := run(t, "--root", root, "--json", "tree")
	require.NoError(t, err)

	var got sessionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, root, got.Root.Path)
	assert.Equal(t, "folder", got.Root.Mode)
	require.Len(t, got.Root.Children, 1)
	assert.Equal(t, ".go", got.Root.Children[0].Ext)
	assert.Equal(t, []string{root}, got.Expanded)
}

func TestExpandCollapse_Persisted(t *testing.T) {
	root := setupTestEnv(t)
	writeFile(t, filepath.Join(root, "sub", "b.txt"))
	sub := filepath.Join(root, "sub")

	_, err := run(t, "--root", root, "expand", sub)
	require.NoError(t, err)

	out, err := run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "▾ sub/")
	assert.Contains(t, out, "b.txt")

	_, err = run(t, "--root", root, "collapse", sub)
	require.NoError(t, err)

	out, err = run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ sub/")
	assert.NotContains(t, out, "b.txt")
}

func TestExpand_OutsideRoot(t *testing.T) {
	root := setupTestEnv(t)

	_, err := run(t, "--root", root, "expand", filepath.Dir(root))
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestResetCommand_ForgetsView(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "a.txt"))
	sub := filepath.Join(root, "sub")
	writeFile(t, filepath.Join(sub, "b.txt"))

	_, err := run(t, "--root", root, "expand", sub)
	require.NoError(t, err)
	_, err = run(t, "--root", root, "select", a)
	require.NoError(t, err)

	out, err := run(t, "--root", root, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ sub/")
	assert.NotContains(t, out, "b.txt")
	assert.NotContains(t, out, "*")

	// nothing is left behind for the next invocation
	out, err = run(t, "--root", root, "--json", "tree")
	require.NoError(t, err)
	var sess sessionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &sess))
	assert.Empty(t, sess.Selection)
	assert.Equal(t, []string{root}, sess.Expanded)

	_, err = run(t, "--root", root, "reset")
	assert.NoError(t, err, "resetting twice is harmless")
}

func TestTreeCommand_EmptyRoot(t *testing.T) {
	root := setupTestEnv(t)

	out, err := run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.Equal(t, "  ▾ "+root+"/\n  (empty)\n", out)
}

func TestSelectDeselect_Persisted(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "a.txt"))
	b := writeFile(t, filepath.Join(root, "b.txt"))

	_, err := run(t, "--root", root, "select", a, b)
	require.NoError(t, err)

	out, err := run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "* a.txt")
	assert.Contains(t, out, "* b.txt")

	_, err = run(t, "--root", root, "deselect", a)
	require.NoError(t, err)
	out, err = run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.NotContains(t, out, "* a.txt")
	assert.Contains(t, out, "* b.txt")

	_, err = run(t, "--root", root, "deselect")
	require.NoError(t, err)
	out, err = run(t, "--root", root, "tree")
	require.NoError(t, err)
	assert.NotContains(t, out, "*")
}

func TestRefreshCommand(t *testing.T) {
	root := setupTestEnv(t)
	_, err := run(t, "--root", root, "tree")
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "late.txt"))
	out, err := run(t, "--root", root, "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "late.txt")
}

func TestCopyCommand_UsesSelection(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "src", "a.txt"))
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(dst, 0755))

	_, err := run(t, "--root", root, "select", a)
	require.NoError(t, err)

	out, err := run(t, "--root", root, "--yes", "--json", "copy", "--to", dst)
	require.NoError(t, err)

	var got operationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Applied)
	assert.Equal(t, filepath.Join(dst, "a.txt"), got.Focus)
	require.Len(t, got.Mapping, 1)
	assert.Equal(t, a, got.Mapping[0].Src)

	_, err = os.Stat(a)
	assert.NoError(t, err, "copy keeps the source")
	_, err = os.Stat(filepath.Join(dst, "a.txt"))
	assert.NoError(t, err)

	// the destination becomes the selection
	out, err = run(t, "--root", root, "--json", "tree")
	require.NoError(t, err)
	var sess sessionJSON
	require.NoError(t, json.Unmarshal([]byte(out), &sess))
	assert.Equal(t, []string{filepath.Join(dst, "a.txt")}, sess.Selection)
}

func TestCutCommand_ExplicitPaths(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "a.txt"))
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(dst, 0755))

	out, err := run(t, "--root", root, "--yes", "cut", "--to", dst, a)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved 1 entry")
	assert.Contains(t, out, "a.txt -> dst/a.txt")
	assert.Contains(t, out, "Focus: dst/a.txt")

	_, err = os.Lstat(a)
	assert.True(t, os.IsNotExist(err))
}

func TestCutCommand_UnattendedCollisionIsUnresolved(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "dst", "a.txt"))

	_, err := run(t, "--root", root, "--yes", "cut", "--to", filepath.Join(root, "dst"), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrCollisionUnresolved))

	_, statErr := os.Stat(a)
	assert.NoError(t, statErr, "nothing is moved")
}

func TestCutCommand_NothingSelected(t *testing.T) {
	root := setupTestEnv(t)
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(dst, 0755))

	_, err := run(t, "--root", root, "--yes", "cut", "--to", dst)
	assert.ErrorIs(t, err, engine.ErrNothingSelected)
}

func TestCutCommand_RequiresTarget(t *testing.T) {
	root := setupTestEnv(t)
	a := writeFile(t, filepath.Join(root, "a.txt"))

	_, err := run(t, "--root", root, "--yes", "cut", a)
	assert.Error(t, err)
}
