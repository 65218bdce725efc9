package tree

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/arbor/internal/fsops"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		fm   os.FileMode
		want Mode
	}{
		{
			name: "plain file",
			fm:   0o644,
			want: ModeFile,
		},
		{
			name: "executable file",
			fm:   0o755,
			want: ModeFile | ModeExecutable,
		},
		{
			name: "group exec only is not executable",
			fm:   0o654,
			want: ModeFile,
		},
		{
			name: "world writable sticky dir",
			fm:   os.ModeDir | os.ModeSticky | 0o777,
			want: ModeFolder | ModeStickyDir | ModeOtherWritable | ModeExecutable,
		},
		{
			name: "setuid setgid binary",
			fm:   os.ModeSetuid | os.ModeSetgid | 0o755,
			want: ModeFile | ModeSetUID | ModeSetGID | ModeExecutable,
		},
		{
			name: "named pipe",
			fm:   os.ModeNamedPipe | 0o600,
			want: ModePipe,
		},
		{
			name: "socket",
			fm:   os.ModeSocket | 0o600,
			want: ModeSocket,
		},
		{
			name: "device gets no type tag",
			fm:   os.ModeDevice | 0o600,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.fm)
			assert.Equal(t, tt.want, got, "got %s", got)
			assert.Equal(t, got, Classify(tt.fm), "classification must be stable")
			assert.False(t, got.Has(ModeFolder) && got.Has(ModeFile))
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "folder|sticky_dir", (ModeFolder | ModeStickyDir).String())
	assert.Equal(t, "orphan_link", ModeOrphanLink.String())
	assert.Equal(t, "none", Mode(0).String())
}

func TestStatPath(t *testing.T) {
	fs := fsops.NewRealFS()
	dir := t.TempDir()

	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	fileLink := filepath.Join(dir, "file-link")
	require.NoError(t, os.Symlink(file, fileLink))

	dirLink := filepath.Join(dir, "dir-link")
	require.NoError(t, os.Symlink(sub, dirLink))

	orphan := filepath.Join(dir, "orphan")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), orphan))

	fifo := filepath.Join(dir, "fifo")
	require.NoError(t, syscall.Mkfifo(fifo, 0600))

	tests := []struct {
		name string
		path string
		want Mode
	}{
		{"regular file", file, ModeFile},
		{"folder", sub, ModeFolder | ModeExecutable},
		{"link to file", fileLink, ModeFile | ModeLink},
		{"link to folder", dirLink, ModeFolder | ModeExecutable | ModeLink},
		{"orphan link", orphan, ModeOrphanLink},
		{"missing path", filepath.Join(dir, "missing"), ModeOrphanLink},
		{"pipe", fifo, ModePipe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatPath(fs, tt.path)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}
