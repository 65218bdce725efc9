package tree

import (
	"os"
	"strings"

	"github.com/danieljhkim/arbor/internal/fsops"
)

// Mode is a set of semantic attributes of a filesystem entry.
type Mode uint16

const (
	ModeFolder Mode = 1 << iota
	ModeFile
	ModePipe
	ModeSocket
	ModeLink
	ModeOrphanLink
	ModeExecutable
	ModeOtherWritable
	ModeStickyDir
	ModeSetGID
	ModeSetUID
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeFolder, "folder"},
	{ModeFile, "file"},
	{ModePipe, "pipe"},
	{ModeSocket, "socket"},
	{ModeLink, "link"},
	{ModeOrphanLink, "orphan_link"},
	{ModeExecutable, "executable"},
	{ModeOtherWritable, "other_writable"},
	{ModeStickyDir, "sticky_dir"},
	{ModeSetGID, "set_gid"},
	{ModeSetUID, "set_uid"},
}

// Has reports whether every tag in m2 is set in m.
func (m Mode) Has(m2 Mode) bool {
	return m&m2 == m2
}

// String lists the set tags, e.g. "folder|sticky_dir".
func (m Mode) String() string {
	var parts []string
	for _, mn := range modeNames {
		if m&mn.mode != 0 {
			parts = append(parts, mn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// permission bits that map to independent tags
var permModes = []struct {
	bit  os.FileMode
	mode Mode
}{
	{0o100, ModeExecutable},
	{0o002, ModeOtherWritable},
	{os.ModeSticky, ModeStickyDir},
	{os.ModeSetgid, ModeSetGID},
	{os.ModeSetuid, ModeSetUID},
}

// Classify maps raw file mode bits to a Mode. The entry type yields at most
// one of folder, file, pipe or socket; permission tags are set independently.
func Classify(fm os.FileMode) Mode {
	var m Mode
	switch {
	case fm.IsDir():
		m |= ModeFolder
	case fm.IsRegular():
		m |= ModeFile
	case fm&os.ModeNamedPipe != 0:
		m |= ModePipe
	case fm&os.ModeSocket != 0:
		m |= ModeSocket
	}
	for _, pm := range permModes {
		if fm&pm.bit == pm.bit {
			m |= pm.mode
		}
	}
	return m
}

// StatPath classifies the entry at path. It never fails: an entry that cannot
// be stat'd, or a symlink whose target cannot be resolved, is ModeOrphanLink.
func StatPath(fs fsops.FS, path string) Mode {
	info, err := fs.Lstat(path)
	if err != nil {
		return ModeOrphanLink
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return Classify(info.Mode())
	}

	target, err := fs.Stat(path)
	if err != nil {
		return ModeOrphanLink
	}
	return Classify(target.Mode()) | ModeLink
}
