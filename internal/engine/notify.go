package engine

import (
	charm "github.com/charmbracelet/log"

	"github.com/danieljhkim/arbor/internal/planner"
)

// Notifier receives fire-and-forget notifications after a successful commit.
type Notifier interface {
	// PathsCreated is called with the destinations of a copy.
	PathsCreated(paths []string)

	// PathsMoved is called with the mapping of a cut.
	PathsMoved(mapping planner.Mapping)

	// ReleaseBuffers is called with the selection of a cut before PathsMoved,
	// so that holders of the old paths can let go of them.
	ReleaseBuffers(paths []string)
}

// LogNotifier logs every notification at debug level.
type LogNotifier struct {
	log *charm.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(log *charm.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) PathsCreated(paths []string) {
	n.log.Debug("paths created", "paths", paths)
}

func (n *LogNotifier) PathsMoved(mapping planner.Mapping) {
	for _, p := range mapping.Pairs() {
		n.log.Debug("path moved", "from", p.Src, "to", p.Dst)
	}
}

func (n *LogNotifier) ReleaseBuffers(paths []string) {
	n.log.Debug("releasing buffers", "paths", paths)
}
