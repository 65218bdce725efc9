package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/arbor/internal/engine"
	"github.com/danieljhkim/arbor/internal/pathset"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the tree",
	Long: `Print the materialized tree of the root.

Only expanded folders list their children. Folders end in '/', links show their
target after '->', and selected entries are marked with '*'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		sess, err := a.openSession()
		if err != nil {
			return err
		}
		return a.printSession(cmd.OutOrStdout(), sess)
	},
}

var expandCmd = &cobra.Command{
	Use:   "expand <path>...",
	Short: "Expand folders",
	Long:  `Add folders to the expansion index and list their children.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateView(cmd, args, func(a *app, sess *engine.Session, paths []string) (*engine.Session, error) {
			return a.engine.Expand(sess, paths...)
		})
	},
}

var collapseCmd = &cobra.Command{
	Use:   "collapse <path>...",
	Short: "Collapse folders",
	Long:  `Remove folders and everything below them from the expansion index.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateView(cmd, args, func(a *app, sess *engine.Session, paths []string) (*engine.Session, error) {
			return a.engine.Collapse(sess, paths...)
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [path]...",
	Short: "Re-read paths from disk",
	Long:  `Rebuild the given folders from disk. Without arguments the whole root is refreshed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateView(cmd, args, func(a *app, sess *engine.Session, paths []string) (*engine.Session, error) {
			return a.engine.Refresh(sess, pathset.New(paths...))
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored view",
	Long:  `Delete the expanded folders and the selection stored for the root and show the tree as on first use.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.store.DeleteSession(a.root); err != nil {
			return err
		}
		a.log.Debug("session deleted", "root", a.root)

		sess, err := a.openSession()
		if err != nil {
			return err
		}
		return a.printSession(cmd.OutOrStdout(), sess)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <path>...",
	Short: "Add paths to the selection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateView(cmd, args, func(a *app, sess *engine.Session, paths []string) (*engine.Session, error) {
			return a.engine.Select(sess, paths...), nil
		})
	},
}

var deselectCmd = &cobra.Command{
	Use:   "deselect [path]...",
	Short: "Remove paths from the selection",
	Long:  `Remove paths from the selection. Without arguments the selection is cleared.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateView(cmd, args, func(a *app, sess *engine.Session, paths []string) (*engine.Session, error) {
			return a.engine.Deselect(sess, paths...), nil
		})
	},
}

// updateView opens the session, applies fn to the resolved args, saves the
// result and prints it.
func updateView(cmd *cobra.Command, args []string, fn func(*app, *engine.Session, []string) (*engine.Session, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	paths, err := a.resolve(args)
	if err != nil {
		return err
	}
	sess, err := a.openSession()
	if err != nil {
		return err
	}

	next, err := fn(a, sess, paths)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}
	if err := a.saveSession(next); err != nil {
		return err
	}
	return a.printSession(cmd.OutOrStdout(), next)
}
