package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/arbor/internal/engine"
	"github.com/danieljhkim/arbor/internal/fsops"
	"github.com/danieljhkim/arbor/internal/planner"
)

var cutCmd = &cobra.Command{
	Use:   "cut --to <target> [path]...",
	Short: "Move the selection next to a target",
	Long: `Move the selected entries into the folder at --to, or next to it when --to is a file.

Paths given as arguments are used instead of the stored selection. Destinations
that already exist are renamed interactively. The working directory, the tree
root and their ancestors cannot be cut.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, planner.OpCut)
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy --to <target> [path]...",
	Short: "Copy the selection next to a target",
	Long: `Copy the selected entries into the folder at --to, or next to it when --to is a file.

Paths given as arguments are used instead of the stored selection. Destinations
that already exist are renamed interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd, args, planner.OpCopy)
	},
}

func init() {
	for _, c := range []*cobra.Command{cutCmd, copyCmd} {
		c.Flags().String("to", "", "Target folder, or a file whose folder receives the entries")
		_ = c.MarkFlagRequired("to")
	}
}

// operationJSON is the JSON rendering of a cut or copy outcome.
type operationJSON struct {
	Op      planner.Op   `json:"op"`
	Applied bool         `json:"applied"`
	Mapping []fsops.Pair `json:"mapping"`
	Focus   string       `json:"focus,omitempty"`
}

func runOperation(cmd *cobra.Command, args []string, op planner.Op) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	to, _ := cmd.Flags().GetString("to")
	target, err := engine.ResolvePath(to, a.cwd, a.root)
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

	req := &engine.OperationRequest{
		Session: sess,
		CWD:     a.cwd,
		Target:  target,
		Paths:   paths,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result *engine.OperationResult
	if op.IsMove() {
		result, err = a.engine.Cut(ctx, req)
	} else {
		result, err = a.engine.Copy(ctx, req)
	}
	if err != nil {
		var commitErr *engine.CommitError
		if errors.As(err, &commitErr) && result != nil {
			// keep whatever the refresh found on disk
			if serr := a.saveSession(result.Session); serr != nil {
				PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("failed to save session: %v", serr))
			}
		}
		return err
	}

	if err := a.saveSession(result.Session); err != nil {
		return err
	}
	return a.printOperation(cmd.OutOrStdout(), op, result)
}

func (a *app) printOperation(w io.Writer, op planner.Op, result *engine.OperationResult) error {
	pairs := result.Mapping.Pairs()
	if jsonOutput {
		return outputJSON(w, &operationJSON{
			Op:      op,
			Applied: result.Applied,
			Mapping: pairs,
			Focus:   result.Focus,
		})
	}

	if !result.Applied {
		PrintInfo(w, "Nothing changed")
		return nil
	}

	verb := "Copied"
	if op.IsMove() {
		verb = "Moved"
	}
	PrintSuccess(w, fmt.Sprintf("%s %s", verb, PrintCount(len(pairs), "entry", "entries")))
	PrintList(w, lo.Map(pairs, func(p fsops.Pair, _ int) string {
		return a.display(p.Src) + " -> " + a.display(p.Dst)
	}), 1)
	PrintLabelValue(w, "Focus", a.display(result.Focus))
	return nil
}
