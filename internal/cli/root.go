package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	rootFlag   string
	assumeYes  bool

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for arbor.
var rootCmd = &cobra.Command{
	Use:     "arbor",
	Version: "dev",
	Short:   "Lazy filesystem tree with conflict-aware cut and copy",
	Long: `arbor keeps a lazily expanded view of a directory tree and moves or copies
selected entries into it.

Collisions are resolved interactively before anything touches the disk, and the
working directory and its ancestors are protected from being cut.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// customHelpFunc returns a custom help function that colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	// Additional Commands section
	hasUngrouped := false
	for _, c := range cmd.Commands() {
		if c.GroupID == "" && !c.Hidden {
			if !hasUngrouped {
				help.WriteString(sectionTitleColor.Sprint("Additional Commands:"))
				help.WriteString("\n")
				hasUngrouped = true
			}
			fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
		}
	}
	if hasUngrouped {
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func init() {
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Tree root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Confirm every plan and decline every rename without prompting")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "tree-view",
		Title: "Tree View:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "selection",
		Title: "Selection:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "operations",
		Title: "Operations:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the arbor CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Root().Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for arbor for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "powershell",
		Short:                 "Generate the autocompletion script for powershell",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(completionCmd)

	// Tree View commands
	treeCmd.GroupID = "tree-view"
	expandCmd.GroupID = "tree-view"
	collapseCmd.GroupID = "tree-view"
	refreshCmd.GroupID = "tree-view"
	resetCmd.GroupID = "tree-view"
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(collapseCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(resetCmd)

	// Selection commands
	selectCmd.GroupID = "selection"
	deselectCmd.GroupID = "selection"
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(deselectCmd)

	// Operations commands
	cutCmd.GroupID = "operations"
	copyCmd.GroupID = "operations"
	rootCmd.AddCommand(cutCmd)
	rootCmd.AddCommand(copyCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command with ctx, which is handed to
// prompts and commits so that an interrupt aborts them.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
