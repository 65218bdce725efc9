package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// fatih/color detects non-TTY output and disables colors on its own
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)

	// Tree entry colors
	folderColor     = color.New(color.FgBlue, color.Bold)
	linkColor       = color.New(color.FgCyan)
	orphanLinkColor = color.New(color.FgRed)
	executableColor = color.New(color.FgGreen)
	selectedColor   = color.New(color.FgYellow, color.Bold)
)

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(w io.Writer, msg string) {
	_, _ = successColor.Fprintf(w, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(w io.Writer, msg string) {
	_, _ = warningColor.Fprintf(w, "⚠ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(w io.Writer, label, value string) {
	_, _ = labelColor.Fprintf(w, "  %s: ", label)
	_, _ = valueColor.Fprintln(w, value)
}

// PrintList prints a list of items with bullet points
func PrintList(w io.Writer, items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(w, "%s• %s\n", indentStr, item)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(w io.Writer, msg string) {
	_, _ = dimColor.Fprintf(w, "  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
