package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/aidots/aidots/pkg/style"
	"github.com/aidots/aidots/pkg/types"
)

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	// Only apply formatting if output is a terminal
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// printResults writes one summary line per reconciled tool, with a
// checkmark for applied actions, an exclamation mark for warnings and
// a dash for no-ops.
func printResults(w io.Writer, results []types.Result) {
	for _, res := range results {
		var prefix string
		switch {
		case res.IsWarning():
			prefix = style.Render(style.Warning, "!")
		case res.Status == types.StatusNoop:
			prefix = style.Render(style.Muted, "-")
		default:
			prefix = style.Render(style.Success, "✓")
		}
		fmt.Fprintf(w, "  %s %s: %s\n", prefix, formatBold(res.Tool), res.Message)
	}
}

// printState writes one line per tool for the status command.
func printState(w io.Writer, tool string, state types.LinkState) {
	var rendered string
	switch state {
	case types.StateLinkToUs:
		rendered = style.Render(style.Success, string(state))
	case types.StateLinkToOther, types.StateRegularPath:
		rendered = style.Render(style.Warning, string(state))
	default:
		rendered = style.Render(style.Muted, string(state))
	}
	fmt.Fprintf(w, "  %s: %s\n", formatBold(tool), rendered)
}
