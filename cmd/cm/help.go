package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alfredjeanlab/cinemap/internal/ui"
	"github.com/spf13/cobra"
)

// helpRule restyles every match of pattern in cobra's help text.
type helpRule struct {
	pattern *regexp.Regexp
	apply   func(groups []string) string
}

// helpRules run in order; each sees the output of the previous one.
var helpRules = []helpRule{
	// Group and section headers such as "Graph:" or "Flags:".
	{
		pattern: regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`),
		apply:   func(g []string) string { return ui.RenderAccent(strings.TrimSpace(g[0])) },
	},
	// Command names in a command list: two-space indent, a word, a gap.
	{
		pattern: regexp.MustCompile(`(?m)^(  )(\S+)(  )`),
		apply:   func(g []string) string { return g[1] + ui.RenderCommand(g[2]) + g[3] },
	},
	// Flag value types, e.g. "--url string" or "--strength int".
	{
		pattern: regexp.MustCompile(`(--?\S+\s+)(string|int|float64|duration|stringSlice|stringArray)\b`),
		apply:   func(g []string) string { return g[1] + ui.RenderMuted(g[2]) },
	},
	// Defaults, e.g. (default "explore").
	{
		pattern: regexp.MustCompile(`\(default [^)]*\)`),
		apply:   func(g []string) string { return ui.RenderMuted(g[0]) },
	},
	// Mode names get the warning color so build mode stands out.
	{
		pattern: regexp.MustCompile(`\b(explore|build) mode\b`),
		apply:   func(g []string) string { return ui.RenderWarn(g[0]) },
	},
}

// colorizedHelpFunc returns a cobra help function that colors the default
// help text when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			cmd.SetOut(out)
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)

		fmt.Fprint(out, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, r := range helpRules {
		s = r.pattern.ReplaceAllStringFunc(s, func(match string) string {
			return r.apply(r.pattern.FindStringSubmatch(match))
		})
	}
	return s
}
