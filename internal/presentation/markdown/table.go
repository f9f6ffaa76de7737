// Package markdown renders machine definitions as Markdown documents.
package markdown

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Describe renders a definition as a Markdown document: a header with the
// machine's metadata followed by its transition table.
func Describe(def *domain.Definition) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", def.Name))
	if def.Description != "" {
		sb.WriteString(def.Description + "\n\n")
	}

	finals := make([]string, len(def.Finals))
	for i, f := range def.Finals {
		finals[i] = code(string(f))
	}
	sb.WriteString(fmt.Sprintf("- **Start:** %s\n", code(string(def.Start))))
	sb.WriteString(fmt.Sprintf("- **Final:** %s\n", strings.Join(finals, ", ")))
	sb.WriteString(fmt.Sprintf("- **Blank:** %s\n", code(string(def.BlankSymbol()))))
	sb.WriteString(fmt.Sprintf("- **Rules:** %d\n\n", len(def.Transitions)))

	sb.WriteString(Table(def.Transitions))
	return sb.String()
}

// Table renders transitions as a Markdown table in declaration order.
func Table(transitions []domain.Transition) string {
	var sb strings.Builder
	sb.WriteString("| State | Read | Next | Write | Move |\n")
	sb.WriteString("|-------|------|------|-------|------|\n")
	for _, t := range transitions {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			code(string(t.From.State)),
			code(string(t.From.Symbol)),
			code(string(t.To.State)),
			code(string(t.To.Write)),
			t.To.Move,
		))
	}
	return sb.String()
}

// code wraps s in backticks, escaping pipes so table cells stay intact.
// Whitespace-only values are shown quoted so they remain visible.
func code(s string) string {
	if strings.TrimSpace(s) == "" {
		s = "'" + s + "'"
	}
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}
