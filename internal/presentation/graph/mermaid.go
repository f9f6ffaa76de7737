package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains run data to highlight on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
}

// GenerateMermaid produces a Mermaid flowchart of the machine's state graph.
// It applies semantic styling:
// - Start: ((Circle))
// - Final: (((Double circle)))
// - Default: [Rectangle]
// Every edge is labelled "read/write,move"; rules sharing the same pair of
// states are merged into one edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(def *domain.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// States in first-seen order: start, rule endpoints, remaining finals.
	var order []domain.State
	seen := make(map[domain.State]bool)
	add := func(s domain.State) {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}
	add(def.Start)
	for _, t := range def.Transitions {
		add(t.From.State)
		add(t.To.State)
	}
	for _, f := range def.Finals {
		add(f)
	}

	for _, s := range order {
		opener, closer := "[", "]"
		switch {
		case def.IsFinal(s):
			opener, closer = "(((", ")))"
		case s == def.Start:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(s), opener, escape(string(s)), closer))
	}

	type edge struct{ from, to domain.State }
	var edges []edge
	labels := make(map[edge][]string)
	for _, t := range def.Transitions {
		e := edge{t.From.State, t.To.State}
		if _, ok := labels[e]; !ok {
			edges = append(edges, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s/%s,%s", symbol(t.From.Symbol), symbol(t.To.Write), t.To.Move))
	}
	for _, e := range edges {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(e.from), strings.Join(labels[e], "<br/>"), sanitizeMermaidID(e.to)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(s)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

// symbol makes whitespace symbols visible in labels.
func symbol(s domain.Symbol) string {
	if strings.TrimSpace(string(s)) == "" {
		return "'" + strings.ReplaceAll(string(s), " ", "␣") + "'"
	}
	return escape(string(s))
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

// sanitizeMermaidID maps a state name to a safe node identifier. The "s_"
// prefix keeps Mermaid keywords such as "end" from being taken literally.
func sanitizeMermaidID(s domain.State) string {
	var sb strings.Builder
	sb.WriteString("s_")
	for _, r := range string(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteString("_")
		}
	}
	return sb.String()
}
