package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/table"
)

// ErrIssues is matched by the error Validate returns when the machine is
// well-formed but the analysis found problems.
var ErrIssues = errors.New("machine has issues")

// IssueKind classifies a finding.
type IssueKind string

const (
	// DeadEnd is a reachable, non-final state without transitions: every run
	// entering it fails.
	DeadEnd IssueKind = "dead_end"
	// FinalWithTransitions is a final state with rules that can never fire.
	FinalWithTransitions IssueKind = "final_with_transitions"
	// Unreachable is a state with rules that no run can enter.
	Unreachable IssueKind = "unreachable"
)

// Issue is one finding of Analyze.
type Issue struct {
	Kind  IssueKind
	State domain.State
}

func (i Issue) String() string {
	switch i.Kind {
	case DeadEnd:
		return fmt.Sprintf("state '%s' is reachable, not final and has no transitions", i.State)
	case FinalWithTransitions:
		return fmt.Sprintf("final state '%s' has transitions that never fire", i.State)
	case Unreachable:
		return fmt.Sprintf("state '%s' is unreachable from the start state", i.State)
	}
	return string(i.Kind) + ": " + string(i.State)
}

// Report is the result of crawling a machine from its start state.
type Report struct {
	Reachable []domain.State
	Issues    []Issue
}

// Analyze checks the definition structurally, then walks every state
// reachable from the start state. Structural errors (missing start, bad moves,
// duplicate rules) are returned as the error; findings go into the Report.
func Analyze(def *domain.Definition) (*Report, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	tbl, err := table.Build(def.Transitions)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	visited := map[domain.State]bool{def.Start: true}
	queue := []domain.State{def.Start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		report.Reachable = append(report.Reachable, current)

		rules := tbl.From(current)
		final := def.IsFinal(current)
		switch {
		case final && len(rules) > 0:
			report.Issues = append(report.Issues, Issue{Kind: FinalWithTransitions, State: current})
		case !final && len(rules) == 0:
			report.Issues = append(report.Issues, Issue{Kind: DeadEnd, State: current})
		}
		if final {
			continue // the machine halts here
		}

		for _, r := range rules {
			if !visited[r.To.State] {
				visited[r.To.State] = true
				queue = append(queue, r.To.State)
			}
		}
	}

	for _, s := range tbl.States() {
		if !visited[s] {
			report.Issues = append(report.Issues, Issue{Kind: Unreachable, State: s})
		}
	}
	return report, nil
}

// Validate runs Analyze and folds every finding into a single error.
func Validate(def *domain.Definition) error {
	report, err := Analyze(def)
	if err != nil {
		return err
	}
	if len(report.Issues) == 0 {
		return nil
	}
	lines := make([]string, len(report.Issues))
	for i, issue := range report.Issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("%w: found %d issues:\n- %s", ErrIssues, len(lines), strings.Join(lines, "\n- "))
}
