package turing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// ErrStopped is returned by Runner.Run when the user quits an interactive trace.
var ErrStopped = errors.New("stopped by user")

// Runner executes a machine while printing a trace of every step to Output.
// When Input is set the runner pauses before each step and reads a command:
// an empty line steps once, "c" continues to the end, "q" quits.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer TapeRenderer
}

// TapeRenderer turns the touched cells and the head position into a single
// line. It lets the CLI add colour without coupling the core package.
type TapeRenderer func(cells []domain.Cell, head int64) string

// NewRunner creates a Runner. Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run traces the machine until it halts, fails, the context is cancelled or
// the user quits.
func (r *Runner) Run(ctx context.Context, engine *Engine, cells []domain.Cell) (domain.Result, error) {
	return r.Trace(ctx, engine, engine.Start(cells))
}

// Trace is Run over an already started (or resumed) machine, so callers keep
// access to it afterwards, for instance to record a failed run.
func (r *Runner) Trace(ctx context.Context, engine *Engine, m *runtime.Machine) (domain.Result, error) {
	writer := r.Output
	if writer == nil {
		return domain.Result{}, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	var lineReader *bufio.Reader
	if r.Input != nil {
		lineReader = bufio.NewReader(r.Input)
	}
	render := r.Renderer
	if render == nil {
		render = PlainTape
	}

	if !r.Headless {
		fmt.Fprintf(writer, "--- %s ---\n", engine.Name)
	}

	for !m.Status().Terminal() {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, err
		}
		if !r.Headless {
			fmt.Fprintf(writer, "%5d  %-8s %s\n", m.Steps(), m.State(), render(m.Snapshot(), m.Position()))
		}

		if lineReader != nil {
			fmt.Fprint(writer, "> ")
			text, err := lineReader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return domain.Result{}, fmt.Errorf("input error: %w", err)
			}
			switch strings.TrimSpace(text) {
			case "q", "quit", "exit":
				fmt.Fprintln(writer, "Bye!")
				return domain.Result{}, ErrStopped
			case "c", "continue":
				lineReader = nil
			}
			if errors.Is(err, io.EOF) {
				lineReader = nil
			}
		}

		m.Step(ctx)
	}

	res, err := m.Result()
	if err != nil {
		if !r.Headless {
			fmt.Fprintf(writer, "failed: %v\n", err)
		}
		return res, err
	}
	if !r.Headless {
		fmt.Fprintf(writer, "%5d  %-8s %s\n", res.Steps, res.State, render(res.Tape, res.Position))
	}
	fmt.Fprintf(writer, "halted in %s at %d after %d steps\n", res.State, res.Position, res.Steps)
	return res, nil
}

// PlainTape renders cells left to right with the head cell in brackets.
// Gaps between touched cells are not shown; an untouched head cell is drawn
// as "[ ]" where it would sit.
func PlainTape(cells []domain.Cell, head int64) string {
	var sb strings.Builder
	placed := false
	for _, c := range cells {
		if !placed && c.Position > head {
			sb.WriteString("[ ]")
			placed = true
		}
		if c.Position == head {
			fmt.Fprintf(&sb, "[%s]", c.Symbol)
			placed = true
			continue
		}
		sb.WriteString(string(c.Symbol))
	}
	if !placed {
		sb.WriteString("[ ]")
	}
	return sb.String()
}
