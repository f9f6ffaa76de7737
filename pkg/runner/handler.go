package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ResultHandler receives finished jobs in job order.
// This allows switching between text (CLI) and JSON (structured) output.
type ResultHandler interface {
	Handle(ctx context.Context, res JobResult) error
}

// TextHandler writes one aligned line per job.
type TextHandler struct {
	Writer io.Writer
	// Row renders the final tape. Nil prints the number of touched cells.
	Row func(JobResult) string
}

// NewTextHandler creates a handler writing to w.
func NewTextHandler(w io.Writer) *TextHandler {
	return &TextHandler{Writer: w}
}

func (h *TextHandler) Handle(ctx context.Context, res JobResult) error {
	run := res.Run
	tail := fmt.Sprintf("%d cells", len(run.Tape))
	if h.Row != nil {
		tail = h.Row(res)
	}
	if res.Err != nil {
		tail = res.Err.Error()
	}
	_, err := fmt.Fprintf(h.Writer, "%-36s %-10s %-8s %-8s %6d  %s\n",
		run.ID, run.Machine, run.Status, run.State, run.Steps, tail)
	return err
}

// JSONHandler emits each run as a JSON line.
type JSONHandler struct {
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON-Lines output.
func NewJSONHandler(w io.Writer) *JSONHandler {
	return &JSONHandler{Encoder: json.NewEncoder(w)}
}

func (h *JSONHandler) Handle(ctx context.Context, res JobResult) error {
	return h.Encoder.Encode(res.Run)
}
