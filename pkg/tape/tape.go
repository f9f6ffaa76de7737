// Package tape implements the sparse, unbounded tape of a Turing machine.
//
// A Tape maps signed integer positions to symbols. Any position never written
// reads as the blank symbol. Every written cell (including cells written with
// the blank symbol) is kept until the tape is discarded, so Snapshot reports
// the touched cells of a run, not only the non-blank ones.
//
// A Tape is owned by a single run and is not safe for concurrent use.
package tape

import (
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape is a sparse mapping from position to symbol.
type Tape struct {
	blank domain.Symbol
	cells map[int64]domain.Symbol
}

// New creates a tape with the given blank symbol and initial cells.
// Later cells override earlier ones at the same position.
// When no cells are supplied the tape holds a single blank cell at position 0.
func New(blank domain.Symbol, cells ...domain.Cell) *Tape {
	if blank == "" {
		blank = domain.DefaultBlank
	}
	t := &Tape{
		blank: blank,
		cells: make(map[int64]domain.Symbol, max(len(cells), 1)),
	}
	if len(cells) == 0 {
		t.cells[0] = blank
		return t
	}
	for _, c := range cells {
		t.cells[c.Position] = c.Symbol
	}
	return t
}

// Blank returns the symbol read from never-written cells.
func (t *Tape) Blank() domain.Symbol {
	return t.blank
}

// Read returns the symbol at pos, or the blank symbol if the cell was never written.
// Reads never materialize cells.
func (t *Tape) Read(pos int64) domain.Symbol {
	if s, ok := t.cells[pos]; ok {
		return s
	}
	return t.blank
}

// Write records sym at pos, creating the cell if absent.
func (t *Tape) Write(pos int64, sym domain.Symbol) {
	t.cells[pos] = sym
}

// Touched reports whether pos has ever been written.
func (t *Tape) Touched(pos int64) bool {
	_, ok := t.cells[pos]
	return ok
}

// Len returns the number of touched cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Bounds returns the lowest and highest touched positions.
// ok is false for a tape with no touched cells.
func (t *Tape) Bounds() (lo, hi int64, ok bool) {
	for pos := range t.cells {
		if !ok {
			lo, hi, ok = pos, pos, true
			continue
		}
		lo = min(lo, pos)
		hi = max(hi, pos)
	}
	return lo, hi, ok
}

// Snapshot returns every touched cell in ascending position order.
func (t *Tape) Snapshot() []domain.Cell {
	out := make([]domain.Cell, 0, len(t.cells))
	for pos, sym := range t.cells {
		out = append(out, domain.Cell{Position: pos, Symbol: sym})
	}
	slices.SortFunc(out, func(a, b domain.Cell) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return out
}

// Clone returns an independent copy of the tape.
func (t *Tape) Clone() *Tape {
	c := &Tape{
		blank: t.blank,
		cells: make(map[int64]domain.Symbol, len(t.cells)),
	}
	for pos, sym := range t.cells {
		c.cells[pos] = sym
	}
	return c
}

// String renders the touched span contiguously; gaps read as blank.
func (t *Tape) String() string {
	lo, hi, ok := t.Bounds()
	if !ok {
		return ""
	}
	var sb strings.Builder
	for pos := lo; pos <= hi; pos++ {
		sb.WriteString(string(t.Read(pos)))
	}
	return sb.String()
}
