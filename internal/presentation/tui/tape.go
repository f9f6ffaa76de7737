package tui

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// TapeRenderer draws a tape window with the head cell highlighted.
type TapeRenderer struct {
	profile termenv.Profile
	blank   domain.Symbol
}

// NewTapeRenderer creates a renderer for the given profile. Blank cells are
// dimmed and the head cell is drawn in reverse video. Without colour support
// the head is bracketed instead.
func NewTapeRenderer(profile termenv.Profile, blank domain.Symbol) *TapeRenderer {
	return &TapeRenderer{profile: profile, blank: blank}
}

// Render matches turing.TapeRenderer. Cells between the touched ones and an
// untouched head are filled with the blank so the head is always visible.
func (r *TapeRenderer) Render(cells []domain.Cell, head int64) string {
	lo, hi := head, head
	if len(cells) > 0 {
		lo = min(lo, cells[0].Position)
		hi = max(hi, cells[len(cells)-1].Position)
	}

	symbols := make(map[int64]domain.Symbol, len(cells))
	for _, c := range cells {
		symbols[c.Position] = c.Symbol
	}

	var sb strings.Builder
	for pos := lo; pos <= hi; pos++ {
		sym, ok := symbols[pos]
		if !ok {
			sym = r.blank
		}
		text := " " + string(sym) + " "
		if pos == head && r.profile == termenv.Ascii {
			text = "[" + string(sym) + "]"
		}
		s := r.profile.String(text)
		switch {
		case pos == head:
			s = s.Reverse().Bold().Foreground(r.profile.Color("#fbc02d"))
		case sym == r.blank:
			s = s.Faint()
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}
