package cli

import (
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TapeRenderer picks a coloured renderer for terminals and the plain
// bracketed one otherwise.
func TapeRenderer(w io.Writer, blank domain.Symbol) turing.TapeRenderer {
	if !IsTerminal(w) {
		return turing.PlainTape
	}
	return tui.NewTapeRenderer(termenv.ColorProfile(), blank).Render
}

// Markdown renders md with glamour on terminals and returns it unchanged
// otherwise.
func Markdown(w io.Writer, md string) string {
	if !IsTerminal(w) {
		return md
	}
	out, err := tui.NewRenderer()(md)
	if err != nil {
		return md
	}
	return out
}
