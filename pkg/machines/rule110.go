package machines

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

// Symbols of the Rule 110 machine.
const (
	Rule110Start domain.Symbol = "S"
	Rule110Dead  domain.Symbol = " "
	Rule110Alive domain.Symbol = "#"
	Rule110End   domain.Symbol = "E"
)

// Rule110 computes the next generation of a Rule 110 row in place. The row is
// framed by Rule110Start on the left and Rule110End on the right; see
// Rule110Tape. Both markers read as dead neighbours.
//
// The head walks the row left to right remembering the left neighbour (l0/l1)
// and the middle cell (m0/m1), peeks at the right neighbour, steps back and
// rewrites the middle cell.
func Rule110() *domain.Definition {
	b := dsl.New("rule110").
		Describe("one generation of the Rule 110 cellular automaton").
		Blank(Rule110Dead).
		Start("init").
		Final("h")
	b.Cells(Rule110Tape("         #")...)

	const (
		dead  = Rule110Dead
		alive = Rule110Alive
		end   = Rule110End
	)

	b.State("init").
		On(Rule110Start).Right().Go("l0").
		On(dead).Go("h").
		On(alive).Go("h").
		On(end).Go("h")

	for _, left := range []string{"0", "1"} {
		l := domain.State("l" + left)
		b.State(l).
			On(dead).Right().Go(l + "m0").
			On(alive).Right().Go(l + "m1").
			On(end).Go("h")

		for _, mid := range []string{"0", "1"} {
			lm := l + domain.State("m"+mid)
			b.State(lm).
				On(end).Left().Go(lm + "r0").
				On(dead).Left().Go(lm + "r0").
				On(alive).Left().Go(lm + "r1")
		}
	}

	// Rewrite the middle cell and carry it over as the next left neighbour.
	// Row index: l m r -> next.
	rules := []struct {
		l, m, r string
		next    domain.Symbol
	}{
		{"0", "0", "0", dead},
		{"0", "0", "1", alive},
		{"0", "1", "0", alive},
		{"0", "1", "1", alive},
		{"1", "0", "0", dead},
		{"1", "0", "1", alive},
		{"1", "1", "0", alive},
		{"1", "1", "1", dead},
	}
	for _, rule := range rules {
		from := domain.State("l" + rule.l + "m" + rule.m + "r" + rule.r)
		read := dead
		if rule.m == "1" {
			read = alive
		}
		b.State(from).On(read).Write(rule.next).Right().Go(domain.State("l" + rule.m))
	}

	return b.MustBuild()
}

// Rule110Tape frames a row of dead (' ') and alive ('#') cells with the start
// and end markers, starting at position 0.
func Rule110Tape(row string) []domain.Cell {
	return domain.CellsFromString(string(Rule110Start)+row+string(Rule110End), 0)
}

// Runner is anything that runs a machine to completion over a tape.
type Runner interface {
	Run(ctx context.Context, cells []domain.Cell) (domain.Result, error)
}

// Evolve runs the machine n times, each run starting from the tape the previous
// run left behind. The returned slice holds n+1 tapes, the first being the
// initial one.
func Evolve(ctx context.Context, r Runner, cells []domain.Cell, n int) ([][]domain.Cell, error) {
	gens := make([][]domain.Cell, 0, n+1)
	gens = append(gens, append([]domain.Cell(nil), cells...))
	for i := 1; i <= n; i++ {
		res, err := r.Run(ctx, gens[i-1])
		if err != nil {
			return gens, fmt.Errorf("generation %d: %w", i, err)
		}
		gens = append(gens, res.Tape)
	}
	return gens, nil
}

// Row renders a tape as a Rule 110 row, dropping the markers. Cells are
// expected in ascending position order as returned by a snapshot.
func Row(cells []domain.Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.Symbol == Rule110Start || c.Symbol == Rule110End {
			continue
		}
		sb.WriteString(string(c.Symbol))
	}
	return sb.String()
}
