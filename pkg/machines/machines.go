package machines

import (
	"sort"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

// BusyBeaver3 is the 3-state, 2-symbol busy beaver. Started on an empty tape
// it halts after 13 steps leaving six 1s.
func BusyBeaver3() *domain.Definition {
	b := dsl.New("bb3").
		Describe("3-state 2-symbol busy beaver").
		Blank("0").
		Start("A").
		Final("H")

	b.State("A").
		On("0").Write("1").Right().Go("B").
		On("1").Write("1").Left().Go("C")
	b.State("B").
		On("0").Write("1").Left().Go("A").
		On("1").Write("1").Right().Go("B")
	b.State("C").
		On("0").Write("1").Left().Go("B").
		On("1").Write("1").Stay().Go("H")

	return b.MustBuild()
}

// Copy duplicates a block of 1s, leaving the original and the copy separated
// by a single blank. The default tape holds four 1s.
func Copy() *domain.Definition {
	b := dsl.New("copy").
		Describe("copy subroutine: 1^n becomes 1^n B 1^n").
		Blank("B").
		Start("s1").
		Final("h").
		Tape("1111")

	b.State("s1").
		On("B").Write("B").Stay().Go("h").
		On("1").Write("B").Right().Go("s2")
	b.State("s2").
		On("B").Write("B").Right().Go("s3").
		On("1").Write("1").Right().Go("s2")
	b.State("s3").
		On("B").Write("1").Left().Go("s4").
		On("1").Write("1").Right().Go("s3")
	b.State("s4").
		On("B").Write("B").Left().Go("s5").
		On("1").Write("1").Left().Go("s4")
	b.State("s5").
		On("B").Write("1").Right().Go("s1").
		On("1").Write("1").Left().Go("s5")

	return b.MustBuild()
}

// Library returns every built-in machine keyed by name.
func Library() map[string]*domain.Definition {
	defs := []*domain.Definition{BusyBeaver3(), Copy(), Rule110()}
	lib := make(map[string]*domain.Definition, len(defs))
	for _, d := range defs {
		lib[d.Name] = d
	}
	return lib
}

// Names returns the names of the built-in machines in sorted order.
func Names() []string {
	lib := Library()
	names := make([]string, 0, len(lib))
	for name := range lib {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
