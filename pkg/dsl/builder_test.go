package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleMachine(t *testing.T) {
	b := New("flip").Describe("inverts a binary word").Blank("_").Start("scan").Final("done").Tape("0110")

	b.State("scan").
		On("0").Write("1").Right().Go("scan").
		On("1").Write("0").Right().Go("scan").
		On("_").Go("done")

	def, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "flip", def.Name)
	assert.Equal(t, "inverts a binary word", def.Description)
	assert.Equal(t, domain.Symbol("_"), def.Blank)
	assert.Equal(t, domain.State("scan"), def.Start)
	assert.Equal(t, []domain.State{"done"}, def.Finals)
	assert.Len(t, def.Tape, 4)

	require.Len(t, def.Transitions, 3)
	assert.Equal(t, domain.NewTransition("scan", "0", "scan", "1", domain.Right), def.Transitions[0])
	assert.Equal(t, domain.NewTransition("scan", "1", "scan", "0", domain.Right), def.Transitions[1])
	// On without Write/Move keeps the symbol and the head.
	assert.Equal(t, domain.NewTransition("scan", "_", "done", "_", domain.None), def.Transitions[2])
}

func TestBuilder_StateIsReused(t *testing.T) {
	b := New("m").Start("a").Final("h")
	assert.Same(t, b.State("a"), b.State("a"))
	assert.Equal(t, domain.State("a"), b.State("a").Name())
}

func TestBuilder_DuplicateTransition(t *testing.T) {
	b := New("dup").Start("S").Final("H")
	b.State("S").
		On("0").Write("1").Right().Go("H").
		On("0").Write("0").Left().Go("H")

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateTransition))

	var dup *domain.DuplicateTransitionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, domain.TransitionKey{State: "S", Symbol: "0"}, dup.Key)
}

func TestBuilder_IdenticalRulesCollapse(t *testing.T) {
	b := New("same").Start("S").Final("H")
	b.State("S").On("0").Right().Go("H")
	b.State("S").On("0").Right().Go("H")

	_, err := b.Build()
	assert.NoError(t, err)
}

func TestBuilder_InvalidDefinition(t *testing.T) {
	b := New("broken")
	b.State("a").On("x").Move(domain.Direction(7)).Go("b")

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "start state is required")
	assert.Contains(t, err.Error(), "invalid move 7")
}

func TestBuilder_Fresh(t *testing.T) {
	b := New("fresh").Start("q0").Final("h")

	// q0 is already taken by Start.
	assert.Equal(t, domain.State("q1"), b.Fresh("q"))
	assert.Equal(t, domain.State("q2"), b.Fresh("q"))
	assert.Equal(t, domain.State("carry0"), b.Fresh("carry"))

	b.State("tmp0")
	assert.Equal(t, domain.State("tmp1"), b.Fresh("tmp"))

	// Separate builders do not share counters.
	assert.Equal(t, domain.State("q0"), New("other").Fresh("q"))
}

func TestBuilder_BuildReturnsCopy(t *testing.T) {
	b := New("copy").Start("a").Final("h")
	b.State("a").On("B").Go("h")

	first := b.MustBuild()
	b.State("a").On("1").Go("h")
	second := b.MustBuild()

	assert.Len(t, first.Transitions, 1)
	assert.Len(t, second.Transitions, 2)
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		New("empty").MustBuild()
	})
}
