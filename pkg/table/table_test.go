package table_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Lookup(t *testing.T) {
	tbl, err := table.Build([]domain.Transition{
		domain.NewTransition("A", "0", "B", "1", domain.Right),
		domain.NewTransition("A", "1", "H", "1", domain.None),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	v, ok := tbl.Lookup("A", "0")
	require.True(t, ok)
	assert.Equal(t, domain.TransitionValue{State: "B", Write: "1", Move: domain.Right}, v)

	_, ok = tbl.Lookup("B", "0")
	assert.False(t, ok, "absent pair must report NotFound")
}

func TestBuild_DuplicateRejected(t *testing.T) {
	_, err := table.Build([]domain.Transition{
		domain.NewTransition("S", "0", "T", "1", domain.Right),
		domain.NewTransition("S", "0", "T", "0", domain.Left),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateTransition)

	var dup *domain.DuplicateTransitionError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, domain.TransitionKey{State: "S", Symbol: "0"}, dup.Key)
	assert.Equal(t, domain.TransitionValue{State: "T", Write: "1", Move: domain.Right}, dup.Existing)
	assert.Equal(t, domain.TransitionValue{State: "T", Write: "0", Move: domain.Left}, dup.Conflicting)
}

func TestBuild_IdenticalRepeatCollapses(t *testing.T) {
	rule := domain.NewTransition("S", "0", "T", "1", domain.Right)
	tbl, err := table.Build([]domain.Transition{rule, rule})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, []domain.Transition{rule}, tbl.Entries())
}

func TestTable_Introspection(t *testing.T) {
	tbl := table.MustBuild([]domain.Transition{
		domain.NewTransition("b", "x", "a", "y", domain.Left),
		domain.NewTransition("a", "y", "c", "x", domain.Right),
		domain.NewTransition("b", "y", "b", "y", domain.None),
	})

	assert.Equal(t, []domain.State{"a", "b", "c"}, tbl.States())
	assert.Equal(t, []domain.Symbol{"x", "y"}, tbl.Symbols())
	assert.Len(t, tbl.From("b"), 2)
	assert.Empty(t, tbl.From("c"))
	assert.Equal(t, domain.State("b"), tbl.Entries()[0].From.State)
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		table.MustBuild([]domain.Transition{
			domain.NewTransition("S", "0", "T", "1", domain.Right),
			domain.NewTransition("S", "0", "U", "1", domain.Right),
		})
	})
}
