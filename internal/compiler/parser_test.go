package compiler

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/turing/internal/dto"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const copyYAML = `
name: copy
description: copy subroutine
blank: B
start: s1
finals: [h]
tape: "1111"
transitions:
  - [s1, B, h, B, N]
  - [s1, 1, s2, B, R]
  - {state: s2, read: B, next: s3, move: right}
  - {from: s2, read: 1, to: s2, move: R}
  - [s3, B, s4, 1, L]
  - [s3, 1, s3, 1, R]
  - [s4, B, s5, B, L]
  - [s4, 1, s4, 1, L]
  - [s5, B, s1, 1, R]
  - [s5, 1, s5, 1, L]
`

func TestParser_YAML(t *testing.T) {
	def, err := NewParser().Parse([]byte(copyYAML))
	require.NoError(t, err)

	assert.Equal(t, "copy", def.Name)
	assert.Equal(t, domain.Symbol("B"), def.Blank)
	assert.Equal(t, domain.State("s1"), def.Start)
	assert.Equal(t, []domain.State{"h"}, def.Finals)
	assert.Equal(t, domain.CellsFromString("1111", 0), def.Tape)
	require.Len(t, def.Transitions, 10)

	// Numeric scalars become symbols, map entries default write to read.
	assert.Equal(t, domain.NewTransition("s1", "1", "s2", "B", domain.Right), def.Transitions[1])
	assert.Equal(t, domain.NewTransition("s2", "B", "s3", "B", domain.Right), def.Transitions[2])
	assert.Equal(t, domain.NewTransition("s2", "1", "s2", "1", domain.Right), def.Transitions[3])

	// Same transitions as the built-in machine.
	assert.Equal(t, machines.Copy().Transitions, def.Transitions)
}

func TestParser_JSON(t *testing.T) {
	src := `{
  "id": "bb",
  "start": "A",
  "finals": "H",
  "tape": [{"position": -1, "symbol": "1"}, {"position": 2, "symbol": 0}],
  "transitions": [["A", 0, "H", 1, -1]]
}`
	def, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "bb", def.Name, "name falls back to id")
	assert.Equal(t, []domain.State{"H"}, def.Finals)
	assert.Equal(t, []domain.Cell{{Position: -1, Symbol: "1"}, {Position: 2, Symbol: "0"}}, def.Tape)
	assert.Equal(t, domain.NewTransition("A", "0", "H", "1", domain.Left), def.Transitions[0])
	assert.Equal(t, domain.DefaultBlank, def.BlankSymbol())
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "  \n", "empty document"},
		{"syntax", "name: [", "failed to parse machine"},
		{"short row", "start: a\nfinals: [h]\ntransitions:\n  - [a, 1, h]\n", "got 3 elements"},
		{"bad move", "start: a\nfinals: [h]\ntransitions:\n  - [a, 1, h, 1, up]\n", `unknown direction "up"`},
		{"bad entry", "start: a\nfinals: [h]\ntransitions:\n  - a\n", "expected list or map"},
		{"bad tape", "start: a\nfinals: [h]\ntape: 3\n", "tape: expected string or list"},
		{"missing start", "finals: [h]\n", "start state is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_JSONNumber(t *testing.T) {
	// Loam strict mode hands numbers over as json.Number.
	doc := dto.MachineDocument{
		Start:       "a",
		Finals:      []string{"h"},
		Transitions: []any{[]any{"a", json.Number("0"), "h", json.Number("1"), json.Number("1")}},
		Tape:        []any{map[string]any{"position": json.Number("3"), "symbol": "x"}},
	}
	def, err := NewParser().Compile(doc)
	require.NoError(t, err)
	assert.Equal(t, domain.NewTransition("a", "0", "h", "1", domain.Right), def.Transitions[0])
	assert.Equal(t, []domain.Cell{{Position: 3, Symbol: "x"}}, def.Tape)
}

func TestEncode_RoundTrip(t *testing.T) {
	for name, def := range machines.Library() {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(def)
			require.NoError(t, err)

			back, err := NewParser().Parse(data)
			require.NoError(t, err, string(data))
			assert.Equal(t, def.Name, back.Name)
			assert.Equal(t, def.BlankSymbol(), back.BlankSymbol())
			assert.Equal(t, def.Transitions, back.Transitions)
			assert.Equal(t, def.Tape, back.Tape)
		})
	}
}

func TestEncode_SparseTape(t *testing.T) {
	def := &domain.Definition{
		Name:   "sparse",
		Start:  "a",
		Finals: []domain.State{"a"},
		Tape:   []domain.Cell{{Position: -2, Symbol: "x"}, {Position: 5, Symbol: "yy"}},
	}
	data, err := Encode(def)
	require.NoError(t, err)
	assert.Contains(t, string(data), "position: -2")

	back, err := NewParser().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, def.Tape, back.Tape)
}
