package memory

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	tests.RunStoreContract(t, NewStore())
}

func TestLoader_Contract(t *testing.T) {
	lib := machines.Library()
	defs := make([]*domain.Definition, 0, len(lib))
	for _, d := range lib {
		defs = append(defs, d)
	}
	loader, err := NewLoader(defs...)
	require.NoError(t, err)

	tests.MachineLoaderContractTest(t, loader, lib)
}

func TestLoader_FromSources(t *testing.T) {
	loader, err := NewFromSources(map[string]string{
		"flip": `
start: scan
finals: [done]
blank: _
transitions:
  - [scan, 0, scan, 1, R]
  - [scan, 1, scan, 0, R]
  - [scan, _, done, _, N]
`,
	})
	require.NoError(t, err)

	def, err := loader.GetMachine(context.Background(), "flip")
	require.NoError(t, err)
	assert.Equal(t, "flip", def.Name)
	assert.Len(t, def.Transitions, 3)

	_, err = NewFromSources(map[string]string{"bad": "finals: [h]"})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestLoader_GetReturnsCopy(t *testing.T) {
	loader, err := NewLoader(machines.Copy())
	require.NoError(t, err)

	def, err := loader.GetMachine(context.Background(), "copy")
	require.NoError(t, err)
	def.Transitions[0].To.State = "mutated"

	again, err := loader.GetMachine(context.Background(), "copy")
	require.NoError(t, err)
	assert.Equal(t, domain.State("h"), again.Transitions[0].To.State)
}

func TestLoader_RegisterRequiresName(t *testing.T) {
	_, err := NewLoader(&domain.Definition{})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}
