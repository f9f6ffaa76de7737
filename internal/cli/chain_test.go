package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machines"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/require"
)

func TestChainLoader_Contract(t *testing.T) {
	first, err := memory.NewLoader(machines.Copy())
	require.NoError(t, err)
	second, err := memory.NewLoader(machines.BusyBeaver3())
	require.NoError(t, err)

	tests.MachineLoaderContractTest(t, Chain(first, second), map[string]*domain.Definition{
		"copy": machines.Copy(),
		"bb3":  machines.BusyBeaver3(),
	})
}

func TestChainLoader_Empty(t *testing.T) {
	_, err := Chain().GetMachine(context.Background(), "copy")
	require.True(t, errors.Is(err, domain.ErrMachineNotFound))
}
