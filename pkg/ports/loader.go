package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineLoader defines how machine definitions are retrieved.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type MachineLoader interface {
	// GetMachine returns the definition registered under name.
	// Returns domain.ErrMachineNotFound if there is none.
	GetMachine(ctx context.Context, name string) (*domain.Definition, error)

	// ListMachines returns the names of all available machines, sorted.
	ListMachines(ctx context.Context) ([]string, error)
}
