package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// ChainLoader consults loaders in order; the first one holding a machine wins.
type ChainLoader struct {
	loaders []ports.MachineLoader
}

// Chain combines loaders, earlier ones shadowing later ones.
func Chain(loaders ...ports.MachineLoader) *ChainLoader {
	return &ChainLoader{loaders: loaders}
}

func (c *ChainLoader) GetMachine(ctx context.Context, name string) (*domain.Definition, error) {
	for _, l := range c.loaders {
		def, err := l.GetMachine(ctx, name)
		if err == nil {
			return def, nil
		}
		if !errors.Is(err, domain.ErrMachineNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
}

func (c *ChainLoader) ListMachines(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, l := range c.loaders {
		list, err := l.ListMachines(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
