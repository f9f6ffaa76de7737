package tests

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// MachineLoaderContractTest is a reusable test suite that verifies if an adapter
// complies with ports.MachineLoader. expected maps every machine the adapter
// was seeded with to its definition.
func MachineLoaderContractTest(t *testing.T, loader ports.MachineLoader, expected map[string]*domain.Definition) {
	t.Helper()
	ctx := context.Background()

	// 1. Test GetMachine (Success)
	t.Run("GetMachine_Success", func(t *testing.T) {
		for name, want := range expected {
			got, err := loader.GetMachine(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting machine %s: %v", name, err)
			}
			if got.Name != name {
				t.Errorf("name mismatch: got %q, want %q", got.Name, name)
			}
			if got.Start != want.Start || got.BlankSymbol() != want.BlankSymbol() {
				t.Errorf("%s: start/blank mismatch: got %s/%q", name, got.Start, got.BlankSymbol())
			}
			if len(got.Transitions) != len(want.Transitions) {
				t.Fatalf("%s: expected %d transitions, got %d", name, len(want.Transitions), len(got.Transitions))
			}
			for i := range want.Transitions {
				if got.Transitions[i] != want.Transitions[i] {
					t.Errorf("%s: transition %d mismatch: got %v, want %v", name, i, got.Transitions[i], want.Transitions[i])
				}
			}
		}
	})

	// 2. Test GetMachine (NotFound)
	t.Run("GetMachine_NotFound", func(t *testing.T) {
		_, err := loader.GetMachine(ctx, "non-existent-machine")
		if err == nil {
			t.Fatal("expected error for non-existent machine, got nil")
		}
		if !errors.Is(err, domain.ErrMachineNotFound) {
			t.Errorf("expected ErrMachineNotFound, got %v", err)
		}
	})

	// 3. Test ListMachines
	t.Run("ListMachines", func(t *testing.T) {
		names, err := loader.ListMachines(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}
		if len(names) != len(expected) {
			t.Errorf("expected %d machines, got %d", len(expected), len(names))
		}
		if !sort.StringsAreSorted(names) {
			t.Errorf("expected sorted names, got %v", names)
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}
		for name := range expected {
			if !lookup[name] {
				t.Errorf("machine %s missing from list", name)
			}
		}
	})
}
