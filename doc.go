/*
Package turing is a deterministic single-tape Turing machine engine.

A machine is described by a domain.Definition: a blank symbol, a start state,
a set of final states and a transition table mapping (state, symbol) to
(next state, symbol to write, head movement). The engine applies one rule per
step until the machine enters a final state (Halted) or reads a pair the table
does not cover (Failed with a MissingTransitionError).

# Concept

The transition table is built once, validated for duplicates, and never
changes afterwards, so one Engine can run any number of machines at the same
time. Every run owns its own sparse, two-way infinite tape. Runs are
deterministic: the same table and tape always produce the same Result.

There is no built-in step limit. Machines that may not terminate should be run
with WithStepLimit or with a cancellable context.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/turing"
		"github.com/aretw0/turing/pkg/machines"
	)

	func main() {
		eng, err := turing.New(machines.Copy())
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Run(context.Background(), nil) // nil: use the definition's tape
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.State, res.Steps)
	}

Definitions can also be written with the pkg/dsl builder, or loaded from YAML,
JSON or Markdown files through the loaders in pkg/adapters.
*/
package turing
