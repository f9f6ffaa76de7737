/*
Package domain contains the core domain models of the turing engine.

It defines the vocabulary shared by every other package: symbols, states, head
movements, transition keys and values, machine definitions, run records and the
error taxonomy. The package is kept pure and free of I/O, persistence or
third-party dependencies, following Hexagonal Architecture principles.

# Key Entities

  - Symbol / State: opaque comparable identifiers of the tape alphabet and the machine states.
  - Direction: head movement (Left, None, Right) applied as a -1/0/+1 position delta.
  - Transition: one (State, Symbol) -> (State, Symbol, Direction) rule.
  - Definition: everything needed to build and run a machine (start, finals, table, initial tape).
  - Result / Run: the outcome of an execution, and its persisted record.
*/
package domain
