package domain

import "fmt"

// TransitionKey is the lookup key of a transition table.
type TransitionKey struct {
	State  State  `json:"state" yaml:"state"`
	Symbol Symbol `json:"symbol" yaml:"symbol"`
}

func (k TransitionKey) String() string {
	return fmt.Sprintf("(%s, %q)", k.State, string(k.Symbol))
}

// TransitionValue is what the machine does once a key matches.
type TransitionValue struct {
	State State     `json:"state" yaml:"state"`
	Write Symbol    `json:"write" yaml:"write"`
	Move  Direction `json:"move" yaml:"move"`
}

func (v TransitionValue) String() string {
	return fmt.Sprintf("(%s, %q, %s)", v.State, string(v.Write), v.Move)
}

// Transition is a single rule of the table.
type Transition struct {
	From TransitionKey   `json:"from" yaml:"from"`
	To   TransitionValue `json:"to" yaml:"to"`
}

// NewTransition is a shorthand for building a rule in table order:
// state, read, next state, write, move.
func NewTransition(state State, read Symbol, next State, write Symbol, move Direction) Transition {
	return Transition{
		From: TransitionKey{State: state, Symbol: read},
		To:   TransitionValue{State: next, Write: write, Move: move},
	}
}
