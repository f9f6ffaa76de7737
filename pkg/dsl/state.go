package dsl

import "github.com/aretw0/turing/pkg/domain"

// StateBuilder adds rules leaving one state.
type StateBuilder struct {
	builder *Builder
	state   domain.State
}

// Name returns the state being configured.
func (s *StateBuilder) Name() domain.State {
	return s.state
}

// On starts a rule for the symbol read in this state. The symbol is written
// back unchanged and the head stays unless Write or a move is set.
func (s *StateBuilder) On(read domain.Symbol) *RuleBuilder {
	return &RuleBuilder{
		state: s,
		read:  read,
		write: read,
		move:  domain.None,
	}
}

// RuleBuilder configures a single transition. It is committed by Go.
type RuleBuilder struct {
	state *StateBuilder
	read  domain.Symbol
	write domain.Symbol
	move  domain.Direction
}

// Write sets the symbol written before moving.
func (r *RuleBuilder) Write(sym domain.Symbol) *RuleBuilder {
	r.write = sym
	return r
}

func (r *RuleBuilder) Left() *RuleBuilder  { return r.Move(domain.Left) }
func (r *RuleBuilder) Right() *RuleBuilder { return r.Move(domain.Right) }
func (r *RuleBuilder) Stay() *RuleBuilder  { return r.Move(domain.None) }

// Move sets the head movement. Out of range values are rejected by Build.
func (r *RuleBuilder) Move(d domain.Direction) *RuleBuilder {
	r.move = d
	return r
}

// Go commits the rule with next as the target state and returns the state
// builder so further rules can be chained.
func (r *RuleBuilder) Go(next domain.State) *StateBuilder {
	r.state.builder.Rule(domain.NewTransition(r.state.state, r.read, next, r.write, r.move))
	return r.state
}
