package compiler

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aretw0/turing/internal/dto"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser converts raw machine files into definitions.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML or JSON machine definition. JSON is accepted as the
// YAML subset it is.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidDefinition)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse machine: %w", err)
	}
	return p.FromMap(raw)
}

// FromMap decodes an already parsed generic document.
func (p *Parser) FromMap(raw map[string]any) (*domain.Definition, error) {
	var doc dto.MachineDocument
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, err)
	}
	return p.Compile(doc)
}

// Compile normalizes a MachineDocument and validates the result.
func (p *Parser) Compile(doc dto.MachineDocument) (*domain.Definition, error) {
	def := &domain.Definition{
		Name:        doc.Name,
		Description: doc.Description,
		Blank:       domain.Symbol(doc.Blank),
		Start:       domain.State(doc.Start),
	}
	if def.Name == "" {
		def.Name = doc.ID
	}
	for _, f := range doc.Finals {
		def.Finals = append(def.Finals, domain.State(f))
	}

	var errs []error
	for i, raw := range doc.Transitions {
		t, err := transition(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("transitions[%d]: %w", i, err))
			continue
		}
		def.Transitions = append(def.Transitions, t)
	}

	cells, err := tapeCells(doc.Tape)
	if err != nil {
		errs = append(errs, err)
	}
	def.Tape = cells

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, errors.Join(errs...))
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func transition(raw any) (domain.Transition, error) {
	var e dto.TransitionEntry
	switch v := raw.(type) {
	case []any:
		if len(v) != 5 {
			return domain.Transition{}, fmt.Errorf("expected [state, read, next, write, move], got %d elements", len(v))
		}
		e = dto.TransitionEntry{
			State: scalar(v[0]),
			Read:  scalar(v[1]),
			Next:  scalar(v[2]),
			Write: scalar(v[3]),
			Move:  scalar(v[4]),
		}
	case map[string]any:
		if err := decode(v, &e); err != nil {
			return domain.Transition{}, err
		}
	default:
		return domain.Transition{}, fmt.Errorf("expected list or map, got %T", raw)
	}

	state := firstNonEmpty(e.State, e.From)
	next := firstNonEmpty(e.Next, e.To)
	write := firstNonEmpty(e.Write, e.Read)
	move := domain.None
	if e.Move != "" {
		d, err := domain.ParseDirection(e.Move)
		if err != nil {
			return domain.Transition{}, fmt.Errorf("unknown direction %q", e.Move)
		}
		move = d
	}
	return domain.NewTransition(domain.State(state), domain.Symbol(e.Read), domain.State(next), domain.Symbol(write), move), nil
}

func tapeCells(raw any) ([]domain.Cell, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return domain.CellsFromString(v, 0), nil
	case []any:
		var entries []dto.TapeEntry
		if err := decode(v, &entries); err != nil {
			return nil, fmt.Errorf("tape: %w", err)
		}
		cells := make([]domain.Cell, 0, len(entries))
		for i, e := range entries {
			if e.Symbol == "" {
				return nil, fmt.Errorf("tape[%d]: symbol is empty", i)
			}
			cells = append(cells, domain.Cell{Position: e.Position, Symbol: domain.Symbol(e.Symbol)})
		}
		return cells, nil
	default:
		return nil, fmt.Errorf("tape: expected string or list, got %T", raw)
	}
}

// decode is mapstructure with weak typing so that numeric YAML scalars and
// json.Number values land in string fields.
func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
