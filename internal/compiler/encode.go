package compiler

import (
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Blank       string    `yaml:"blank"`
	Start       string    `yaml:"start"`
	Finals      flowRow   `yaml:"finals"`
	Tape        any       `yaml:"tape,omitempty"`
	Transitions []flowRow `yaml:"transitions"`
}

type flowRow []string

func (r flowRow) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, s := range r {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
	}
	return n, nil
}

type tapeEntry struct {
	Position int64  `yaml:"position"`
	Symbol   string `yaml:"symbol"`
}

// Encode renders a definition in the YAML form accepted by Parse, with one
// flow-style row per transition.
func Encode(def *domain.Definition) ([]byte, error) {
	doc := document{
		Name:        def.Name,
		Description: def.Description,
		Blank:       string(def.BlankSymbol()),
		Start:       string(def.Start),
	}
	for _, f := range def.Finals {
		doc.Finals = append(doc.Finals, string(f))
	}
	for _, t := range def.Transitions {
		doc.Transitions = append(doc.Transitions, flowRow{
			string(t.From.State), string(t.From.Symbol),
			string(t.To.State), string(t.To.Write), t.To.Move.String(),
		})
	}
	if len(def.Tape) > 0 {
		doc.Tape = encodeTape(def.Tape)
	}
	return yaml.Marshal(doc)
}

// encodeTape uses the compact string form when the cells are one-rune symbols
// laid out contiguously from position 0.
func encodeTape(cells []domain.Cell) any {
	compact := true
	s := make([]byte, 0, len(cells))
	for i, c := range cells {
		if c.Position != int64(i) || utf8.RuneCountInString(string(c.Symbol)) != 1 {
			compact = false
			break
		}
		s = append(s, c.Symbol...)
	}
	if compact {
		return string(s)
	}
	entries := make([]tapeEntry, len(cells))
	for i, c := range cells {
		entries[i] = tapeEntry{Position: c.Position, Symbol: string(c.Symbol)}
	}
	return entries
}
