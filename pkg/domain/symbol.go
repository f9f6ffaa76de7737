package domain

// Symbol is a letter of the tape alphabet.
// Symbols are compared by value only; no ordering is implied.
type Symbol string

// State identifies a machine state. Two states are the same iff they compare equal.
type State string

// DefaultBlank is the blank symbol used when a definition does not declare one.
const DefaultBlank Symbol = "B"

// Cell is a single tape position and the symbol written there.
type Cell struct {
	Position int64  `json:"position" yaml:"position" mapstructure:"position"`
	Symbol   Symbol `json:"symbol" yaml:"symbol" mapstructure:"symbol"`
}

// CellsFromString lays out one symbol per rune starting at position origin.
func CellsFromString(s string, origin int64) []Cell {
	cells := make([]Cell, 0, len(s))
	pos := origin
	for _, r := range s {
		cells = append(cells, Cell{Position: pos, Symbol: Symbol(string(r))})
		pos++
	}
	return cells
}
