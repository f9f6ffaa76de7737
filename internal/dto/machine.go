package dto

// MachineDocument is the loosely typed shape of a machine definition as it is
// written in YAML, JSON or Markdown front matter. The compiler turns it into a
// domain.Definition.
type MachineDocument struct {
	ID          string   `json:"id" yaml:"id" mapstructure:"id"`
	Name        string   `json:"name" yaml:"name" mapstructure:"name"`
	Description string   `json:"description" yaml:"description" mapstructure:"description"`
	Blank       string   `json:"blank" yaml:"blank" mapstructure:"blank"`
	Start       string   `json:"start" yaml:"start" mapstructure:"start"`
	Finals      []string `json:"finals" yaml:"finals" mapstructure:"finals"`

	// Transitions holds either 5-element lists [state, read, next, write, move]
	// or TransitionEntry maps.
	Transitions []any `json:"transitions" yaml:"transitions" mapstructure:"transitions"`

	// Tape is a string (one symbol per rune from position 0) or a list of
	// TapeEntry maps.
	Tape any `json:"tape" yaml:"tape" mapstructure:"tape"`
}

// TransitionEntry is the map form of a transition. Write defaults to the read
// symbol and Move to "N".
type TransitionEntry struct {
	State string `mapstructure:"state"`
	From  string `mapstructure:"from"`
	Read  string `mapstructure:"read"`
	Next  string `mapstructure:"next"`
	To    string `mapstructure:"to"`
	Write string `mapstructure:"write"`
	Move  string `mapstructure:"move"`
}

// TapeEntry is one explicit tape cell.
type TapeEntry struct {
	Position int64  `mapstructure:"position"`
	Symbol   string `mapstructure:"symbol"`
}
