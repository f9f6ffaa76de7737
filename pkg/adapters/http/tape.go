package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape accepts either a string (one symbol per rune from position 0) or an
// explicit list of cells. An absent tape decodes to nil, selecting the
// machine's default tape.
type Tape []domain.Cell

func (t *Tape) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = domain.CellsFromString(s, 0)
		return nil
	}
	var cells []domain.Cell
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("tape must be a string or a list of cells: %w", err)
	}
	if cells == nil {
		cells = []domain.Cell{}
	}
	*t = cells
	return nil
}
