package domain

import (
	"fmt"
	"strings"
)

// Direction is the head movement applied after a write.
type Direction int8

const (
	Left  Direction = -1
	None  Direction = 0
	Right Direction = 1
)

// Delta returns the position offset for the movement.
func (d Direction) Delta() int64 {
	return int64(d)
}

// Valid reports whether d is one of Left, None or Right.
func (d Direction) Valid() bool {
	return d == Left || d == None || d == Right
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	case None:
		return "N"
	default:
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
}

// ParseDirection accepts L/R/N, left/right/none (any case), stay, and -1/0/1.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "-1", "<":
		return Left, nil
	case "r", "right", "1", "+1", ">":
		return Right, nil
	case "n", "none", "stay", "0", "-":
		return None, nil
	}
	return None, fmt.Errorf("%w: unknown direction %q", ErrInvalidDefinition, s)
}

// MarshalText encodes the direction as its single-letter form.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts any form understood by ParseDirection.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
