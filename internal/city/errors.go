package city

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds       = errors.New("position out of bounds")
	ErrCellOccupied      = errors.New("cell occupied")
	ErrNotFound          = errors.New("no placement at position")
	ErrNoPath            = errors.New("no path")
	ErrNotRoad           = errors.New("cell is not a road")
	ErrDragInProgress    = errors.New("road drag already in progress")
	ErrNoDrag            = errors.New("no road drag in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

func outOfBounds(p Pos) error {
	return fmt.Errorf("%s: %w", p, ErrOutOfBounds)
}

// RuleError is returned when a placement rule rejects a cell. It unwraps to
// ErrCellOccupied so callers can treat every precondition failure alike.
type RuleError struct {
	Rule string
	Pos  Pos
	Type CellType
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("place %s at %s: rule %q not satisfied", e.Type, e.Pos, e.Rule)
}

func (e *RuleError) Unwrap() error { return ErrCellOccupied }
