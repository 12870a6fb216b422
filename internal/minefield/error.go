package minefield

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrNotYetInitialized = errors.New("minefield not yet initialized")
	ErrAlreadyRevealed   = errors.New("cell already revealed")
)

func positionError(err error, row, col int) error {
	return fmt.Errorf("%w (row = %d, col = %d)", err, row, col)
}

// AssertionError is raised with panic when a caller breaks a precondition
// (degenerate board, impossible mine density).
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
