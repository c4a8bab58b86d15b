package reject

import (
	"errors"
	"fmt"

	"github.com/dshills/redline/internal/engine/buffer"
)

var (
	// ErrDiverged indicates the document no longer matches the tracked change.
	ErrDiverged = errors.New("document diverged from tracked change")

	// ErrUnexpectedOperation indicates a change that cannot be reverted,
	// such as a comment or an operation of unknown kind.
	ErrUnexpectedOperation = errors.New("unexpected operation")
)

// DivergedError describes an insertion whose text is no longer at its
// recorded position.
type DivergedError struct {
	ID    string
	Range buffer.Range
	Want  string
	Got   string
}

// Error implements error.
func (e *DivergedError) Error() string {
	return fmt.Sprintf("reject %s: text at %s is %q, want %q", e.ID, e.Range, e.Got, e.Want)
}

// Is reports whether target is ErrDiverged.
func (e *DivergedError) Is(target error) bool {
	return target == ErrDiverged
}

// Unwrap returns ErrDiverged.
func (e *DivergedError) Unwrap() error {
	return ErrDiverged
}
