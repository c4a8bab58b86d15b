package host

import "errors"

var (
	// ErrNothingToUndo indicates the history is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrClosed indicates the surface has been closed.
	ErrClosed = errors.New("surface closed")
)
