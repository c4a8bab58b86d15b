package overlay

import "errors"

// ErrCycleInProgress indicates OnUpdate was called while a cycle was running.
var ErrCycleInProgress = errors.New("update cycle already in progress")
