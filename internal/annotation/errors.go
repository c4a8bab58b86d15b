package annotation

import "errors"

// Reasons an entry is dropped during build. These never leave Build; they
// label logs and metrics.
var (
	errUnknownOperation = errors.New("unknown operation")
	errNegativeOffset   = errors.New("negative offset")
	errOutOfBounds      = errors.New("span out of bounds")
	errPanic            = errors.New("panic while building entry")
)

// Entries that are skipped on purpose produce no annotation and are not
// counted as drops.
var (
	errEmptySpan    = errors.New("empty span")
	errThreadHidden = errors.New("thread resolved or missing")
)

func dropReason(err error) string {
	switch {
	case errors.Is(err, errUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, errNegativeOffset):
		return "negative_offset"
	case errors.Is(err, errOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, errPanic):
		return "panic"
	default:
		return "other"
	}
}

func isSkip(err error) bool {
	return errors.Is(err, errEmptySpan) || errors.Is(err, errThreadHidden)
}
