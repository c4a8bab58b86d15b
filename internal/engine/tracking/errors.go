package tracking

import "errors"

// ErrMalformedSnapshot indicates the snapshot input could not be decoded at all.
var ErrMalformedSnapshot = errors.New("malformed snapshot")
