package snapwatch

import "errors"

// ErrWatcherClosed indicates the watcher has been closed.
var ErrWatcherClosed = errors.New("snapshot watcher closed")
