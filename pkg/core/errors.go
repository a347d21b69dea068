package core

import "errors"

// Common errors.
var (
	ErrReadOnly         = errors.New("note store is in read-only mode")
	ErrStorageCorrupt   = errors.New("stored notes collection is corrupt")
	ErrWatchUnsupported = errors.New("storage does not support watching")
)
