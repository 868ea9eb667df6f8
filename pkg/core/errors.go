package core

import "errors"

// Common errors.
var (
	ErrReadOnly      = errors.New("backend is in read-only mode")
	ErrQuotaExceeded = errors.New("backend quota exceeded")
	ErrNotWatchable  = errors.New("backend does not support watching")
)
