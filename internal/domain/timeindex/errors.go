package timeindex

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidWindow  = errors.New("invalid event window")
	ErrOutOfRange     = errors.New("time outside event window")
	ErrMalformedInput = errors.New("malformed time input")
)
