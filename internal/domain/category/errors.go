package category

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidTable    = errors.New("invalid category table")
	ErrUnknownCategory = errors.New("unknown category")
)
