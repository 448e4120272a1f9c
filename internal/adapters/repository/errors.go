package repository

import "errors"

// Sentinel kinds for input errors.
var (
	ErrReadInput      = errors.New("read input")
	ErrMissingColumn  = errors.New("missing column")
	ErrMalformedInput = errors.New("malformed input")
)
