package model

import "errors"

// Sentinel error kinds for roster construction.
var (
	ErrDuplicateStudent = errors.New("duplicate student submission")
	ErrUnknownJudge     = errors.New("unknown judge")
	ErrUnknownStudent   = errors.New("unknown student")
)
