package config

import "errors"

// Sentinel kinds returned by Load, LoadFile and Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config")
)
