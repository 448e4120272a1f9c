package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingInput is wrapped by MissingInputError.
var ErrMissingInput = errors.New("missing input")

// MissingPath is one expected input that does not exist.
type MissingPath struct {
	// Path is absolute when it could be resolved.
	Path string
	// Kind describes the input, e.g. "input folder".
	Kind string
}

// MissingInputError lists every expected input that does not exist.
type MissingInputError struct {
	Paths []MissingPath
}

// Error renders one quoted path per line after a heading.
func (e *MissingInputError) Error() string {
	var b strings.Builder
	b.WriteString("The following files are missing.")
	for _, p := range e.Paths {
		fmt.Fprintf(&b, "\n\"%s\" (%s)", p.Path, p.Kind)
	}
	b.WriteString("\n")
	return b.String()
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }
