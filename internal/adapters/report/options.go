package report

import "github.com/okian/jury/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithErrorFile sets the name of the failure diagnostic file.
func WithErrorFile(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.errorFile = name
		}
	}
}

// WithRunID names the staging directory after the run.
func WithRunID(id string) Option {
	return func(w *Writer) {
		if id != "" {
			w.runID = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		w.logger = l
	}
}
