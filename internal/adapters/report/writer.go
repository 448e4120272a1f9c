// Package report publishes the output directory: the five CSV reports of a
// successful run or the diagnostic of a failed one. Files are written into a
// staging directory that replaces the output directory once complete.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/pkg/logger"
)

// DefaultErrorFile is the failure diagnostic name when none is configured.
const DefaultErrorFile = "error.txt"

// Writer owns the output directory.
type Writer struct {
	dir       string
	errorFile string
	runID     string
	logger    logger.Logger
}

// NewWriter returns a Writer for dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, errorFile: DefaultErrorFile}
	for _, opt := range opts {
		opt(w)
	}
	if w.runID == "" {
		w.runID = uuid.NewString()
	}
	if w.logger == nil {
		w.logger = logger.Named("report")
	}
	return w
}

// Dir returns the absolute output directory, or the configured one when it
// cannot be resolved.
func (w *Writer) Dir() string {
	abs, err := filepath.Abs(w.dir)
	if err != nil {
		return w.dir
	}
	return abs
}

// WriteReports replaces the output directory with the reports of r.
func (w *Writer) WriteReports(ctx context.Context, r *model.Roster, idx *timeindex.Index, cats *category.Table) error {
	tables := Tables(r, idx, cats)
	err := w.publish(func(stage string) error {
		for _, t := range tables {
			if err := writeCSV(filepath.Join(stage, t.Name), t.Rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.logger.Info(ctx, "reports written", logger.String("dir", w.Dir()), logger.Int("files", len(tables)))
	return nil
}

// WriteError replaces the output directory with a single diagnostic file and
// returns its absolute path.
func (w *Writer) WriteError(ctx context.Context, message string) (string, error) {
	err := w.publish(func(stage string) error {
		return os.WriteFile(filepath.Join(stage, w.errorFile), []byte(message), 0o644)
	})
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir(), w.errorFile)
	w.logger.Info(ctx, "error report written", logger.String("path", path))
	return path, nil
}

// publish removes the previous output, fills a sibling staging directory
// and renames it into place.
func (w *Writer) publish(fill func(stage string) error) error {
	dir := filepath.Clean(w.dir)
	stage := filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+"-"+w.runID)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrWriteReport, dir, err)
	}
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrWriteReport, stage, err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if err := fill(stage); err != nil {
		_ = os.RemoveAll(stage)
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	if err := os.Rename(stage, dir); err != nil {
		_ = os.RemoveAll(stage)
		return fmt.Errorf("%w: %w", ErrWriteReport, err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
