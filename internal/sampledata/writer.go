package sampledata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// Write stores the sample as the judge and student files cfg names, inside
// dir.
func Write(ctx context.Context, dir string, cfg *config.Config, s *Sample) error {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name string
		rows [][]string
	}{
		{cfg.JudgeFile, s.Judges},
		{cfg.StudentFile, s.Students},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.rows); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Get().Info(ctx, "sample file written", logger.String("path", path), logger.Int("rows", len(f.rows)-1))
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
