// Package repository reads judge and student records from CSV exports and
// builds the roster the assignment engine works on.
package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/jury/internal/domain/model"
)

// Source provides the raw input records.
type Source interface {
	// Judges returns the non-blank judge rows in file order.
	Judges(ctx context.Context) ([]model.JudgeRecord, error)
	// Students returns the student rows in file order.
	Students(ctx context.Context) ([]model.StudentRecord, error)
}

// CSVSource reads records from a pair of CSV files with a header row.
type CSVSource struct {
	judgePath   string
	studentPath string
	judgeCols   JudgeColumns
	studentCols StudentColumns
	days        []AvailabilityColumn
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource returns a source over the given files. Column names default to
// the registration form's questions.
func NewCSVSource(judgePath, studentPath string, opts ...Option) *CSVSource {
	s := &CSVSource{
		judgePath:   judgePath,
		studentPath: studentPath,
		judgeCols: JudgeColumns{
			First:      "First Name",
			Last:       "Last Name",
			Email:      "Email Address",
			Phone:      "Cell Phone Number",
			Categories: "What categories would you would prefer to review and/or judge?",
			Reviewer:   "Would you like to volunteer as a paper reviewer?",
		},
		studentCols: StudentColumns{
			Submission:    "Submission Number",
			Participation: "Participation Type",
			Category:      "Research Category of Competition. Please note: your chosen category is not guaranteed.",
			PosterPDF:     "Upload Digital Poster as PDF.",
			PaperPDF:      "Upload Full Paper as PDF.",
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Judges reads the judge file. Rows whose cells are all empty are skipped.
func (s *CSVSource) Judges(ctx context.Context) ([]model.JudgeRecord, error) {
	t, err := readTable(ctx, s.judgePath)
	if err != nil {
		return nil, err
	}
	names := []string{s.judgeCols.First, s.judgeCols.Last, s.judgeCols.Email, s.judgeCols.Phone,
		s.judgeCols.Categories, s.judgeCols.Reviewer}
	for _, d := range s.days {
		names = append(names, d.Name)
	}
	if err := t.require(names...); err != nil {
		return nil, err
	}

	var out []model.JudgeRecord
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		rec := model.JudgeRecord{
			Row:        i + 1,
			First:      t.cell(row, s.judgeCols.First),
			Last:       t.cell(row, s.judgeCols.Last),
			Email:      t.cell(row, s.judgeCols.Email),
			Phone:      t.cell(row, s.judgeCols.Phone),
			Categories: t.cell(row, s.judgeCols.Categories),
			Reviewer:   t.cell(row, s.judgeCols.Reviewer),
		}
		for _, d := range s.days {
			rec.Availability = append(rec.Availability, model.DayAvailability{Date: d.Date, Text: t.cell(row, d.Name)})
		}
		out = append(out, rec)
	}
	return out, nil
}

// Students reads the student file. Rows whose cells are all empty are
// skipped.
func (s *CSVSource) Students(ctx context.Context) ([]model.StudentRecord, error) {
	t, err := readTable(ctx, s.studentPath)
	if err != nil {
		return nil, err
	}
	c := s.studentCols
	if err := t.require(c.Submission, c.Participation, c.Category, c.PosterPDF, c.PaperPDF); err != nil {
		return nil, err
	}

	var out []model.StudentRecord
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		out = append(out, model.StudentRecord{
			Row:           i + 1,
			Submission:    t.cell(row, c.Submission),
			Participation: t.cell(row, c.Participation),
			Category:      t.cell(row, c.Category),
			PosterPDF:     t.cell(row, c.PosterPDF),
			PaperPDF:      t.cell(row, c.PaperPDF),
		})
	}
	return out, nil
}

// table is a parsed CSV file indexed by header name.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
}

func readTable(ctx context.Context, path string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: no header row", ErrMalformedInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	t := &table{path: path, columns: make(map[string]int, len(header))}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := t.columns[strings.TrimSpace(name)]; !dup {
			t.columns[strings.TrimSpace(name)] = i
		}
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedInput, path, err)
	}
	t.rows = rows
	return t, nil
}

func (t *table) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.columns[strings.TrimSpace(n)]; !ok {
			missing = append(missing, fmt.Sprintf("%q", n))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrMissingColumn, t.path, strings.Join(missing, ", "))
	}
	return nil
}

func (t *table) cell(row []string, name string) string {
	i, ok := t.columns[strings.TrimSpace(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
