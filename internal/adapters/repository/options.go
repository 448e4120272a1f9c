package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/jury/internal/domain/timeindex"
)

// JudgeColumns names the judge file's header cells.
type JudgeColumns struct {
	First      string
	Last       string
	Email      string
	Phone      string
	Categories string
	Reviewer   string
}

// StudentColumns names the student file's header cells.
type StudentColumns struct {
	Submission    string
	Participation string
	Category      string
	PosterPDF     string
	PaperPDF      string
}

// AvailabilityColumn is a judge file column holding one day's hour ranges.
type AvailabilityColumn struct {
	Name string
	Date time.Time
}

// DayPlaceholder is replaced by the day label in an availability column
// format.
const DayPlaceholder = "{day}"

// AvailabilityColumns expands format once per day label and dates each
// column from its bracketed day. Labels carry no year: a day that would fall
// before start belongs to the following year, so windows spanning New Year
// date correctly.
func AvailabilityColumns(format string, days []string, start time.Time) ([]AvailabilityColumn, error) {
	if !strings.Contains(format, DayPlaceholder) {
		return nil, fmt.Errorf("%w: availability column format lacks %s", ErrMalformedInput, DayPlaceholder)
	}
	cols := make([]AvailabilityColumn, 0, len(days))
	for _, day := range days {
		name := strings.ReplaceAll(format, DayPlaceholder, day)
		date, err := timeindex.ParseColumnDate(name, start.Year())
		if err != nil || date.Before(start) {
			if next, nerr := timeindex.ParseColumnDate(name, start.Year()+1); nerr == nil {
				date, err = next, nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
		}
		cols = append(cols, AvailabilityColumn{Name: name, Date: date})
	}
	return cols, nil
}

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithJudgeColumns overrides the judge header names.
func WithJudgeColumns(c JudgeColumns) Option {
	return func(s *CSVSource) {
		s.judgeCols = c
	}
}

// WithStudentColumns overrides the student header names.
func WithStudentColumns(c StudentColumns) Option {
	return func(s *CSVSource) {
		s.studentCols = c
	}
}

// WithAvailability sets the per-day availability columns, in order.
func WithAvailability(cols ...AvailabilityColumn) Option {
	return func(s *CSVSource) {
		s.days = append([]AvailabilityColumn(nil), cols...)
	}
}
