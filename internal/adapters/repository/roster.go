package repository

import (
	"fmt"
	"strconv"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
)

// BuildRoster parses raw records into a roster. Each availability hour
// becomes the two half-hour slots it covers.
func BuildRoster(judges []model.JudgeRecord, students []model.StudentRecord, t *category.Table, idx *timeindex.Index, opts ...model.Option) (*model.Roster, error) {
	r := model.NewRoster(opts...)
	for _, rec := range judges {
		avail, err := availability(rec, idx)
		if err != nil {
			return nil, err
		}
		r.AddJudge(model.Judge{
			First:         rec.First,
			Last:          rec.Last,
			Email:         rec.Email,
			Phone:         rec.Phone,
			Categories:    t.JudgePreferences(rec.Categories),
			PaperReviewer: rec.IsReviewer(),
			Availability:  avail,
		})
	}
	for _, rec := range students {
		n, err := strconv.Atoi(rec.Submission)
		if err != nil {
			return nil, fmt.Errorf("%w: student row %d: submission number %q", ErrMalformedInput, rec.Row, rec.Submission)
		}
		c, err := t.StudentCategory(rec.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: student row %d: %w", ErrMalformedInput, rec.Row, err)
		}
		paper, poster := category.Participation(rec.Participation)
		if _, err := r.AddStudent(model.Student{
			Submission: n,
			Paper:      paper,
			Poster:     poster,
			Category:   c,
			PosterPDF:  rec.PosterPDF,
			PaperPDF:   rec.PaperPDF,
		}); err != nil {
			return nil, fmt.Errorf("%w: student row %d: %w", ErrMalformedInput, rec.Row, err)
		}
	}
	return r, nil
}

func availability(rec model.JudgeRecord, idx *timeindex.Index) ([]timeindex.Slot, error) {
	var out []timeindex.Slot
	for _, day := range rec.Availability {
		hours, err := timeindex.ParseHourRanges(day.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: judge row %d: %w", ErrMalformedInput, rec.Row, err)
		}
		for _, h := range hours {
			pair, err := idx.Expand(day.Date, h)
			if err != nil {
				return nil, fmt.Errorf("%w: judge row %d: %w", ErrMalformedInput, rec.Row, err)
			}
			out = append(out, pair[:]...)
		}
	}
	return out, nil
}
