package assign

import (
	"cmp"
	"slices"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
)

// Bucket is the judge pool and student queue of one category for one phase.
// Both lists are in roster order.
type Bucket struct {
	Category category.ID
	Judges   []model.JudgeID
	Students []model.StudentID
}

// PresentationBuckets groups poster students by category and judges with
// presentation capacity left by each category they prefer.
func PresentationBuckets(r *model.Roster, t *category.Table) []Bucket {
	return buckets(r, t,
		func(s *model.Student) bool { return s.Poster && len(s.PresentationJudges) == 0 },
		func(j *model.Judge) bool { return j.Remaining() > 0 },
	)
}

// PaperBuckets groups paper students still needing reviewers by category and
// paper reviewers by each category they prefer.
func PaperBuckets(r *model.Roster, t *category.Table) []Bucket {
	return buckets(r, t,
		func(s *model.Student) bool { return s.ReviewersNeeded() > 0 },
		func(j *model.Judge) bool { return j.PaperReviewer },
	)
}

// buckets builds one bucket per category and orders them by ascending judge
// pool size, then by category id, so scarce categories fail first.
func buckets(r *model.Roster, t *category.Table, wantStudent func(*model.Student) bool, wantJudge func(*model.Judge) bool) []Bucket {
	out := make([]Bucket, t.Len())
	for i := range out {
		out[i].Category = category.ID(i)
	}
	for _, s := range r.Students() {
		if wantStudent(s) && inTable(t, s.Category) {
			out[s.Category].Students = append(out[s.Category].Students, s.ID)
		}
	}
	for _, j := range r.Judges() {
		if !wantJudge(j) {
			continue
		}
		for _, c := range j.Categories {
			if inTable(t, c) {
				out[c].Judges = append(out[c].Judges, j.ID)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b Bucket) int {
		return cmp.Or(cmp.Compare(len(a.Judges), len(b.Judges)), cmp.Compare(a.Category, b.Category))
	})
	return out
}

func inTable(t *category.Table, c category.ID) bool {
	return c >= 0 && int(c) < t.Len()
}
