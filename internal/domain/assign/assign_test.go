package assign_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/jury/internal/domain/assign"
	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	err := logger.InitWithWriter(discard{})
	if err != nil {
		panic(err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func table(t *testing.T, n int) *category.Table {
	t.Helper()
	labels := []string{"Chemistry", "Physics", "Biology", "Mathematics"}
	entries := make([]category.Entry, n)
	for i := range entries {
		entries[i] = category.Entry{Label: labels[i], JudgeLabel: labels[i] + " (judge)", StudentLabel: labels[i]}
	}
	tbl, err := category.NewTable(entries)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func slots(s ...int) []timeindex.Slot {
	out := make([]timeindex.Slot, len(s))
	for i, v := range s {
		out[i] = timeindex.Slot(v)
	}
	return out
}

func addStudent(r *model.Roster, submission int, paper, poster bool, c category.ID) *model.Student {
	s, err := r.AddStudent(model.Student{Submission: submission, Paper: paper, Poster: poster, Category: c})
	So(err, ShouldBeNil)
	return s
}

func TestBuckets(t *testing.T) {
	Convey("Given judges spread unevenly over three categories", t, func() {
		r := model.NewRoster()
		r.AddJudge(model.Judge{Categories: []category.ID{0, 1}, Availability: slots(0), PaperReviewer: true})
		r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0)})
		r.AddJudge(model.Judge{Categories: []category.ID{2}, PaperReviewer: true})
		addStudent(r, 1, true, true, 0)
		addStudent(r, 2, false, true, 2)
		addStudent(r, 3, true, false, 1)

		Convey("When building presentation buckets", func() {
			buckets := assign.PresentationBuckets(r, table(t, 3))

			Convey("Then categories are ordered by judge pool size then id", func() {
				So(len(buckets), ShouldEqual, 3)
				So(buckets[0].Category, ShouldEqual, category.ID(2))
				So(buckets[0].Judges, ShouldBeEmpty)
				So(buckets[0].Students, ShouldResemble, []model.StudentID{1})
				So(buckets[1].Category, ShouldEqual, category.ID(1))
				So(buckets[2].Category, ShouldEqual, category.ID(0))
				So(buckets[2].Judges, ShouldResemble, []model.JudgeID{0, 1})
				So(buckets[2].Students, ShouldResemble, []model.StudentID{0})
			})
		})

		Convey("When building paper buckets", func() {
			buckets := assign.PaperBuckets(r, table(t, 3))

			Convey("Then only reviewers and paper students are bucketed", func() {
				So(buckets[0].Category, ShouldEqual, category.ID(0))
				So(buckets[0].Judges, ShouldResemble, []model.JudgeID{0})
				So(buckets[0].Students, ShouldResemble, []model.StudentID{0})
				So(buckets[1].Category, ShouldEqual, category.ID(1))
				So(buckets[1].Students, ShouldResemble, []model.StudentID{2})
				So(buckets[2].Category, ShouldEqual, category.ID(2))
				So(buckets[2].Students, ShouldBeEmpty)
			})
		})
	})
}

func TestAssignPresentations(t *testing.T) {
	ctx := context.Background()

	Convey("Given three poster students and two judges with two slots each", t, func() {
		r := model.NewRoster()
		j1 := r.AddJudge(model.Judge{First: "One", Categories: []category.ID{0}, Availability: slots(6, 2)})
		j2 := r.AddJudge(model.Judge{First: "Two", Categories: []category.ID{0}, Availability: slots(3, 4)})
		s1 := addStudent(r, 10, false, true, 0)
		s2 := addStudent(r, 11, false, true, 0)
		s3 := addStudent(r, 12, false, true, 0)

		e := assign.New(r, table(t, 1))
		err := e.AssignPresentations(ctx)

		Convey("Then every student gets one judge in queue order", func() {
			So(err, ShouldBeNil)
			So(s1.PresentationJudges, ShouldResemble, []model.JudgeID{j1.ID})
			So(s2.PresentationJudges, ShouldResemble, []model.JudgeID{j2.ID})
			So(s3.PresentationJudges, ShouldResemble, []model.JudgeID{j1.ID})
			So(len(j1.Presentations), ShouldEqual, 2)
			So(len(j2.Presentations), ShouldEqual, 1)
			So(e.Summary().Presentations, ShouldEqual, 3)
		})

		Convey("Then each judge uses its earliest free slots", func() {
			So(s1.Slot, ShouldEqual, timeindex.Slot(2))
			So(s3.Slot, ShouldEqual, timeindex.Slot(6))
			So(s2.Slot, ShouldEqual, timeindex.Slot(3))
			So(j1.PresentationSlots, ShouldResemble, slots(2, 6))
		})
	})

	Convey("Given a poster category nobody judges", t, func() {
		r := model.NewRoster()
		r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0, 1)})
		addStudent(r, 1, false, true, 0)
		addStudent(r, 2, false, true, 1)
		addStudent(r, 3, false, true, 1)

		err := assign.New(r, table(t, 2)).AssignPresentations(ctx)

		Convey("Then a capacity error names the category", func() {
			var capErr *assign.CapacityError
			So(errors.As(err, &capErr), ShouldBeTrue)
			So(errors.Is(err, assign.ErrCapacityInfeasible), ShouldBeTrue)
			So(capErr.Kind, ShouldEqual, assign.KindPresentation)
			So(capErr.Category, ShouldEqual, category.ID(1))
			So(capErr.Unmatched, ShouldEqual, 2)
			So(capErr.Judges, ShouldEqual, 0)
			So(err.Error(), ShouldContainSubstring, "The category Physics did not have enough judges")
			So(err.Error(), ShouldContainSubstring, "There are 2 student(s)")
		})
	})

	Convey("Given more posters than the category's judges can take", t, func() {
		r := model.NewRoster()
		r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0)})
		addStudent(r, 1, false, true, 0)
		addStudent(r, 2, false, true, 0)

		err := assign.New(r, table(t, 1)).AssignPresentations(ctx)

		Convey("Then the leftover students are reported", func() {
			var capErr *assign.CapacityError
			So(errors.As(err, &capErr), ShouldBeTrue)
			So(capErr.Students, ShouldEqual, 2)
			So(capErr.Unmatched, ShouldEqual, 1)
			So(capErr.Judges, ShouldEqual, 1)
		})
	})

	Convey("Given a reviewer judging a paper student's poster", t, func() {
		r := model.NewRoster()
		j := r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0), PaperReviewer: true})
		s := addStudent(r, 1, true, true, 0)

		e := assign.New(r, table(t, 1))
		err := e.AssignPresentations(ctx)

		Convey("Then the paper is picked up as well", func() {
			So(err, ShouldBeNil)
			So(s.PaperJudges, ShouldResemble, []model.JudgeID{j.ID})
			So(j.Papers, ShouldResemble, []model.StudentID{s.ID})
			So(e.Summary().OpportunisticPapers, ShouldEqual, 1)
		})
	})
}

func TestAssignPapers(t *testing.T) {
	ctx := context.Background()

	Convey("Given two paper students and two reviewers", t, func() {
		r := model.NewRoster()
		j1 := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		j2 := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		s1 := addStudent(r, 1, true, false, 0)
		s2 := addStudent(r, 2, true, false, 0)

		e := assign.New(r, table(t, 1))
		sum, err := e.Run(ctx)

		Convey("Then a student needing a second reviewer goes straight to the next judge", func() {
			So(err, ShouldBeNil)
			So(len(j1.Papers), ShouldEqual, 2)
			So(len(j2.Papers), ShouldEqual, 2)
			So(s1.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(s2.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(sum.RoundPapers, ShouldEqual, 4)
			So(sum.ConflictPapers, ShouldEqual, 0)
			So(sum.Deferred, ShouldEqual, 0)
		})
	})

	Convey("Given as many paper students as reviewers", t, func() {
		for _, n := range []int{2, 3, 4, 6} {
			r := model.NewRoster()
			for range n {
				r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
			}
			for i := range n {
				addStudent(r, i+1, true, false, 0)
			}

			sum, err := assign.New(r, table(t, 1)).Run(ctx)

			So(err, ShouldBeNil)
			So(sum.RoundPapers, ShouldEqual, 2*n)
			So(sum.Deferred, ShouldEqual, 0)
			for _, j := range r.Judges() {
				So(len(j.Papers), ShouldEqual, 2)
			}
		}
	})

	Convey("Given a reviewer who already took a paper while judging its poster", t, func() {
		r := model.NewRoster()
		j1 := r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0), PaperReviewer: true})
		j2 := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		s1 := addStudent(r, 1, true, true, 0)
		s2 := addStudent(r, 2, true, false, 0)
		s3 := addStudent(r, 3, true, false, 0)

		e := assign.New(r, table(t, 1))
		sum, err := e.Run(ctx)

		Convey("Then the rounds start with the judge that has fewer papers", func() {
			So(err, ShouldBeNil)
			So(s1.PresentationJudges, ShouldResemble, []model.JudgeID{j1.ID})
			So(s1.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(s2.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(s3.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(j1.Papers, ShouldResemble, []model.StudentID{s1.ID, s2.ID, s3.ID})
			So(j2.Papers, ShouldResemble, []model.StudentID{s1.ID, s2.ID, s3.ID})
		})

		Convey("Then the summary splits papers by how they were assigned", func() {
			So(sum.OpportunisticPapers, ShouldEqual, 1)
			So(sum.RoundPapers, ShouldEqual, 5)
			So(sum.ConflictPapers, ShouldEqual, 0)
			So(sum.Deferred, ShouldEqual, 0)
		})
	})

	Convey("Given two judges who each took the paper of the poster they judged", t, func() {
		r := model.NewRoster()
		j1 := r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0), PaperReviewer: true})
		j2 := r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0), PaperReviewer: true})
		s1 := addStudent(r, 1, true, true, 0)
		s2 := addStudent(r, 2, true, true, 0)

		e := assign.New(r, table(t, 1))
		sum, err := e.Run(ctx)

		Convey("Then both students are deferred and resolved to the least loaded other judge", func() {
			So(err, ShouldBeNil)
			So(s1.PaperJudges, ShouldResemble, []model.JudgeID{j1.ID, j2.ID})
			So(s2.PaperJudges, ShouldResemble, []model.JudgeID{j2.ID, j1.ID})
			So(j1.Papers, ShouldResemble, []model.StudentID{s1.ID, s2.ID})
			So(j2.Papers, ShouldResemble, []model.StudentID{s2.ID, s1.ID})
		})

		Convey("Then the summary counts the conflict pass", func() {
			So(sum.OpportunisticPapers, ShouldEqual, 2)
			So(sum.RoundPapers, ShouldEqual, 0)
			So(sum.ConflictPapers, ShouldEqual, 2)
			So(sum.Deferred, ShouldEqual, 2)
		})
	})

	Convey("Given paper students but no reviewer in their category", t, func() {
		r := model.NewRoster()
		r.AddJudge(model.Judge{Categories: []category.ID{0}})
		r.AddJudge(model.Judge{Categories: []category.ID{1}, PaperReviewer: true})
		addStudent(r, 1, true, false, 0)

		err := assign.New(r, table(t, 2)).AssignPapers(ctx)

		Convey("Then a paper capacity error is returned", func() {
			var capErr *assign.CapacityError
			So(errors.As(err, &capErr), ShouldBeTrue)
			So(capErr.Kind, ShouldEqual, assign.KindPaper)
			So(capErr.Category, ShouldEqual, category.ID(0))
			So(capErr.Judges, ShouldEqual, 0)
			So(err.Error(), ShouldContainSubstring, "The category Chemistry did not have enough paper reviewers")
		})
	})

	Convey("Given a category with a single reviewer", t, func() {
		r := model.NewRoster()
		j := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		s := addStudent(r, 1, true, false, 0)

		err := assign.New(r, table(t, 1)).AssignPapers(ctx)

		Convey("Then the second reviewer cannot be found", func() {
			So(errors.Is(err, assign.ErrCapacityInfeasible), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "No second distinct paper reviewer")
			So(s.PaperJudges, ShouldResemble, []model.JudgeID{j.ID})
		})
	})

	Convey("Given a paper limit too small for the category", t, func() {
		r := model.NewRoster(model.WithPaperLimit(1))
		j1 := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		j2 := r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		addStudent(r, 1, true, false, 0)
		addStudent(r, 2, true, false, 0)

		err := assign.New(r, table(t, 1)).AssignPapers(ctx)

		Convey("Then assignment stops with every judge at the limit", func() {
			var capErr *assign.CapacityError
			So(errors.As(err, &capErr), ShouldBeTrue)
			So(capErr.Unmatched, ShouldEqual, 1)
			So(capErr.Reason, ShouldContainSubstring, "paper limit")
			So(len(j1.Papers), ShouldEqual, 1)
			So(len(j2.Papers), ShouldEqual, 1)
		})
	})

	Convey("Given a paper limit that exactly covers the category", t, func() {
		r := model.NewRoster(model.WithPaperLimit(2))
		for range 3 {
			r.AddJudge(model.Judge{Categories: []category.ID{0}, PaperReviewer: true})
		}
		for i := range 3 {
			addStudent(r, i+1, true, false, 0)
		}

		err := assign.New(r, table(t, 1)).AssignPapers(ctx)

		Convey("Then every judge fills its quota without an error", func() {
			So(err, ShouldBeNil)
			for _, j := range r.Judges() {
				So(len(j.Papers), ShouldEqual, 2)
			}
			for _, s := range r.Students() {
				So(len(s.PaperJudges), ShouldEqual, 2)
			}
		})
	})

	Convey("Given a cancelled context", t, func() {
		r := model.NewRoster()
		r.AddJudge(model.Judge{Categories: []category.ID{0}, Availability: slots(0)})
		addStudent(r, 1, false, true, 0)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := assign.New(r, table(t, 1)).Run(cctx)

		Convey("Then the run stops between phases", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestAssignmentProperties(t *testing.T) {
	Convey("Given a feasible roster over three categories", t, func() {
		tbl := table(t, 3)
		r := model.NewRoster()
		for i := 0; i < 12; i++ {
			r.AddJudge(model.Judge{
				Categories:    []category.ID{category.ID(i % 3), category.ID((i + 1) % 3)},
				PaperReviewer: i%2 == 0,
				Availability:  slots(i%5, i%5+1, i%5+8, i%5+9),
			})
		}
		for i := 0; i < 20; i++ {
			addStudent(r, 100+i, i%2 == 0, i%3 != 1, category.ID(i%3))
		}

		_, err := assign.New(r, tbl).Run(context.Background())
		So(err, ShouldBeNil)

		Convey("Then every poster has exactly one eligible judge at an available slot", func() {
			for _, s := range r.Students() {
				if !s.Poster {
					So(s.PresentationJudges, ShouldBeEmpty)
					continue
				}
				So(len(s.PresentationJudges), ShouldEqual, 1)
				j, _ := r.Judge(s.PresentationJudges[0])
				So(j.Prefers(s.Category), ShouldBeTrue)
				So(s.Scheduled, ShouldBeTrue)
				So(j.Available(s.Slot), ShouldBeTrue)
			}
		})

		Convey("Then every paper has two distinct reviewers from its category", func() {
			for _, s := range r.Students() {
				if !s.Paper {
					So(s.PaperJudges, ShouldBeEmpty)
					continue
				}
				So(len(s.PaperJudges), ShouldEqual, 2)
				So(s.PaperJudges[0], ShouldNotEqual, s.PaperJudges[1])
				for _, jid := range s.PaperJudges {
					j, _ := r.Judge(jid)
					So(j.PaperReviewer, ShouldBeTrue)
					So(j.Prefers(s.Category), ShouldBeTrue)
				}
			}
		})

		Convey("Then no judge is over capacity or double-booked", func() {
			for _, j := range r.Judges() {
				So(len(j.Presentations), ShouldBeLessThanOrEqualTo, j.Capacity())
				seen := map[timeindex.Slot]bool{}
				for _, slot := range j.PresentationSlots {
					So(seen[slot], ShouldBeFalse)
					seen[slot] = true
				}
				if !j.PaperReviewer {
					So(j.Papers, ShouldBeEmpty)
				}
			}
		})
	})
}
