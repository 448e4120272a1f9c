package model

import (
	"fmt"
	"slices"

	"github.com/okian/jury/internal/domain/timeindex"
)

// Option applies a configuration option to the Roster.
type Option func(*Roster)

// WithPaperLimit caps the papers a single judge may review. Zero or a
// negative value disables the cap.
func WithPaperLimit(limit int) Option {
	return func(r *Roster) {
		if limit > 0 {
			r.paperLimit = limit
		}
	}
}

// Roster is the indexed collection of judges and students for one run.
// AssignPresentation and AssignPaper are its only mutators once built.
type Roster struct {
	judges       []*Judge
	students     []*Student
	bySubmission map[int]StudentID
	paperLimit   int
}

// NewRoster returns an empty roster.
func NewRoster(opts ...Option) *Roster {
	r := &Roster{bySubmission: make(map[int]StudentID)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PaperLimit returns the per-judge paper cap, or 0 when uncapped.
func (r *Roster) PaperLimit() int { return r.paperLimit }

// AddJudge appends a copy of j, assigns its id and normalizes availability.
// Assignment lists on j are ignored.
func (r *Roster) AddJudge(j Judge) *Judge {
	j.ID = JudgeID(len(r.judges))
	j.Categories = slices.Clone(j.Categories)
	j.Availability = slices.Compact(slices.Sorted(slices.Values(j.Availability)))
	j.Presentations = nil
	j.PresentationSlots = nil
	j.Papers = nil
	r.judges = append(r.judges, &j)
	return &j
}

// AddStudent appends a copy of s and assigns its id. Submission numbers must
// be unique.
func (r *Roster) AddStudent(s Student) (*Student, error) {
	if _, dup := r.bySubmission[s.Submission]; dup {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateStudent, s.Submission)
	}
	s.ID = StudentID(len(r.students))
	s.PaperJudges = nil
	s.PresentationJudges = nil
	s.Slot, s.Scheduled = 0, false
	r.students = append(r.students, &s)
	r.bySubmission[s.Submission] = s.ID
	return &s, nil
}

// Judges returns the judges in id order.
func (r *Roster) Judges() []*Judge { return r.judges }

// Students returns the students in id order.
func (r *Roster) Students() []*Student { return r.students }

// Judge returns the judge with id.
func (r *Roster) Judge(id JudgeID) (*Judge, error) {
	if id < 0 || int(id) >= len(r.judges) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJudge, id)
	}
	return r.judges[id], nil
}

// Student returns the student with id.
func (r *Roster) Student(id StudentID) (*Student, error) {
	if id < 0 || int(id) >= len(r.students) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStudent, id)
	}
	return r.students[id], nil
}

// BySubmission returns the student with the given submission number.
func (r *Roster) BySubmission(n int) (*Student, bool) {
	id, ok := r.bySubmission[n]
	if !ok {
		return nil, false
	}
	return r.students[id], true
}

// AssignPresentation books judge j to evaluate student s's poster at slot.
func (r *Roster) AssignPresentation(j JudgeID, s StudentID, slot timeindex.Slot) (Outcome, error) {
	judge, student, err := r.pair(j, s)
	if err != nil {
		return 0, err
	}
	switch {
	case judge.Remaining() < 1:
		return CapacityExceeded, nil
	case student.PresentedTo(j):
		return Conflict, nil
	case len(student.PresentationJudges) > 0:
		return StudentFull, nil
	case !judge.Available(slot) || judge.Booked(slot):
		return SlotUnavailable, nil
	}
	judge.Presentations = append(judge.Presentations, s)
	judge.PresentationSlots = append(judge.PresentationSlots, slot)
	student.PresentationJudges = append(student.PresentationJudges, j)
	student.Slot, student.Scheduled = slot, true
	return Assigned, nil
}

// AssignPaper records judge j as a reviewer of student s's paper.
func (r *Roster) AssignPaper(j JudgeID, s StudentID) (Outcome, error) {
	judge, student, err := r.pair(j, s)
	if err != nil {
		return 0, err
	}
	switch {
	case student.ReviewedBy(j):
		return Conflict, nil
	case len(student.PaperJudges) >= PaperReviewers:
		return StudentFull, nil
	case r.AtPaperLimit(judge):
		return CapacityExceeded, nil
	}
	judge.Papers = append(judge.Papers, s)
	student.PaperJudges = append(student.PaperJudges, j)
	return Assigned, nil
}

// AtPaperLimit reports whether judge has reached the configured paper cap.
func (r *Roster) AtPaperLimit(judge *Judge) bool {
	return r.paperLimit > 0 && len(judge.Papers) >= r.paperLimit
}

func (r *Roster) pair(j JudgeID, s StudentID) (*Judge, *Student, error) {
	judge, err := r.Judge(j)
	if err != nil {
		return nil, nil, err
	}
	student, err := r.Student(s)
	if err != nil {
		return nil, nil, err
	}
	return judge, student, nil
}
