// Package model contains the judge and student rosters the assignment engine
// mutates. Cross references are stored as integer ids into the roster.
package model

import (
	"slices"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/timeindex"
)

// PaperReviewers is the number of distinct reviewers every paper needs.
const PaperReviewers = 2

// JudgeID is a judge's position in the roster.
type JudgeID int

// StudentID is a student's position in the roster.
type StudentID int

// Judge is an evaluator and the work assigned to them.
type Judge struct {
	ID            JudgeID
	First         string
	Last          string
	Email         string
	Phone         string
	Categories    []category.ID
	PaperReviewer bool
	// Availability is sorted and free of duplicates; its length is the
	// judge's presentation capacity.
	Availability []timeindex.Slot

	Presentations []StudentID
	// PresentationSlots[i] is the slot booked for Presentations[i].
	PresentationSlots []timeindex.Slot
	Papers            []StudentID
}

// Name returns "First Last".
func (j *Judge) Name() string {
	switch {
	case j.First == "":
		return j.Last
	case j.Last == "":
		return j.First
	}
	return j.First + " " + j.Last
}

// Capacity is the number of presentations the judge can take in total.
func (j *Judge) Capacity() int { return len(j.Availability) }

// Remaining is the presentation capacity left.
func (j *Judge) Remaining() int { return j.Capacity() - len(j.Presentations) }

// Prefers reports whether the judge opted into category c.
func (j *Judge) Prefers(c category.ID) bool { return slices.Contains(j.Categories, c) }

// Available reports whether s is in the judge's availability.
func (j *Judge) Available(s timeindex.Slot) bool {
	_, ok := slices.BinarySearch(j.Availability, s)
	return ok
}

// Booked reports whether the judge already has a presentation at s.
func (j *Judge) Booked(s timeindex.Slot) bool { return slices.Contains(j.PresentationSlots, s) }

// FreeSlot returns the earliest available slot the judge has not booked.
func (j *Judge) FreeSlot() (timeindex.Slot, bool) {
	for _, s := range j.Availability {
		if !j.Booked(s) {
			return s, true
		}
	}
	return 0, false
}

// Student is a submission that needs evaluation.
type Student struct {
	ID         StudentID
	Submission int
	Paper      bool
	Poster     bool
	Category   category.ID
	PosterPDF  string
	PaperPDF   string

	PaperJudges []JudgeID
	// PresentationJudges holds at most one judge.
	PresentationJudges []JudgeID
	// Slot is meaningful only when Scheduled is true.
	Slot      timeindex.Slot
	Scheduled bool
}

// ReviewersNeeded is how many more paper reviewers the student requires.
func (s *Student) ReviewersNeeded() int {
	if !s.Paper {
		return 0
	}
	return max(PaperReviewers-len(s.PaperJudges), 0)
}

// ReviewedBy reports whether j is one of the student's paper reviewers.
func (s *Student) ReviewedBy(j JudgeID) bool { return slices.Contains(s.PaperJudges, j) }

// PresentedTo reports whether j is the student's presentation judge.
func (s *Student) PresentedTo(j JudgeID) bool { return slices.Contains(s.PresentationJudges, j) }

// SoleReviewer returns the student's only paper reviewer, if it has exactly one.
func (s *Student) SoleReviewer() (JudgeID, bool) {
	if len(s.PaperJudges) != 1 {
		return 0, false
	}
	return s.PaperJudges[0], true
}
