// Package verify audits a finished roster against the raw input records.
// Every fact it checks is re-derived from the raw text, so a defect in
// roster construction or in the matchers surfaces here before any report is
// written.
package verify

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/pkg/logger"
)

// Input is everything the audit reads.
type Input struct {
	Roster   *model.Roster
	Table    *category.Table
	Index    *timeindex.Index
	Judges   []model.JudgeRecord
	Students []model.StudentRecord
}

// Option applies a configuration option to the Verifier.
type Option func(*Verifier)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Verifier) {
		v.logger = l
	}
}

// Verifier checks rosters. It never mutates them.
type Verifier struct {
	logger logger.Logger
}

// New returns a Verifier.
func New(opts ...Option) *Verifier {
	v := &Verifier{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logger.Named("verify")
	}
	return v
}

// Verify returns the first violation found as a *VerificationError.
func (v *Verifier) Verify(ctx context.Context, in Input) error {
	for _, rec := range in.Judges {
		if err := checkJudge(in, rec); err != nil {
			v.logger.Error(ctx, "judge verification failed", logger.Error(err))
			return err
		}
	}
	for _, rec := range in.Students {
		if err := checkStudent(in, rec); err != nil {
			v.logger.Error(ctx, "student verification failed", logger.Error(err))
			return err
		}
	}
	v.logger.Info(ctx, "assignments verified",
		logger.Int("judges", len(in.Judges)),
		logger.Int("students", len(in.Students)))
	return nil
}

func judgeName(rec model.JudgeRecord) string {
	return fmt.Sprintf("judge row %d (%s %s)", rec.Row, rec.First, rec.Last)
}

func checkJudge(in Input, rec model.JudgeRecord) error {
	name := judgeName(rec)
	prefs := in.Table.JudgePreferences(rec.Categories)
	var matches []*model.Judge
	for _, j := range in.Roster.Judges() {
		if j.First == rec.First && j.Last == rec.Last && j.Email == rec.Email &&
			j.Phone == rec.Phone && j.PaperReviewer == rec.IsReviewer() &&
			slices.Equal(j.Categories, prefs) {
			matches = append(matches, j)
		}
	}
	if len(matches) != 1 {
		return mismatch(name, RuleIdentity, "%d roster judges match, want 1", len(matches))
	}
	j := matches[0]

	if err := checkAvailability(in, rec, j); err != nil {
		return err
	}
	if err := checkBookings(in, rec, j); err != nil {
		return err
	}
	if len(j.Papers) > 0 && !rec.IsReviewer() {
		return mismatch(name, RuleReviewerFlag, "%d papers assigned but reviewer answer is %q", len(j.Papers), rec.Reviewer)
	}
	for _, sid := range slices.Concat(j.Presentations, j.Papers) {
		s, err := in.Roster.Student(sid)
		if err != nil {
			return mismatch(name, RuleCategory, "%v", err)
		}
		if !in.Table.JudgePrefers(rec.Categories, s.Category) {
			return mismatch(name, RuleCategory, "assigned submission %d in %s which the judge did not select",
				s.Submission, in.Table.Label(s.Category))
		}
	}
	return nil
}

// checkAvailability confirms every roster slot comes from the raw cell of
// its day.
func checkAvailability(in Input, rec model.JudgeRecord, j *model.Judge) error {
	name := judgeName(rec)
	for _, slot := range j.Availability {
		date, hour, _, err := in.Index.Time(slot)
		if err != nil {
			return mismatch(name, RuleAvailability, "%v", err)
		}
		i := slices.IndexFunc(rec.Availability, func(d model.DayAvailability) bool { return d.Date.Equal(date) })
		if i < 0 {
			return mismatch(name, RuleAvailability, "no availability column for %s", date.Format("2006-01-02"))
		}
		hours, err := timeindex.ParseHourRanges(rec.Availability[i].Text)
		if err != nil {
			return mismatch(name, RuleAvailability, "%v", err)
		}
		if !slices.Contains(hours, hour) {
			return mismatch(name, RuleAvailability, "slot %s %s is not in %q",
				in.Index.FormatDate(slot), in.Index.FormatClock(slot), rec.Availability[i].Text)
		}
	}
	return nil
}

func checkBookings(in Input, rec model.JudgeRecord, j *model.Judge) error {
	name := judgeName(rec)
	if len(j.Presentations) > j.Capacity() {
		return mismatch(name, RuleCapacity, "%d presentations for %d available slots", len(j.Presentations), j.Capacity())
	}
	if len(j.PresentationSlots) != len(j.Presentations) {
		return mismatch(name, RuleSlot, "%d slots for %d presentations", len(j.PresentationSlots), len(j.Presentations))
	}
	seen := make(map[timeindex.Slot]bool, len(j.PresentationSlots))
	for _, slot := range j.PresentationSlots {
		if !j.Available(slot) {
			return mismatch(name, RuleSlot, "presentation at %s %s outside availability",
				in.Index.FormatDate(slot), in.Index.FormatClock(slot))
		}
		if seen[slot] {
			return mismatch(name, RuleDoubleBooked, "two presentations at %s %s",
				in.Index.FormatDate(slot), in.Index.FormatClock(slot))
		}
		seen[slot] = true
	}
	return nil
}

func checkStudent(in Input, rec model.StudentRecord) error {
	name := "student " + strings.TrimSpace(rec.Submission)
	n, err := strconv.Atoi(strings.TrimSpace(rec.Submission))
	if err != nil {
		return mismatch(name, RuleSubmission, "submission number %q is not an integer", rec.Submission)
	}
	var matches []*model.Student
	for _, s := range in.Roster.Students() {
		if s.Submission == n {
			matches = append(matches, s)
		}
	}
	if len(matches) != 1 {
		return mismatch(name, RuleSubmission, "%d roster students match, want 1", len(matches))
	}
	s := matches[0]

	c, err := in.Table.StudentCategory(rec.Category)
	if err != nil || c != s.Category {
		return mismatch(name, RuleCategory, "roster category %s, raw category %q", in.Table.Label(s.Category), rec.Category)
	}

	paper, poster := category.Participation(rec.Participation)
	if len(s.PaperJudges) > 0 && !paper {
		return mismatch(name, RuleParticipation, "paper reviewers assigned but participation is %q", rec.Participation)
	}
	if len(s.PresentationJudges) > 0 && !poster {
		return mismatch(name, RuleParticipation, "presentation judge assigned but participation is %q", rec.Participation)
	}
	if paper {
		if len(s.PaperJudges) != model.PaperReviewers || len(slices.Compact(slices.Sorted(slices.Values(s.PaperJudges)))) != model.PaperReviewers {
			return mismatch(name, RuleReviewers, "reviewers %v, want %d distinct", s.PaperJudges, model.PaperReviewers)
		}
	}
	if poster {
		if len(s.PresentationJudges) != 1 || !s.Scheduled {
			return mismatch(name, RulePresentation, "%d presentation judges, want 1", len(s.PresentationJudges))
		}
		j, err := in.Roster.Judge(s.PresentationJudges[0])
		if err != nil {
			return mismatch(name, RulePresentation, "%v", err)
		}
		if !j.Available(s.Slot) {
			return mismatch(name, RulePresentation, "slot %s %s is outside the availability of %s",
				in.Index.FormatDate(s.Slot), in.Index.FormatClock(s.Slot), j.Name())
		}
		i := slices.Index(j.Presentations, s.ID)
		if i < 0 || i >= len(j.PresentationSlots) || j.PresentationSlots[i] != s.Slot {
			return mismatch(name, RulePresentation, "slot %s %s is not the one %s booked for this student",
				in.Index.FormatDate(s.Slot), in.Index.FormatClock(s.Slot), j.Name())
		}
	}
	return nil
}
