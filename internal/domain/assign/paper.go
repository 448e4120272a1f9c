package assign

import (
	"cmp"
	"context"
	"slices"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// AssignPapers gives every paper student two distinct reviewers from the
// paper reviewers of its category. Students whose next reviewer in the round
// order would be the one already on record are deferred and resolved against
// the least loaded judges after the rounds finish.
func (e *Engine) AssignPapers(ctx context.Context) error {
	e.logger.Info(ctx, "assigning papers")
	for _, b := range PaperBuckets(e.roster, e.table) {
		metrics.UpdateCategoryBucket(metrics.PhasePaper, int(b.Category), len(b.Judges), len(b.Students))
		if len(b.Students) == 0 {
			continue
		}
		if len(b.Judges) == 0 {
			return e.paperCapacity(b, len(b.Students), "")
		}
		deferred, err := e.reviewCategory(ctx, b)
		if err != nil {
			return err
		}
		if err := e.resolveConflicts(ctx, b, deferred); err != nil {
			return err
		}
	}
	e.logger.Info(ctx, "papers assigned",
		logger.Int("papers", e.summary.Papers()),
		logger.Int("deferred", e.summary.Deferred))
	return nil
}

// reviewCategory runs the paper rounds for one bucket. Pending students form
// a stack popped in roster order; a student that still needs a reviewer is
// pushed back on top, so the next eligible judge takes it.
func (e *Engine) reviewCategory(ctx context.Context, b Bucket) ([]model.StudentID, error) {
	pending := slices.Clone(b.Students)
	slices.Reverse(pending)
	var deferred []model.StudentID
	round := 0
	for ; len(pending) > 0; round++ {
		eligible, open := e.reviewers(b, round)
		if open == 0 {
			return nil, e.paperCapacity(b, len(pending), "Every paper reviewer in this category reached the paper limit.")
		}
		for _, jid := range eligible {
			if len(pending) == 0 {
				break
			}
			sid := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			s, err := e.roster.Student(sid)
			if err != nil {
				return nil, err
			}
			if sole, ok := s.SoleReviewer(); ok && sole == jid {
				deferred = append(deferred, sid)
				e.summary.Deferred++
				metrics.RecordConflictDeferred()
				continue
			}
			out, err := e.roster.AssignPaper(jid, sid)
			if err != nil {
				return nil, err
			}
			if out != model.Assigned {
				return nil, unexpected("paper", out, jid, sid)
			}
			e.summary.RoundPapers++
			metrics.RecordPaperAssigned(metrics.SourceRound)
			if s.ReviewersNeeded() > 0 {
				pending = append(pending, sid)
			}
		}
	}
	metrics.RecordCategoryRounds(metrics.PhasePaper, round)
	e.logger.Debug(ctx, "category papers done",
		logger.String("category", e.table.Label(b.Category)),
		logger.Int("judges", len(b.Judges)),
		logger.Int("students", len(b.Students)),
		logger.Int("rounds", round),
		logger.Int("deferred", len(deferred)))
	return deferred, nil
}

// reviewers returns the bucket judges eligible at round, in roster order,
// and how many bucket judges are still under the paper limit.
func (e *Engine) reviewers(b Bucket, round int) ([]model.JudgeID, int) {
	var eligible []model.JudgeID
	open := 0
	for _, jid := range b.Judges {
		j, err := e.roster.Judge(jid)
		if err != nil || e.roster.AtPaperLimit(j) {
			continue
		}
		open++
		if len(j.Papers) <= round {
			eligible = append(eligible, jid)
		}
	}
	return eligible, open
}

func (e *Engine) resolveConflicts(ctx context.Context, b Bucket, deferred []model.StudentID) error {
	if len(deferred) == 0 {
		return nil
	}
	judges := slices.Clone(b.Judges)
	for _, sid := range deferred {
		s, err := e.roster.Student(sid)
		if err != nil {
			return err
		}
		e.sortByLoad(judges)
		next := 0
		for s.ReviewersNeeded() > 0 {
			jid, ok := e.nextReviewer(judges, s, &next)
			if !ok {
				return e.paperCapacity(b, 1, "No second distinct paper reviewer is available for a deferred student.")
			}
			out, err := e.roster.AssignPaper(jid, sid)
			if err != nil {
				return err
			}
			if out != model.Assigned {
				return unexpected("paper", out, jid, sid)
			}
			e.summary.ConflictPapers++
			metrics.RecordPaperAssigned(metrics.SourceConflict)
		}
	}
	e.logger.Debug(ctx, "category conflicts resolved",
		logger.String("category", e.table.Label(b.Category)),
		logger.Int("students", len(deferred)))
	return nil
}

// sortByLoad orders judges by ascending papers, then presentations, then id.
func (e *Engine) sortByLoad(judges []model.JudgeID) {
	slices.SortStableFunc(judges, func(a, b model.JudgeID) int {
		ja, _ := e.roster.Judge(a)
		jb, _ := e.roster.Judge(b)
		return cmp.Or(
			cmp.Compare(len(ja.Papers), len(jb.Papers)),
			cmp.Compare(len(ja.Presentations), len(jb.Presentations)),
			cmp.Compare(a, b),
		)
	})
}

// nextReviewer cycles judges from *next and returns the first one that can
// take s. It gives up after one full turn.
func (e *Engine) nextReviewer(judges []model.JudgeID, s *model.Student, next *int) (model.JudgeID, bool) {
	for range judges {
		jid := judges[*next%len(judges)]
		*next++
		j, err := e.roster.Judge(jid)
		if err != nil || s.ReviewedBy(jid) || e.roster.AtPaperLimit(j) {
			continue
		}
		return jid, true
	}
	return 0, false
}

func (e *Engine) paperCapacity(b Bucket, unmatched int, reason string) error {
	return &CapacityError{
		Kind:      KindPaper,
		Category:  b.Category,
		Label:     e.table.Label(b.Category),
		Students:  len(b.Students),
		Unmatched: unmatched,
		Judges:    len(b.Judges),
		Reason:    reason,
	}
}
