package assign

import (
	"context"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// AssignPresentations gives every poster student exactly one judge and a
// slot from that judge's availability. A judge reviewing papers also picks up
// the paper of a student they evaluate when it still needs a reviewer.
func (e *Engine) AssignPresentations(ctx context.Context) error {
	e.logger.Info(ctx, "assigning presentations")
	for _, b := range PresentationBuckets(e.roster, e.table) {
		metrics.UpdateCategoryBucket(metrics.PhasePresentation, int(b.Category), len(b.Judges), len(b.Students))
		if len(b.Students) == 0 {
			continue
		}
		if err := e.presentCategory(ctx, b); err != nil {
			return err
		}
	}
	e.logger.Info(ctx, "presentations assigned",
		logger.Int("presentations", e.summary.Presentations),
		logger.Int("papers", e.summary.OpportunisticPapers))
	return nil
}

func (e *Engine) presentCategory(ctx context.Context, b Bucket) error {
	queue := append([]model.StudentID(nil), b.Students...)
	round := 0
	for ; len(queue) > 0; round++ {
		eligible, open := e.presenters(b, round)
		if open == 0 {
			break
		}
		for _, jid := range eligible {
			if len(queue) == 0 {
				break
			}
			sid := queue[0]
			queue = queue[1:]
			if err := e.present(jid, sid); err != nil {
				return err
			}
		}
	}
	metrics.RecordCategoryRounds(metrics.PhasePresentation, round)
	e.logger.Debug(ctx, "category presentations done",
		logger.String("category", e.table.Label(b.Category)),
		logger.Int("judges", len(b.Judges)),
		logger.Int("students", len(b.Students)),
		logger.Int("rounds", round),
		logger.Int("unmatched", len(queue)))

	if len(queue) > 0 {
		return &CapacityError{
			Kind:      KindPresentation,
			Category:  b.Category,
			Label:     e.table.Label(b.Category),
			Students:  len(b.Students),
			Unmatched: len(queue),
			Judges:    len(b.Judges),
		}
	}
	return nil
}

// presenters returns the bucket judges eligible at round, in roster order,
// and how many bucket judges still have any capacity.
func (e *Engine) presenters(b Bucket, round int) ([]model.JudgeID, int) {
	var eligible []model.JudgeID
	open := 0
	for _, jid := range b.Judges {
		j, err := e.roster.Judge(jid)
		if err != nil || j.Remaining() < 1 {
			continue
		}
		open++
		if len(j.Presentations) <= round {
			eligible = append(eligible, jid)
		}
	}
	return eligible, open
}

func (e *Engine) present(jid model.JudgeID, sid model.StudentID) error {
	j, err := e.roster.Judge(jid)
	if err != nil {
		return err
	}
	slot, ok := j.FreeSlot()
	if !ok {
		return unexpected("presentation", model.CapacityExceeded, jid, sid)
	}
	out, err := e.roster.AssignPresentation(jid, sid, slot)
	if err != nil {
		return err
	}
	if out != model.Assigned {
		return unexpected("presentation", out, jid, sid)
	}
	e.summary.Presentations++
	metrics.RecordPresentationAssigned()

	s, err := e.roster.Student(sid)
	if err != nil {
		return err
	}
	if !j.PaperReviewer || s.ReviewersNeeded() == 0 {
		return nil
	}
	out, err = e.roster.AssignPaper(jid, sid)
	if err != nil {
		return err
	}
	if out == model.Assigned {
		e.summary.OpportunisticPapers++
		metrics.RecordPaperAssigned(metrics.SourceOpportunistic)
	}
	return nil
}
