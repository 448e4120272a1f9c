// Package assign matches judges to students in two phases: poster
// presentations first, then paper reviews. Both phases walk categories from
// the scarcest judge pool upwards and hand out work in rounds so load stays
// balanced across a category's judges.
package assign

import (
	"context"
	"fmt"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/logger"
)

// Summary counts what a run assigned.
type Summary struct {
	Presentations       int
	OpportunisticPapers int
	RoundPapers         int
	ConflictPapers      int
	Deferred            int
}

// Papers is the total number of paper reviews assigned.
func (s Summary) Papers() int {
	return s.OpportunisticPapers + s.RoundPapers + s.ConflictPapers
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for phase and round detail.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine runs both assignment phases against one roster.
type Engine struct {
	roster  *model.Roster
	table   *category.Table
	logger  logger.Logger
	summary Summary
}

// New returns an Engine for roster r with categories from t.
func New(r *model.Roster, t *category.Table, opts ...Option) *Engine {
	e := &Engine{roster: r, table: t}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("assign")
	}
	return e
}

// Summary returns the counts accumulated so far.
func (e *Engine) Summary() Summary { return e.summary }

// Run assigns presentations and then papers.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	if err := e.AssignPresentations(ctx); err != nil {
		return e.summary, err
	}
	if err := ctx.Err(); err != nil {
		return e.summary, fmt.Errorf("assign: %w", err)
	}
	if err := e.AssignPapers(ctx); err != nil {
		return e.summary, err
	}
	return e.summary, nil
}

// unexpected wraps an outcome the round logic should have ruled out.
func unexpected(op string, out model.Outcome, j model.JudgeID, s model.StudentID) error {
	return fmt.Errorf("%w: %s judge %d student %d: %s", ErrUnexpectedOutcome, op, j, s, out)
}
