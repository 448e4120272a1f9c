package assign

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/jury/internal/domain/category"
)

// Sentinel error kinds for this package.
var (
	ErrCapacityInfeasible = errors.New("capacity infeasible")
	ErrUnexpectedOutcome  = errors.New("unexpected assignment outcome")
)

// Kind names the phase that failed.
type Kind string

// Phases.
const (
	KindPresentation Kind = "presentation"
	KindPaper        Kind = "paper"
)

// CapacityError reports a category whose judges cannot cover its students.
type CapacityError struct {
	Kind     Kind
	Category category.ID
	Label    string
	// Students is the size of the category's student pool for the phase.
	Students int
	// Unmatched is how many of them were still unassigned.
	Unmatched int
	// Judges is the size of the category's judge pool for the phase.
	Judges int
	// Reason adds detail when the pool is non-empty but still cannot cover
	// the students.
	Reason string
}

// Error renders a diagnostic for the person preparing the input.
func (e *CapacityError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindPaper:
		fmt.Fprintf(&b, "The category %s did not have enough paper reviewers to review all papers.\n", e.Label)
	default:
		fmt.Fprintf(&b, "The category %s did not have enough judges to evaluate all presentations.\n", e.Label)
	}
	b.WriteString("Either assign more judges to this category or transfer some students out of this category.\n")
	switch e.Kind {
	case KindPaper:
		fmt.Fprintf(&b, "There are %d student(s) in this category who need paper reviewers (%d left unassigned) and %d judge(s) who volunteered to review papers in it.\n",
			e.Students, e.Unmatched, e.Judges)
	default:
		fmt.Fprintf(&b, "There are %d student(s) in this category who are presenting posters (%d left unassigned) and %d judge(s) who have submitted availability to evaluate poster presentations.\n",
			e.Students, e.Unmatched, e.Judges)
	}
	if e.Reason != "" {
		b.WriteString(e.Reason)
		b.WriteString("\n")
	}
	return b.String()
}

// Unwrap lets callers match ErrCapacityInfeasible with errors.Is.
func (e *CapacityError) Unwrap() error { return ErrCapacityInfeasible }
