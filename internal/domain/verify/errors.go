package verify

import (
	"errors"
	"fmt"
)

// ErrVerificationMismatch is wrapped by every VerificationError.
var ErrVerificationMismatch = errors.New("verification mismatch")

// Rules checked by Verify.
const (
	RuleIdentity      = "identity"
	RuleAvailability  = "availability"
	RuleSlot          = "presentation slot"
	RuleDoubleBooked  = "double booking"
	RuleCapacity      = "presentation capacity"
	RuleReviewerFlag  = "reviewer flag"
	RuleCategory      = "category"
	RuleSubmission    = "submission"
	RuleParticipation = "participation"
	RuleReviewers     = "paper reviewers"
	RulePresentation  = "presentation judge"
)

// VerificationError names the record and the rule it broke.
type VerificationError struct {
	Record string
	Rule   string
	Detail string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed for %s: rule %q: %s", e.Record, e.Rule, e.Detail)
}

func (e *VerificationError) Unwrap() error { return ErrVerificationMismatch }

func mismatch(record, rule, format string, args ...any) error {
	return &VerificationError{Record: record, Rule: rule, Detail: fmt.Sprintf(format, args...)}
}
