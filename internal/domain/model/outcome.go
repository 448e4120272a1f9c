package model

// Outcome is the result of a roster mutation. Anything other than Assigned
// leaves the roster untouched.
type Outcome int

// Mutation outcomes.
const (
	// Assigned means the pairing was recorded.
	Assigned Outcome = iota
	// Conflict means the judge already evaluates this student.
	Conflict
	// CapacityExceeded means the judge has no presentation capacity left or
	// has reached the paper limit.
	CapacityExceeded
	// StudentFull means the student already has every evaluator it needs.
	StudentFull
	// SlotUnavailable means the slot is outside the judge's availability or
	// already booked for that judge.
	SlotUnavailable
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case Conflict:
		return "conflict"
	case CapacityExceeded:
		return "capacity exceeded"
	case StudentFull:
		return "student full"
	case SlotUnavailable:
		return "slot unavailable"
	default:
		return "unknown"
	}
}
