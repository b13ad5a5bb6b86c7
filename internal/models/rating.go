package models

import "strings"

// Decision is a user's verdict on an event.
type Decision int

const (
	DecisionNo Decision = iota
	DecisionYes
)

// String returns "yes" or "no".
func (d Decision) String() string {
	if d == DecisionYes {
		return "yes"
	}
	return "no"
}

// ParseDecision converts a client-supplied choice into a Decision.
// Unrecognized choices are treated as "no"; ok reports whether the input
// was recognized as-is.
func ParseDecision(choice string) (d Decision, ok bool) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "yes", "y", "true", "1", "like":
		return DecisionYes, true
	case "no", "n", "false", "0", "pass":
		return DecisionNo, true
	default:
		return DecisionNo, false
	}
}

// Rating records the latest decision of a user on an event.
// There is at most one rating per (UserID, EventID) pair.
type Rating struct {
	UserID    string
	EventID   int64
	Decision  Decision
	UpdatedAt int64
}
