package models

import dErrors "accountd/pkg/domain-errors"

// Status is the lifecycle discriminant of an Account.
// Invariant: the value must be one of the three declared statuses.
type Status string

const (
	StatusCreated  Status = "Created"
	StatusVerified Status = "Verified"
	StatusDeleted  Status = "Deleted"
)

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusCreated, StatusVerified, StatusDeleted}
}

// allowedTransitions is the single source of truth for the lifecycle graph.
// Deleted is terminal. There is deliberately no Created -> Deleted edge.
var allowedTransitions = map[Status][]Status{
	StatusCreated:  {StatusVerified},
	StatusVerified: {StatusDeleted},
	StatusDeleted:  nil,
}

// ParseStatus constructs a Status from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid status")
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
