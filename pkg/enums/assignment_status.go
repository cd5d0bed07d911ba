package enums

import "fmt"

// AssignmentStatus tracks the lifecycle of a scanning assignment. The string
// values are capitalized to match the stored wire contract exactly.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "Pending"
	AssignmentStatusOpen      AssignmentStatus = "Open"
	AssignmentStatusAssigned  AssignmentStatus = "Assigned"
	AssignmentStatusStarted   AssignmentStatus = "Started"
	AssignmentStatusSubmitted AssignmentStatus = "Submitted"
	AssignmentStatusCompleted AssignmentStatus = "Completed"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusPending,
	AssignmentStatusOpen,
	AssignmentStatusAssigned,
	AssignmentStatusStarted,
	AssignmentStatusSubmitted,
	AssignmentStatusCompleted,
}

// String implements fmt.Stringer.
func (s AssignmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AssignmentStatus.
func (s AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Unclaimed reports whether the status permits a nil preserver.
func (s AssignmentStatus) Unclaimed() bool {
	return s == AssignmentStatusPending || s == AssignmentStatusOpen
}

// Terminal reports whether the lifecycle has finished.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusCompleted
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
