// Package action contains the pure business logic for the corrective
// action lifecycle: the status state machine, transition guards, and
// overdue derivation. No side effects here; persistence lives in the
// adapters layer.
package action

import (
	"fmt"
	"time"
)

// Status is a corrective action lifecycle status.
type Status string

// Status constants. Overdue is intentionally absent: it is a derived
// display label, never a persisted status.
const (
	StatusNew                 Status = "new"
	StatusPlanned             Status = "planned"
	StatusInProgress          Status = "in_progress"
	StatusPendingVerification Status = "pending_verification"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
)

// Priority of a corrective action.
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllStatuses lists every persistable status in display order.
func AllStatuses() []Status {
	return []Status{
		StatusNew, StatusPlanned, StatusInProgress,
		StatusPendingVerification, StatusCompleted, StatusCancelled,
	}
}

// StatusLabels maps statuses to display names.
var StatusLabels = map[Status]string{
	StatusNew:                 "New",
	StatusPlanned:             "Planned",
	StatusInProgress:          "In Progress",
	StatusPendingVerification: "Pending Verification",
	StatusCompleted:           "Completed",
	StatusCancelled:           "Cancelled",
}

// transitions is the directed adjacency table: current -> allowed next.
// No status is a dead end: completed reopens to in_progress and
// cancelled revives to new.
var transitions = map[Status][]Status{
	StatusNew:                 {StatusPlanned, StatusCancelled},
	StatusPlanned:             {StatusInProgress, StatusCancelled},
	StatusInProgress:          {StatusPendingVerification, StatusCompleted, StatusCancelled},
	StatusPendingVerification: {StatusCompleted, StatusInProgress},
	StatusCompleted:           {StatusInProgress},
	StatusCancelled:           {StatusNew},
}

// ValidStatus reports whether s is a recognized persistable status.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidNextStates returns the transition table row for the current
// status, in table order. An unrecognized status yields an empty slice:
// no transitions permitted, not an error.
func ValidNextStates(current Status) []Status {
	row := transitions[current]
	out := make([]Status, len(row))
	copy(out, row)
	return out
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Err converts the guard result to an error if not allowed.
func (r GuardResult) Err() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanTransition evaluates whether a status change is permitted.
// Rules:
// - next must appear in the transition table row for current
func CanTransition(current, next Status) GuardResult {
	for _, s := range transitions[current] {
		if s == next {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("invalid transition %s -> %s", current, next),
	}
}

// DueDateLayout is the calendar-date format used for action due dates.
const DueDateLayout = "2006-01-02"

// IsOverdue reports whether an action with the given due date and status
// should carry the derived overdue label. Actions without a due date, or
// already completed/cancelled, are never overdue.
func IsOverdue(dueDate string, status Status, now time.Time) bool {
	if dueDate == "" || status == StatusCompleted || status == StatusCancelled {
		return false
	}
	due, err := time.Parse(DueDateLayout, dueDate)
	if err != nil {
		return false
	}
	// Due "today" is not yet overdue; the action lapses at end of day.
	return due.AddDate(0, 0, 1).Add(-time.Nanosecond).Before(now)
}
