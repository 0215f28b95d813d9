// Package queue defines message payloads exchanged over the message broker.
package queue

// Entry change kinds carried in EntryChangedEvent.
const (
	ChangeEntered  = "entered"
	ChangeExited   = "exited"
	ChangeAdjusted = "adjusted"
	ChangeLinked   = "linked"
)

// EntryChangedEvent is published whenever a parking entry is created,
// exited, adjusted or relinked.  The consumer uses it to recompute the
// statistics of the affected shift, so the shift row converges without
// the request handler waiting on the aggregation.
type EntryChangedEvent struct {
	EntryID    uint64  `json:"entry_id"`
	ShiftID    *uint64 `json:"shift_id,omitempty"`
	Change     string  `json:"change"`
	OccurredAt string  `json:"occurred_at"`
}
