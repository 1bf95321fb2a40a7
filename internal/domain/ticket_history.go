package domain

import "time"

// HistoryAction tags what a history entry records.
type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "created"
	HistoryActionStatusChanged HistoryAction = "status_changed"
	HistoryActionAssigned      HistoryAction = "assigned"
)

// TicketHistory is an immutable audit trail entry, written on every
// lifecycle transition. Never updated or deleted.
type TicketHistory struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Action    HistoryAction
	OldValue  *string
	NewValue  string
	CreatedAt time.Time
}
