package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusArchived   TicketStatus = "archived"
)

// ParseTicketStatus validates a raw status against the whitelist. The
// lifecycle is deliberately loose: any whitelisted status may be set by
// admin/support, including backwards moves.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(raw) {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusResolved,
		TicketStatusClosed, TicketStatusArchived:
		return TicketStatus(raw), true
	}
	return "", false
}

// TicketPriority enumerates SLA tiers. Computed once at creation, immutable.
type TicketPriority string

const (
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityVIP    TicketPriority = "vip"
)

// Ticket is the aggregate for service-desk requests.
type Ticket struct {
	ID          int64
	UserID      int64
	AssignedTo  *int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Rating      *int
	Deadline    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
	ArchivedAt  *time.Time
}

// TicketView joins presentation-only creator and assignee fields onto a
// ticket for listing/detail responses. Read-only projection.
type TicketView struct {
	Ticket
	CreatorFirstName string
	CreatorLastName  string
	CreatorEmail     string
	CreatorPosition  string
	CreatorMobile    *string
	CreatorInternal  *string
	CreatorFloor     *int
	CreatorOffice    *string
	SupportFirstName *string
	SupportLastName  *string
}
