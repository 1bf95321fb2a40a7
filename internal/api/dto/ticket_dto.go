package dto

import (
	"time"

	"github.com/deskops/servicedesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest payload. Both key spellings are accepted for client
// compatibility.
type AssignRequest struct {
	SupportID    *int64 `json:"support_id"`
	SupportIDAlt *int64 `json:"supportId"`
}

// Target returns whichever assignee key was provided.
func (r AssignRequest) Target() *int64 {
	if r.SupportID != nil {
		return r.SupportID
	}
	return r.SupportIDAlt
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Rating int `json:"rating"`
}

// TicketResponse is the listing/detail projection with creator and
// assignee display fields joined on.
type TicketResponse struct {
	ID               int64                 `json:"id"`
	UserID           int64                 `json:"user_id"`
	AssignedTo       *int64                `json:"assigned_to"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Status           domain.TicketStatus   `json:"status"`
	Priority         domain.TicketPriority `json:"priority"`
	Rating           *int                  `json:"rating"`
	Deadline         time.Time             `json:"deadline"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	ResolvedAt       *time.Time            `json:"resolved_at"`
	ArchivedAt       *time.Time            `json:"archived_at"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	Email            string                `json:"email"`
	Position         string                `json:"position"`
	MobilePhone      *string               `json:"mobile_phone"`
	InternalPhone    *string               `json:"internal_phone"`
	Floor            *int                  `json:"floor"`
	OfficeNumber     *string               `json:"office_number"`
	SupportFirstName *string               `json:"support_first_name"`
	SupportLastName  *string               `json:"support_last_name"`
}

// NewTicketResponse maps a ticket view.
func NewTicketResponse(view *domain.TicketView) TicketResponse {
	return TicketResponse{
		ID:               view.ID,
		UserID:           view.UserID,
		AssignedTo:       view.AssignedTo,
		Title:            view.Title,
		Description:      view.Description,
		Status:           view.Status,
		Priority:         view.Priority,
		Rating:           view.Rating,
		Deadline:         view.Deadline,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
		ResolvedAt:       view.ResolvedAt,
		ArchivedAt:       view.ArchivedAt,
		FirstName:        view.CreatorFirstName,
		LastName:         view.CreatorLastName,
		Email:            view.CreatorEmail,
		Position:         view.CreatorPosition,
		MobilePhone:      view.CreatorMobile,
		InternalPhone:    view.CreatorInternal,
		Floor:            view.CreatorFloor,
		OfficeNumber:     view.CreatorOffice,
		SupportFirstName: view.SupportFirstName,
		SupportLastName:  view.SupportLastName,
	}
}

// NewTicketResponses maps a listing.
func NewTicketResponses(views []domain.TicketView) []TicketResponse {
	result := make([]TicketResponse, 0, len(views))
	for i := range views {
		result = append(result, NewTicketResponse(&views[i]))
	}
	return result
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID        int64                `json:"id"`
	TicketID  int64                `json:"ticket_id"`
	UserID    int64                `json:"user_id"`
	Action    domain.HistoryAction `json:"action"`
	OldValue  *string              `json:"old_value"`
	NewValue  string               `json:"new_value"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewTicketHistoryResponses maps audit entries.
func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	result := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, TicketHistoryResponse{
			ID:        entry.ID,
			TicketID:  entry.TicketID,
			UserID:    entry.UserID,
			Action:    entry.Action,
			OldValue:  entry.OldValue,
			NewValue:  entry.NewValue,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result
}
