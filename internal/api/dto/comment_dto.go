package dto

import (
	"time"

	"github.com/deskops/servicedesk/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID   int64  `json:"ticket_id"`
	Message    string `json:"message"`
	IsInternal bool   `json:"is_internal"`
}

// CommentResponse joins author display fields onto a comment row.
type CommentResponse struct {
	ID         int64       `json:"id"`
	TicketID   int64       `json:"ticket_id"`
	UserID     int64       `json:"user_id"`
	Message    string      `json:"message"`
	IsInternal bool        `json:"is_internal"`
	CreatedAt  time.Time   `json:"created_at"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Role       domain.Role `json:"role"`
}

// NewCommentResponses maps a comment thread.
func NewCommentResponses(views []domain.CommentView) []CommentResponse {
	result := make([]CommentResponse, 0, len(views))
	for _, view := range views {
		result = append(result, CommentResponse{
			ID:         view.ID,
			TicketID:   view.TicketID,
			UserID:     view.UserID,
			Message:    view.Message,
			IsInternal: view.IsInternal,
			CreatedAt:  view.CreatedAt,
			FirstName:  view.AuthorFirstName,
			LastName:   view.AuthorLastName,
			Role:       view.AuthorRole,
		})
	}
	return result
}
