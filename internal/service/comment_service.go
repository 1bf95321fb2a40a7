package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/authz"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/events"
	"github.com/deskops/servicedesk/internal/repository"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// CommentService manages the append-only comment thread of a ticket.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles requirements for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Post appends a comment. A user-role author must own the ticket.
func (s *CommentService) Post(ctx context.Context, actor *domain.User, ticketID int64, message string, isInternal bool) (*domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleUser && ticket.UserID != actor.ID {
		return nil, apperrors.NewForbidden("no access to this ticket")
	}

	comment := &domain.Comment{
		TicketID:   ticketID,
		UserID:     actor.ID,
		Message:    strings.TrimSpace(message),
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			TicketID:  ticketID,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:  comment.ID,
				IsInternal: comment.IsInternal,
			},
		})
	}
	return comment, nil
}

// List returns the thread ascending by creation time. Internal rows are
// stripped for the user role at read time, never at storage.
func (s *CommentService) List(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.CommentView, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReadTicket(actor.Role, actor.ID, ticket.UserID) {
		return nil, apperrors.NewForbidden("no access to this ticket")
	}
	return s.comments.ListByTicket(ctx, ticketID, authz.CanSeeInternalComments(actor.Role))
}

// Delete removes a comment. Author-only, regardless of role; attachment
// rows cascade with it.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment")
		}
		return err
	}
	if !authz.CanDeleteComment(actor.ID, comment.UserID) {
		return apperrors.NewForbidden("only the author may delete a comment")
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *CommentService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}
