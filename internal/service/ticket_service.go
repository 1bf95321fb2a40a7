package service

import (
	"context"
	"errors"
	"strconv"
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

// Department heads get the short SLA. Matched case-insensitively anywhere
// in the position string.
const vipPositionMarker = "начальник управления"

const (
	vipDeadline    = 6 * time.Hour
	normalDeadline = 24 * time.Hour
)

// TicketService is the ticket lifecycle engine. Multi-statement transitions
// (create, status change, assignment, rating) run inside one transaction so
// the row, its timestamps and the history entry commit together.
type TicketService struct {
	tx         repository.TxRunner
	tickets    repository.TicketRepository
	users      repository.UserRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TxRunner    repository.TxRunner
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tx:         deps.TxRunner,
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// classifyPriority derives the SLA tier from the creator's position.
func classifyPriority(position string) domain.TicketPriority {
	if strings.Contains(strings.ToLower(position), vipPositionMarker) {
		return domain.TicketPriorityVIP
	}
	return domain.TicketPriorityNormal
}

// deadlineFor computes the one-time SLA deadline for a new ticket.
func deadlineFor(priority domain.TicketPriority, now time.Time) time.Time {
	if priority == domain.TicketPriorityVIP {
		return now.Add(vipDeadline)
	}
	return now.Add(normalDeadline)
}

// Create opens a ticket for the actor. Priority and deadline are computed
// once here and never change afterwards.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, title, description string) (*domain.Ticket, error) {
	priority := classifyPriority(actor.Position)
	ticket := &domain.Ticket{
		UserID:      actor.ID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      domain.TicketStatusNew,
		Priority:    priority,
		Deadline:    deadlineFor(priority, time.Now()),
	}

	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return r.History.Create(ctx, &domain.TicketHistory{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			Action:   domain.HistoryActionCreated,
			NewValue: string(domain.TicketStatusNew),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Deadline: ticket.Deadline,
		},
	})
	return ticket, nil
}

// List returns the role-scoped ticket listing: admin sees everything newest
// first, support the active queue vip-first/FIFO, a user only their own.
func (s *TicketService) List(ctx context.Context, actor *domain.User) ([]domain.TicketView, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.tickets.ListForAdmin(ctx)
	case domain.RoleSupport:
		return s.tickets.ListForSupport(ctx)
	case domain.RoleUser:
		return s.tickets.ListForUser(ctx, actor.ID)
	}
	return nil, apperrors.NewForbidden("unknown role")
}

// Get fetches one ticket with its presentation joins, enforcing read policy.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID int64) (*domain.TicketView, error) {
	view, err := s.tickets.GetViewByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if !authz.CanReadTicket(actor.Role, actor.ID, view.UserID) {
		return nil, apperrors.NewForbidden("no access to this ticket")
	}
	return view, nil
}

// UpdateStatus moves a ticket to any whitelisted status. The lifecycle is
// deliberately loose; only the whitelist and the timestamp side effects are
// enforced.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !authz.CanChangeStatus(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusResolved || newStatus == domain.TicketStatusClosed {
		ticket.ResolvedAt = &now
	}
	if newStatus == domain.TicketStatusArchived {
		ticket.ArchivedAt = &now
	}

	err = s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		old := string(oldStatus)
		return r.History.Create(ctx, &domain.TicketHistory{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			Action:   domain.HistoryActionStatusChanged,
			OldValue: &old,
			NewValue: string(newStatus),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// Assign sets the ticket's assignee. Support with no target self-assigns; an
// explicit target must be an existing support account. A nil target from an
// admin clears the assignment. Re-assignment is last-write-wins.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID int64, target *int64) (*domain.Ticket, error) {
	if !authz.CanAssign(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role")
	}

	assignTo := target
	if assignTo == nil && actor.Role == domain.RoleSupport {
		assignTo = &actor.ID
	}

	if assignTo != nil {
		assignee, err := s.users.GetByID(ctx, *assignTo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("support specialist not found")
			}
			return nil, err
		}
		if assignee.Role != domain.RoleSupport {
			return nil, apperrors.NewValidationError("assignee must be a support account")
		}
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.AssignedTo = assignTo

	err = s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		newValue := ""
		if assignTo != nil {
			newValue = strconv.FormatInt(*assignTo, 10)
		}
		return r.History.Create(ctx, &domain.TicketHistory{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			Action:   domain.HistoryActionAssigned,
			NewValue: newValue,
		})
	})
	if err != nil {
		return nil, err
	}

	if assignTo != nil {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload:  events.TicketAssignedPayload{AssignedTo: *assignTo},
		})
	}
	return ticket, nil
}

// Rate records the creator's rating and archives the ticket. The rating
// write, the status flip, the archive timestamp and the history row commit
// atomically.
func (s *TicketService) Rate(ctx context.Context, actor *domain.User, ticketID int64, rating int) (*domain.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.UserID != actor.ID {
		return nil, apperrors.NewForbidden("only the ticket creator may rate it")
	}
	if !authz.CanRate(actor.ID, ticket.UserID, ticket.Status) {
		return nil, apperrors.NewValidationError("only resolved or closed tickets can be rated")
	}

	oldStatus := ticket.Status
	now := time.Now()
	ticket.Rating = &rating
	ticket.Status = domain.TicketStatusArchived
	ticket.ArchivedAt = &now

	err = s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		old := string(oldStatus)
		return r.History.Create(ctx, &domain.TicketHistory{
			TicketID: ticket.ID,
			UserID:   actor.ID,
			Action:   domain.HistoryActionStatusChanged,
			OldValue: &old,
			NewValue: string(domain.TicketStatusArchived),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketRated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketRatedPayload{Rating: rating},
	})
	return ticket, nil
}

// ListArchived returns the archive, admin only.
func (s *TicketService) ListArchived(ctx context.Context, actor *domain.User) ([]domain.TicketView, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return s.tickets.ListArchived(ctx)
}

// History returns the audit trail for a ticket, admin/support only.
func (s *TicketService) History(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.TicketHistory, error) {
	if !authz.CanChangeStatus(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *TicketService) getTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
