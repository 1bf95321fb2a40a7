package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetViewByID(ctx context.Context, id int64) (*domain.TicketView, error)
	ListForAdmin(ctx context.Context) ([]domain.TicketView, error)
	ListForSupport(ctx context.Context) ([]domain.TicketView, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.TicketView, error)
	ListArchived(ctx context.Context) ([]domain.TicketView, error)
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates the repository over a pool or tx.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `t.id, t.user_id, t.assigned_to, t.title, t.description, t.status,
               t.priority, t.rating, t.deadline, t.created_at, t.updated_at, t.resolved_at, t.archived_at`

const ticketViewColumns = ticketColumns + `,
               u.first_name, u.last_name, u.email, u.position,
               u.mobile_phone, u.internal_phone, u.floor, u.office_number,
               s.first_name, s.last_name`

const ticketViewFrom = `
        FROM tickets t
        JOIN users u ON t.user_id = u.id
        LEFT JOIN users s ON t.assigned_to = s.id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, title, description, status, priority, deadline)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Deadline,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_to=$1, status=$2, rating=$3,
            resolved_at=$4, archived_at=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		ticket.AssignedTo,
		ticket.Status,
		ticket.Rating,
		ticket.ResolvedAt,
		ticket.ArchivedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`

	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) GetViewByID(ctx context.Context, id int64) (*domain.TicketView, error) {
	query := `SELECT ` + ticketViewColumns + ticketViewFrom + ` WHERE t.id=$1`

	var view domain.TicketView
	if err := scanTicketView(r.db.QueryRow(ctx, query, id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListForAdmin returns every ticket, newest first.
func (r *ticketRepository) ListForAdmin(ctx context.Context) ([]domain.TicketView, error) {
	query := `SELECT ` + ticketViewColumns + ticketViewFrom + ` ORDER BY t.created_at DESC`
	return r.list(ctx, query)
}

// ListForSupport returns the active work queue: archived excluded, vip tier
// first, FIFO within each tier.
func (r *ticketRepository) ListForSupport(ctx context.Context) ([]domain.TicketView, error) {
	query := `SELECT ` + ticketViewColumns + ticketViewFrom + `
        WHERE t.status != 'archived'
        ORDER BY CASE WHEN t.priority = 'vip' THEN 0 ELSE 1 END, t.created_at ASC`
	return r.list(ctx, query)
}

// ListForUser returns the creator's own tickets, newest first.
func (r *ticketRepository) ListForUser(ctx context.Context, userID int64) ([]domain.TicketView, error) {
	query := `SELECT ` + ticketViewColumns + ticketViewFrom + `
        WHERE t.user_id=$1 ORDER BY t.created_at DESC`
	return r.list(ctx, query, userID)
}

// ListArchived returns archived tickets, most recently archived first.
func (r *ticketRepository) ListArchived(ctx context.Context) ([]domain.TicketView, error) {
	query := `SELECT ` + ticketViewColumns + ticketViewFrom + `
        WHERE t.status = 'archived' ORDER BY t.archived_at DESC`
	return r.list(ctx, query)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketView
	for rows.Next() {
		var view domain.TicketView
		if err := scanTicketView(rows, &view); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.AssignedTo,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Rating,
		&ticket.Deadline,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ArchivedAt,
	)
}

func scanTicketView(row pgx.Row, view *domain.TicketView) error {
	return row.Scan(
		&view.ID,
		&view.UserID,
		&view.AssignedTo,
		&view.Title,
		&view.Description,
		&view.Status,
		&view.Priority,
		&view.Rating,
		&view.Deadline,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.ResolvedAt,
		&view.ArchivedAt,
		&view.CreatorFirstName,
		&view.CreatorLastName,
		&view.CreatorEmail,
		&view.CreatorPosition,
		&view.CreatorMobile,
		&view.CreatorInternal,
		&view.CreatorFloor,
		&view.CreatorOffice,
		&view.SupportFirstName,
		&view.SupportLastName,
	)
}
