package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/domain"
)

// CommentRepository encapsulates comment persistence. The thread is an
// append-only log: no update operation exists.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.CommentView, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db DB
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, message, is_internal)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Message,
		comment.IsInternal,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, user_id, message, is_internal, created_at
        FROM comments WHERE id=$1`

	var comment domain.Comment
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.UserID,
		&comment.Message,
		&comment.IsInternal,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByTicket returns the thread ascending by creation time. Internal rows
// are stripped here when the caller may not see them.
func (r *commentRepository) ListByTicket(ctx context.Context, ticketID int64, includeInternal bool) ([]domain.CommentView, error) {
	query := `
        SELECT c.id, c.ticket_id, c.user_id, c.message, c.is_internal, c.created_at,
               u.first_name, u.last_name, u.role
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.ticket_id = $1`
	if !includeInternal {
		query += ` AND c.is_internal = FALSE`
	}
	query += ` ORDER BY c.created_at ASC`

	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CommentView
	for rows.Next() {
		var view domain.CommentView
		if err := rows.Scan(
			&view.ID,
			&view.TicketID,
			&view.UserID,
			&view.Message,
			&view.IsInternal,
			&view.CreatedAt,
			&view.AuthorFirstName,
			&view.AuthorLastName,
			&view.AuthorRole,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
