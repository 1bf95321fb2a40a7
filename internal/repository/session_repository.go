package repository

import (
	"context"
	"time"

	"github.com/deskops/servicedesk/internal/domain"
)

// SessionRepository persists issued bearer tokens. Rows are deleted on
// logout and block; expired rows are simply never matched.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetActiveWithUser(ctx context.Context, token string, now time.Time) (*domain.Session, *domain.User, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type sessionRepository struct {
	db DB
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO sessions (user_id, token, device_info, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		session.UserID,
		session.Token,
		session.DeviceInfo,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
}

// GetActiveWithUser resolves a token to its session and owning user in one
// query, requiring the row to be unexpired and the user unblocked.
func (r *sessionRepository) GetActiveWithUser(ctx context.Context, token string, now time.Time) (*domain.Session, *domain.User, error) {
	const query = `
        SELECT s.id, s.user_id, s.token, s.device_info, s.expires_at, s.created_at,
               u.id, u.email, u.password_hash, u.role, u.first_name, u.last_name, u.middle_name,
               u.mobile_phone, u.internal_phone, u.floor, u.office_number, u.position, u.is_blocked, u.created_at
        FROM sessions s
        JOIN users u ON s.user_id = u.id
        WHERE s.token = $1 AND s.expires_at > $2 AND u.is_blocked = FALSE`

	var session domain.Session
	var user domain.User
	if err := r.db.QueryRow(ctx, query, token, now).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.DeviceInfo,
		&session.ExpiresAt,
		&session.CreatedAt,
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.MiddleName,
		&user.MobilePhone,
		&user.InternalPhone,
		&user.Floor,
		&user.OfficeNumber,
		&user.Position,
		&user.IsBlocked,
		&user.CreatedAt,
	); err != nil {
		return nil, nil, err
	}
	return &session, &user, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	// Idempotent: deleting an absent token is not an error.
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id=$1`, userID)
	return err
}
