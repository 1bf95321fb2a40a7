package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/repository"
)

// fakeTxRunner runs the callback straight against the fakes. There is no
// rollback; tests asserting atomicity assert the combined end state.
type fakeTxRunner struct {
	repos repository.Repositories
}

func (r *fakeTxRunner) InTx(_ context.Context, fn func(repository.Repositories) error) error {
	return fn(r.repos)
}

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, role *domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if role != nil && user.Role != *role {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) SetBlocked(_ context.Context, id int64, blocked bool) error {
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsBlocked = blocked
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	users    *fakeUserRepo
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session), users: users}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	session.ID = int64(len(r.sessions) + 1)
	session.CreatedAt = time.Now()
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) GetActiveWithUser(ctx context.Context, token string, now time.Time) (*domain.Session, *domain.User, error) {
	session, ok := r.sessions[token]
	if !ok || !session.ExpiresAt.After(now) {
		return nil, nil, pgx.ErrNoRows
	}
	user, err := r.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user.IsBlocked {
		return nil, nil, pgx.ErrNoRows
	}
	return session, user, nil
}

func (r *fakeSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteByUser(_ context.Context, userID int64) error {
	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

type fakeTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetViewByID(ctx context.Context, id int64) (*domain.TicketView, error) {
	ticket, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.TicketView{Ticket: *ticket}, nil
}

func (r *fakeTicketRepo) ListForAdmin(_ context.Context) ([]domain.TicketView, error) {
	return r.list(func(*domain.Ticket) bool { return true }), nil
}

func (r *fakeTicketRepo) ListForSupport(_ context.Context) ([]domain.TicketView, error) {
	return r.list(func(t *domain.Ticket) bool { return t.Status != domain.TicketStatusArchived }), nil
}

func (r *fakeTicketRepo) ListForUser(_ context.Context, userID int64) ([]domain.TicketView, error) {
	return r.list(func(t *domain.Ticket) bool { return t.UserID == userID }), nil
}

func (r *fakeTicketRepo) ListArchived(_ context.Context) ([]domain.TicketView, error) {
	return r.list(func(t *domain.Ticket) bool { return t.Status == domain.TicketStatusArchived }), nil
}

func (r *fakeTicketRepo) list(keep func(*domain.Ticket) bool) []domain.TicketView {
	var result []domain.TicketView
	for _, ticket := range r.tickets {
		if keep(ticket) {
			result = append(result, domain.TicketView{Ticket: *ticket})
		}
	}
	return result
}

type fakeCommentRepo struct {
	comments            map[int64]*domain.Comment
	nextID              int64
	lastIncludeInternal bool
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID int64, includeInternal bool) ([]domain.CommentView, error) {
	r.lastIncludeInternal = includeInternal
	var result []domain.CommentView
	for _, comment := range r.comments {
		if comment.TicketID != ticketID {
			continue
		}
		if comment.IsInternal && !includeInternal {
			continue
		}
		result = append(result, domain.CommentView{Comment: *comment})
	}
	return result, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

type fakeAttachmentRepo struct {
	records map[domain.AttachmentOwner][]domain.Attachment
	nextID  int64
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{records: make(map[domain.AttachmentOwner][]domain.Attachment)}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, owner domain.AttachmentOwner, att *domain.Attachment) error {
	r.nextID++
	att.ID = r.nextID
	att.CreatedAt = time.Now()
	r.records[owner] = append(r.records[owner], *att)
	return nil
}

func (r *fakeAttachmentRepo) ListByOwner(_ context.Context, owner domain.AttachmentOwner, ownerID int64) ([]domain.Attachment, error) {
	var result []domain.Attachment
	for _, att := range r.records[owner] {
		if att.OwnerID == ownerID {
			result = append(result, att)
		}
	}
	return result, nil
}

type fakeSaver struct {
	saved []string
}

func (s *fakeSaver) Save(file *multipart.FileHeader) (string, error) {
	stored := "stored-" + file.Filename
	s.saved = append(s.saved, stored)
	return stored, nil
}
