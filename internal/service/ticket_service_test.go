package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/repository"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name     string
		position string
		want     domain.TicketPriority
	}{
		{"exact marker", "начальник управления", domain.TicketPriorityVIP},
		{"capitalized", "Начальник управления продаж", domain.TicketPriorityVIP},
		{"marker mid string", "Заместитель отсутствует, и.о. начальника — Начальник Управления ИТ", domain.TicketPriorityVIP},
		{"plain engineer", "Инженер", domain.TicketPriorityNormal},
		{"deputy head", "Заместитель начальника отдела", domain.TicketPriorityNormal},
		{"empty position", "", domain.TicketPriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPriority(tt.position))
		})
	}
}

func TestDeadlineFor(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(6*time.Hour), deadlineFor(domain.TicketPriorityVIP, now))
	assert.Equal(t, now.Add(24*time.Hour), deadlineFor(domain.TicketPriorityNormal, now))
}

func newTestTicketService(tickets *fakeTicketRepo, users *fakeUserRepo, history *fakeHistoryRepo) *TicketService {
	return NewTicketService(TicketDependencies{
		TxRunner: &fakeTxRunner{repos: repository.Repositories{
			Users:   users,
			Tickets: tickets,
			History: history,
		}},
		TicketRepo:  tickets,
		UserRepo:    users,
		HistoryRepo: history,
	})
}

func TestTicketServiceListScoping(t *testing.T) {
	tickets := newFakeTicketRepo()
	seed := []domain.Ticket{
		{UserID: 1, Title: "a", Status: domain.TicketStatusNew},
		{UserID: 2, Title: "b", Status: domain.TicketStatusInProgress},
		{UserID: 1, Title: "c", Status: domain.TicketStatusArchived},
	}
	for i := range seed {
		require.NoError(t, tickets.Create(context.Background(), &seed[i]))
	}

	svc := newTestTicketService(tickets, newFakeUserRepo(), newFakeHistoryRepo())

	admin := &domain.User{ID: 10, Role: domain.RoleAdmin}
	support := &domain.User{ID: 11, Role: domain.RoleSupport}
	user := &domain.User{ID: 1, Role: domain.RoleUser}

	adminViews, err := svc.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, adminViews, 3)

	supportViews, err := svc.List(context.Background(), support)
	require.NoError(t, err)
	assert.Len(t, supportViews, 2, "archived tickets stay out of the support queue")

	userViews, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, userViews, 2)
	for _, view := range userViews {
		assert.Equal(t, int64(1), view.UserID)
	}
}

func TestTicketServiceGetAccess(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Title: "printer", Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	svc := newTestTicketService(tickets, newFakeUserRepo(), newFakeHistoryRepo())

	owner := &domain.User{ID: 1, Role: domain.RoleUser}
	stranger := &domain.User{ID: 2, Role: domain.RoleUser}
	support := &domain.User{ID: 3, Role: domain.RoleSupport}

	_, err := svc.Get(context.Background(), owner, ticket.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), support, ticket.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, ticket.ID)
	assertHTTPStatus(t, err, 403)

	_, err = svc.Get(context.Background(), owner, 999)
	assertHTTPStatus(t, err, 404)
}

func TestTicketServiceRateValidation(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusResolved}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	svc := newTestTicketService(tickets, newFakeUserRepo(), newFakeHistoryRepo())
	owner := &domain.User{ID: 1, Role: domain.RoleUser}

	_, err := svc.Rate(context.Background(), owner, ticket.ID, 0)
	assertHTTPStatus(t, err, 400)

	_, err = svc.Rate(context.Background(), owner, ticket.ID, 6)
	assertHTTPStatus(t, err, 400)

	stranger := &domain.User{ID: 2, Role: domain.RoleUser}
	_, err = svc.Rate(context.Background(), stranger, ticket.ID, 5)
	assertHTTPStatus(t, err, 403)
}

func TestTicketServiceCreateRecordsHistory(t *testing.T) {
	tickets := newFakeTicketRepo()
	history := newFakeHistoryRepo()
	svc := newTestTicketService(tickets, newFakeUserRepo(), history)

	actor := &domain.User{ID: 1, Role: domain.RoleUser, Position: "Начальник управления делами"}
	before := time.Now()
	ticket, err := svc.Create(context.Background(), actor, "  VPN  ", " не подключается ")
	require.NoError(t, err)

	assert.Equal(t, "VPN", ticket.Title)
	assert.Equal(t, "не подключается", ticket.Description)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, domain.TicketPriorityVIP, ticket.Priority)
	assert.WithinDuration(t, before.Add(6*time.Hour), ticket.Deadline, 5*time.Second)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, ticket.ID, entry.TicketID)
	assert.Equal(t, actor.ID, entry.UserID)
	assert.Equal(t, domain.HistoryActionCreated, entry.Action)
	assert.Nil(t, entry.OldValue)
	assert.Equal(t, "new", entry.NewValue)
}

func TestTicketServiceUpdateStatusStampsTimestamps(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	history := newFakeHistoryRepo()
	svc := newTestTicketService(tickets, newFakeUserRepo(), history)
	support := &domain.User{ID: 3, Role: domain.RoleSupport}

	updated, err := svc.UpdateStatus(context.Background(), support, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Nil(t, updated.ArchivedAt)

	stored, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, domain.HistoryActionStatusChanged, entry.Action)
	require.NotNil(t, entry.OldValue)
	assert.Equal(t, "new", *entry.OldValue)
	assert.Equal(t, "resolved", entry.NewValue)
	assert.Equal(t, support.ID, entry.UserID)

	archived, err := svc.UpdateStatus(context.Background(), support, ticket.ID, domain.TicketStatusArchived)
	require.NoError(t, err)
	require.NotNil(t, archived.ArchivedAt)
	require.Len(t, history.entries, 2)
	assert.Equal(t, "archived", history.entries[1].NewValue)

	creator := &domain.User{ID: 1, Role: domain.RoleUser}
	_, err = svc.UpdateStatus(context.Background(), creator, ticket.ID, domain.TicketStatusClosed)
	assertHTTPStatus(t, err, 403)

	_, err = svc.UpdateStatus(context.Background(), support, 999, domain.TicketStatusClosed)
	assertHTTPStatus(t, err, 404)
}

func TestTicketServiceRateArchives(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusResolved}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	history := newFakeHistoryRepo()
	svc := newTestTicketService(tickets, newFakeUserRepo(), history)
	owner := &domain.User{ID: 1, Role: domain.RoleUser}

	rated, err := svc.Rate(context.Background(), owner, ticket.ID, 4)
	require.NoError(t, err)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4, *rated.Rating)
	assert.Equal(t, domain.TicketStatusArchived, rated.Status)
	require.NotNil(t, rated.ArchivedAt)

	stored, err := tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4, *stored.Rating)
	assert.Equal(t, domain.TicketStatusArchived, stored.Status)
	require.NotNil(t, stored.ArchivedAt)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, domain.HistoryActionStatusChanged, entry.Action)
	require.NotNil(t, entry.OldValue)
	assert.Equal(t, "resolved", *entry.OldValue)
	assert.Equal(t, "archived", entry.NewValue)

	// An archived ticket can no longer be rated again.
	_, err = svc.Rate(context.Background(), owner, ticket.ID, 5)
	assertHTTPStatus(t, err, 400)
}

func TestTicketServiceAssign(t *testing.T) {
	users := newFakeUserRepo()
	supportAcc := &domain.User{Email: "support@corp.local", Role: domain.RoleSupport, FirstName: "Пётр", LastName: "Сидоров"}
	require.NoError(t, users.Create(context.Background(), supportAcc))
	regularAcc := &domain.User{Email: "user@corp.local", Role: domain.RoleUser, FirstName: "Иван", LastName: "Петров"}
	require.NoError(t, users.Create(context.Background(), regularAcc))

	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: regularAcc.ID, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	history := newFakeHistoryRepo()
	svc := newTestTicketService(tickets, users, history)

	support := &domain.User{ID: supportAcc.ID, Role: domain.RoleSupport}
	admin := &domain.User{ID: 99, Role: domain.RoleAdmin}

	// Support with no target takes the ticket themselves.
	assigned, err := svc.Assign(context.Background(), support, ticket.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, supportAcc.ID, *assigned.AssignedTo)

	require.Len(t, history.entries, 1)
	assert.Equal(t, domain.HistoryActionAssigned, history.entries[0].Action)
	assert.Equal(t, "1", history.entries[0].NewValue)

	// Admin with no target clears the assignment.
	cleared, err := svc.Assign(context.Background(), admin, ticket.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedTo)
	require.Len(t, history.entries, 2)
	assert.Equal(t, "", history.entries[1].NewValue)

	// Admin assigning an explicit support target.
	reassigned, err := svc.Assign(context.Background(), admin, ticket.ID, &supportAcc.ID)
	require.NoError(t, err)
	require.NotNil(t, reassigned.AssignedTo)
	assert.Equal(t, supportAcc.ID, *reassigned.AssignedTo)

	// A non-support target is rejected before anything is written.
	_, err = svc.Assign(context.Background(), admin, ticket.ID, &regularAcc.ID)
	assertHTTPStatus(t, err, 400)

	missing := int64(777)
	_, err = svc.Assign(context.Background(), admin, ticket.ID, &missing)
	assertHTTPStatus(t, err, 400)

	user := &domain.User{ID: regularAcc.ID, Role: domain.RoleUser}
	_, err = svc.Assign(context.Background(), user, ticket.ID, nil)
	assertHTTPStatus(t, err, 403)
	require.Len(t, history.entries, 3)
}

func TestTicketServiceHistoryRoleGate(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	history := newFakeHistoryRepo()
	require.NoError(t, history.Create(context.Background(), &domain.TicketHistory{
		TicketID: ticket.ID,
		UserID:   1,
		Action:   domain.HistoryActionCreated,
		NewValue: "new",
	}))

	svc := newTestTicketService(tickets, newFakeUserRepo(), history)

	support := &domain.User{ID: 3, Role: domain.RoleSupport}
	entries, err := svc.History(context.Background(), support, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	creator := &domain.User{ID: 1, Role: domain.RoleUser}
	_, err = svc.History(context.Background(), creator, ticket.ID)
	assertHTTPStatus(t, err, 403)
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	entry.ID = int64(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, status, domainErr.HTTPStatus)
}
