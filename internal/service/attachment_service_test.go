package service

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskops/servicedesk/internal/domain"
)

func fileHeaders(n int) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, 0, n)
	for i := 0; i < n; i++ {
		headers = append(headers, &multipart.FileHeader{
			Filename: "file" + strconv.Itoa(i) + ".pdf",
			Size:     1024,
			Header:   textproto.MIMEHeader{"Content-Type": []string{"application/pdf"}},
		})
	}
	return headers
}

func newTestAttachmentService(tickets *fakeTicketRepo, comments *fakeCommentRepo) (*AttachmentService, *fakeAttachmentRepo) {
	repo := newFakeAttachmentRepo()
	svc := NewAttachmentService(AttachmentDependencies{
		AttachmentRepo: repo,
		TicketRepo:     tickets,
		CommentRepo:    comments,
		Saver:          &fakeSaver{},
	})
	return svc, repo
}

func TestAttachmentServiceBatchLimits(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	svc, _ := newTestAttachmentService(tickets, newFakeCommentRepo())
	owner := &domain.User{ID: 1, Role: domain.RoleUser}

	_, err := svc.AttachToTicket(context.Background(), owner, ticket.ID, nil)
	assertHTTPStatus(t, err, 400)

	_, err = svc.AttachToTicket(context.Background(), owner, ticket.ID, fileHeaders(6))
	assertHTTPStatus(t, err, 400)

	saved, err := svc.AttachToTicket(context.Background(), owner, ticket.ID, fileHeaders(5))
	require.NoError(t, err)
	assert.Len(t, saved, 5)
	for _, att := range saved {
		assert.Equal(t, ticket.ID, att.OwnerID)
		assert.Equal(t, "application/pdf", att.MimeType)
		assert.NotEmpty(t, att.FilePath)
	}
}

func TestAttachmentServiceAccessControl(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	svc, _ := newTestAttachmentService(tickets, newFakeCommentRepo())

	stranger := &domain.User{ID: 2, Role: domain.RoleUser}
	_, err := svc.AttachToTicket(context.Background(), stranger, ticket.ID, fileHeaders(1))
	assertHTTPStatus(t, err, 403)

	_, err = svc.ListForTicket(context.Background(), stranger, ticket.ID)
	assertHTTPStatus(t, err, 403)

	support := &domain.User{ID: 3, Role: domain.RoleSupport}
	_, err = svc.AttachToTicket(context.Background(), support, ticket.ID, fileHeaders(1))
	assert.NoError(t, err)
}

func TestAttachmentServiceCommentOwnership(t *testing.T) {
	tickets := newFakeTicketRepo()
	ticket := domain.Ticket{UserID: 1, Status: domain.TicketStatusNew}
	require.NoError(t, tickets.Create(context.Background(), &ticket))

	comments := newFakeCommentRepo()
	comment := domain.Comment{TicketID: ticket.ID, UserID: 1, Message: "see attached"}
	require.NoError(t, comments.Create(context.Background(), &comment))

	svc, repo := newTestAttachmentService(tickets, comments)
	owner := &domain.User{ID: 1, Role: domain.RoleUser}

	saved, err := svc.AttachToComment(context.Background(), owner, comment.ID, fileHeaders(2))
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	listed, err := svc.ListForComment(context.Background(), owner, comment.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Len(t, repo.records[domain.AttachmentOwnerComment], 2)

	// Access to a comment's files follows the owning ticket, not the comment author.
	stranger := &domain.User{ID: 5, Role: domain.RoleUser}
	_, err = svc.ListForComment(context.Background(), stranger, comment.ID)
	assertHTTPStatus(t, err, 403)

	_, err = svc.AttachToComment(context.Background(), owner, 999, fileHeaders(1))
	assertHTTPStatus(t, err, 404)
}
