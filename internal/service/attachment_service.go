package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/authz"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/repository"
	"github.com/deskops/servicedesk/internal/storage"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// Batch cap matches the upload collaborator's contract.
const maxAttachmentBatch = 5

// AttachmentService records upload metadata against tickets and comments.
// File bodies go through the storage collaborator; only the relative stored
// name lands in the ledger.
type AttachmentService struct {
	attachments repository.AttachmentRepository
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	saver       storage.Saver
}

// AttachmentDependencies bundles requirements for the attachment service.
type AttachmentDependencies struct {
	AttachmentRepo repository.AttachmentRepository
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	Saver          storage.Saver
}

// NewAttachmentService constructs the service.
func NewAttachmentService(deps AttachmentDependencies) *AttachmentService {
	return &AttachmentService{
		attachments: deps.AttachmentRepo,
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		saver:       deps.Saver,
	}
}

// AttachToTicket stores a batch of files against a ticket.
func (s *AttachmentService) AttachToTicket(ctx context.Context, actor *domain.User, ticketID int64, files []*multipart.FileHeader) ([]domain.Attachment, error) {
	if err := s.checkTicketAccess(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.store(ctx, domain.AttachmentOwnerTicket, ticketID, files)
}

// AttachToComment stores a batch of files against a comment.
func (s *AttachmentService) AttachToComment(ctx context.Context, actor *domain.User, commentID int64, files []*multipart.FileHeader) ([]domain.Attachment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTicketAccess(ctx, actor, comment.TicketID); err != nil {
		return nil, err
	}
	return s.store(ctx, domain.AttachmentOwnerComment, commentID, files)
}

// ListForTicket returns attachment metadata for a ticket.
func (s *AttachmentService) ListForTicket(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.Attachment, error) {
	if err := s.checkTicketAccess(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.attachments.ListByOwner(ctx, domain.AttachmentOwnerTicket, ticketID)
}

// ListForComment returns attachment metadata for a comment.
func (s *AttachmentService) ListForComment(ctx context.Context, actor *domain.User, commentID int64) ([]domain.Attachment, error) {
	comment, err := s.loadComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTicketAccess(ctx, actor, comment.TicketID); err != nil {
		return nil, err
	}
	return s.attachments.ListByOwner(ctx, domain.AttachmentOwnerComment, commentID)
}

func (s *AttachmentService) store(ctx context.Context, owner domain.AttachmentOwner, ownerID int64, files []*multipart.FileHeader) ([]domain.Attachment, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files uploaded")
	}
	if len(files) > maxAttachmentBatch {
		return nil, apperrors.NewValidationError("too many files in one batch")
	}

	result := make([]domain.Attachment, 0, len(files))
	for _, file := range files {
		storedName, err := s.saver.Save(file)
		if err != nil {
			return nil, err
		}
		att := domain.Attachment{
			OwnerID:  ownerID,
			FileName: file.Filename,
			FilePath: storedName,
			FileSize: file.Size,
			MimeType: file.Header.Get("Content-Type"),
		}
		if err := s.attachments.Create(ctx, owner, &att); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, nil
}

func (s *AttachmentService) checkTicketAccess(ctx context.Context, actor *domain.User, ticketID int64) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket")
		}
		return err
	}
	if !authz.CanReadTicket(actor.Role, actor.ID, ticket.UserID) {
		return apperrors.NewForbidden("no access to this ticket")
	}
	return nil
}

func (s *AttachmentService) loadComment(ctx context.Context, commentID int64) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment")
		}
		return nil, err
	}
	return comment, nil
}
