package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/api/dto"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/service"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// CommentsHandler manages the per-ticket comment thread.
type CommentsHandler struct {
	comments    *service.CommentService
	attachments *service.AttachmentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService, attachmentService *service.AttachmentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService, attachments: attachmentService}
}

// Create POST /comments. Accepts JSON or a multipart form with files.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	ticketID, message, isInternal, files, err := parseCommentForm(c)
	if err != nil {
		return err
	}
	if ticketID <= 0 {
		return apperrors.NewValidationError("ticket_id required")
	}
	if strings.TrimSpace(message) == "" {
		return apperrors.NewValidationError("message required")
	}

	comment, err := h.comments.Post(c.UserContext(), principal.User, ticketID, message, isInternal)
	if err != nil {
		return err
	}

	if len(files) > 0 {
		if _, err := h.attachments.AttachToComment(c.UserContext(), principal.User, comment.ID, files); err != nil {
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "comment added",
		"id":      comment.ID,
	})
}

// ListByTicket GET /comments/ticket/:ticketId. Internal rows are stripped
// for the user role.
func (h *CommentsHandler) ListByTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		return err
	}
	views, err := h.comments.List(c.UserContext(), principal.User, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponses(views))
}

// Delete DELETE /comments/:id. Author only.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.UserContext(), principal.User, commentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "comment deleted"})
}

// Upload POST /comments/:id/attachments.
func (h *CommentsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	files, err := formFiles(c)
	if err != nil {
		return err
	}
	saved, err := h.attachments.AttachToComment(c.UserContext(), principal.User, commentID, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAttachmentResponses(saved))
}

// Attachments GET /comments/:id/attachments.
func (h *CommentsHandler) Attachments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachments, err := h.attachments.ListForComment(c.UserContext(), principal.User, commentID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttachmentResponses(attachments))
}

func parseCommentForm(c *fiber.Ctx) (ticketID int64, message string, isInternal bool, files []*multipart.FileHeader, err error) {
	if form, formErr := c.MultipartForm(); formErr == nil && form != nil {
		ticketID, _ = strconv.ParseInt(firstValue(form.Value["ticket_id"]), 10, 64)
		message = firstValue(form.Value["message"])
		isInternal, _ = strconv.ParseBool(firstValue(form.Value["is_internal"]))
		files = form.File["files"]
		return ticketID, message, isInternal, files, nil
	}

	var req dto.CreateCommentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return 0, "", false, nil, apperrors.NewValidationError("invalid payload")
	}
	return req.TicketID, req.Message, req.IsInternal, nil, nil
}
