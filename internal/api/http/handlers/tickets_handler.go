package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/api/dto"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/service"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	attachments *service.AttachmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, attachmentService *service.AttachmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, attachments: attachmentService}
}

// List GET /tickets. The listing scope and order depend on the caller's role.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	views, err := h.tickets.List(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(views))
}

// Create POST /tickets. Accepts JSON or a multipart form with up to five
// files attached alongside the ticket fields.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	title, description, files := parseTicketForm(c)
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return apperrors.NewValidationError("title and description required")
	}

	ticket, err := h.tickets.Create(c.UserContext(), principal.User, title, description)
	if err != nil {
		return err
	}

	if len(files) > 0 {
		if _, err := h.attachments.AttachToTicket(c.UserContext(), principal.User, ticket.ID, files); err != nil {
			return err
		}
	}

	view, err := h.tickets.Get(c.UserContext(), principal.User, ticket.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(view))
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	view, err := h.tickets.Get(c.UserContext(), principal.User, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(view))
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	status, valid := domain.ParseTicketStatus(req.Status)
	if !valid {
		return apperrors.NewValidationError("invalid status")
	}

	if _, err := h.tickets.UpdateStatus(c.UserContext(), principal.User, ticketID, status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "status updated", "status": status})
}

// Assign PUT /tickets/:id/assign. An empty body from a support account
// self-assigns.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AssignRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload")
		}
	}

	ticket, err := h.tickets.Assign(c.UserContext(), principal.User, ticketID, req.Target())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "ticket assigned", "assigned_to": ticket.AssignedTo})
}

// Rate POST /tickets/:id/rating. Creator only; archives the ticket.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	if _, err := h.tickets.Rate(c.UserContext(), principal.User, ticketID, req.Rating); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "rating saved", "rating": req.Rating})
}

// ListArchived GET /tickets/archive. Admin only.
func (h *TicketsHandler) ListArchived(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	views, err := h.tickets.ListArchived(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(views))
}

// History GET /tickets/:id/history. Admin and support only.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.tickets.History(c.UserContext(), principal.User, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketHistoryResponses(entries))
}

// Upload POST /tickets/:id/attachments. Multipart batch of up to five files.
func (h *TicketsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	files, err := formFiles(c)
	if err != nil {
		return err
	}
	saved, err := h.attachments.AttachToTicket(c.UserContext(), principal.User, ticketID, files)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAttachmentResponses(saved))
}

// Attachments GET /tickets/:id/attachments.
func (h *TicketsHandler) Attachments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachments, err := h.attachments.ListForTicket(c.UserContext(), principal.User, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttachmentResponses(attachments))
}

// parseTicketForm reads create fields from either a multipart form or a
// JSON body, returning any uploaded files alongside.
func parseTicketForm(c *fiber.Ctx) (title, description string, files []*multipart.FileHeader) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		title = firstValue(form.Value["title"])
		description = firstValue(form.Value["description"])
		files = form.File["files"]
		return title, description, files
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err == nil {
		title = req.Title
		description = req.Description
	}
	return title, description, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// formFiles extracts the uploaded batch from a multipart request.
func formFiles(c *fiber.Ctx) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, apperrors.NewValidationError("multipart form required")
	}
	return form.File["files"], nil
}

// pathID parses a numeric path parameter.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid " + name)
	}
	return id, nil
}
