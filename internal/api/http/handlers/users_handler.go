package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/api/dto"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/service"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// UsersHandler manages account administration and profiles.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /users?role=support. Admin and support only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var roleFilter *domain.Role
	if raw := c.Query("role"); raw != "" {
		role, valid := domain.ParseRole(raw)
		if !valid {
			return apperrors.NewValidationError("invalid role filter")
		}
		roleFilter = &role
	}

	users, err := h.users.List(c.UserContext(), principal.User, roleFilter)
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(resp)
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), principal.User, userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Update PUT /users/:id. Admin edits reach email and role; everyone else is
// limited to their own profile fields.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	profile := service.ProfileUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleName:    req.MiddleName,
		MobilePhone:   req.MobilePhone,
		InternalPhone: req.InternalPhone,
		Floor:         req.Floor,
		OfficeNumber:  req.OfficeNumber,
		Position:      req.Position,
	}

	var user *domain.User
	if principal.Role() == domain.RoleAdmin {
		user, err = h.users.AdminEdit(c.UserContext(), principal.User, userID, service.AdminUpdate{
			ProfileUpdate: profile,
			Email:         req.Email,
			Role:          req.Role,
		})
	} else {
		user, err = h.users.UpdateProfile(c.UserContext(), principal.User, userID, profile)
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// CreateSupport POST /users/support. Admin only.
func (h *UsersHandler) CreateSupport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CreateSupportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return apperrors.NewValidationError("email, password, first_name, last_name required")
	}

	user, err := h.users.CreateSupport(c.UserContext(), principal.User, service.CreateSupportInput{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// SetBlocked PUT /users/:id/block. Admin only; blocking also revokes every
// session the account holds.
func (h *UsersHandler) SetBlocked(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.IsBlocked == nil {
		return apperrors.NewValidationError("is_blocked required")
	}

	if err := h.users.SetBlocked(c.UserContext(), principal.User, userID, *req.IsBlocked); err != nil {
		return err
	}
	if *req.IsBlocked {
		return c.JSON(fiber.Map{"message": "user blocked"})
	}
	return c.JSON(fiber.Map{"message": "user unblocked"})
}

// Delete DELETE /users/:id. Admin only, never their own account.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), principal.User, userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
