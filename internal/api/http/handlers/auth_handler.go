package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/api/dto"
	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/service"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// AuthHandler manages registration, login and session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.Position == "" {
		return apperrors.NewValidationError("email, password, first_name, last_name, position required")
	}

	user, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleName:    req.MiddleName,
		MobilePhone:   req.MobilePhone,
		InternalPhone: req.InternalPhone,
		Floor:         req.Floor,
		OfficeNumber:  req.OfficeNumber,
		Position:      req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	user, token, _, err := h.service.Login(c.UserContext(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password, req.DeviceInfo)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

// Logout POST /auth/logout. Revokes the presented session; idempotent.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.service.Logout(c.UserContext(), principal.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(dto.NewUserResponse(principal.User))
}
