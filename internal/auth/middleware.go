package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskops/servicedesk/internal/domain"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity attached to a request after
// session validation.
type Principal struct {
	User  *domain.User
	Token string
}

// Role returns the principal's account role.
func (p *Principal) Role() domain.Role {
	return p.User.Role
}

// SessionValidator resolves a bearer token to a principal. Implemented by
// the session authority; any failure surfaces as a uniform unauthorized.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*domain.User, error)
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	sessions SessionValidator
}

// NewMiddleware constructs the auth gate.
func NewMiddleware(sessions SessionValidator) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c)
	if !ok {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	user, err := m.sessions.Validate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{User: user, Token: token})
	return c.Next()
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireRoles gates a route to the listed roles. Runs after Handle.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if _, exists := allowedSet[principal.Role()]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
