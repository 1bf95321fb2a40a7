package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/config"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/repository"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

// AuthService is the session authority: it owns both the JWT layer and the
// session rows, so token expiry and row expiry cannot drift.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// AuthDependencies bundles repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput describes a self-service registration.
type RegisterInput struct {
	Email         string
	Password      string
	FirstName     string
	LastName      string
	MiddleName    *string
	MobilePhone   *string
	InternalPhone *string
	Floor         *int
	OfficeNumber  *string
	Position      string
}

// Register creates a new employee account with the user role.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:         input.Email,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		MiddleName:    input.MiddleName,
		MobilePhone:   input.MobilePhone,
		InternalPhone: input.InternalPhone,
		Floor:         input.Floor,
		OfficeNumber:  input.OfficeNumber,
		Position:      input.Position,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates credentials and mints a session. A blocked account is
// refused before any session row is written.
func (s *AuthService) Login(ctx context.Context, email, password string, deviceInfo *string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}

	if user.IsBlocked {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is blocked, contact an administrator")
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	session := &domain.Session{
		UserID:     user.ID,
		Token:      token,
		DeviceInfo: deviceInfo,
		ExpiresAt:  expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Validate resolves a bearer token to its user. The signed token only gets
// a request as far as the session row; the row decides validity, which is
// how logout, block and natural expiry all revoke cryptographically valid
// tokens.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if _, err := s.tokens.ParseToken(token); err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	_, user, err := s.sessions.GetActiveWithUser(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("session expired or revoked")
		}
		return nil, err
	}
	return user, nil
}

// Logout deletes the session row. Idempotent. Bulk revocation on block
// happens inside the block transaction, not here.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteByToken(ctx, token)
}
