package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deskops/servicedesk/internal/auth"
	"github.com/deskops/servicedesk/internal/authz"
	"github.com/deskops/servicedesk/internal/domain"
	"github.com/deskops/servicedesk/internal/repository"
	apperrors "github.com/deskops/servicedesk/pkg/util"
)

const defaultSupportPosition = "Специалист техподдержки"

// UserService handles account administration and self-service profile
// updates.
type UserService struct {
	tx         repository.TxRunner
	users      repository.UserRepository
	bcryptCost int
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	TxRunner   repository.TxRunner
	UserRepo   repository.UserRepository
	BcryptCost int
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		tx:         deps.TxRunner,
		users:      deps.UserRepo,
		bcryptCost: deps.BcryptCost,
	}
}

// ProfileUpdate carries optional self-service profile fields. Role and
// email stay out of reach here; only the admin edit can touch them.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	MiddleName    *string
	MobilePhone   *string
	InternalPhone *string
	Floor         *int
	OfficeNumber  *string
	Position      *string
}

// AdminUpdate extends ProfileUpdate with admin-only fields.
type AdminUpdate struct {
	ProfileUpdate
	Email *string
	Role  *string
}

// CreateSupportInput describes a new support account.
type CreateSupportInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	MiddleName *string
}

// List returns accounts, optionally filtered by role. Admin and support
// may list; support needs it to resolve assignees.
func (s *UserService) List(ctx context.Context, actor *domain.User, roleFilter *domain.Role) ([]domain.User, error) {
	if !authz.CanListUsers(actor.Role) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	return s.users.List(ctx, roleFilter)
}

// Get returns one account's profile.
func (s *UserService) Get(ctx context.Context, actor *domain.User, userID int64) (*domain.User, error) {
	if !authz.CanViewUser(actor.Role, actor.ID, userID) {
		return nil, apperrors.NewForbidden("no access")
	}
	return s.load(ctx, userID)
}

// UpdateProfile applies a partial self-service update.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, userID int64, input ProfileUpdate) (*domain.User, error) {
	if !authz.CanEditProfile(actor.Role, actor.ID, userID) {
		return nil, apperrors.NewForbidden("you may only edit your own profile")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !applyProfile(user, input) {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminEdit applies a partial update to any account, including email and
// role. Role values outside the closed set are rejected.
func (s *UserService) AdminEdit(ctx context.Context, actor *domain.User, userID int64, input AdminUpdate) (*domain.User, error) {
	if !authz.CanManageUsers(actor.Role) {
		return nil, apperrors.NewForbidden("admin role required")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := applyProfile(user, input.ProfileUpdate)
	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
		changed = true
	}
	if input.Role != nil {
		role, ok := domain.ParseRole(*input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role")
		}
		user.Role = role
		changed = true
	}
	if !changed {
		return nil, apperrors.NewValidationError("no fields to update")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSupport registers a support account. Admin only.
func (s *UserService) CreateSupport(ctx context.Context, actor *domain.User, input CreateSupportInput) (*domain.User, error) {
	if !authz.CanManageUsers(actor.Role) {
		return nil, apperrors.NewForbidden("admin role required")
	}

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
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleSupport,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MiddleName:   input.MiddleName,
		Position:     defaultSupportPosition,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetBlocked flips the block flag. Blocking revokes every session in the
// same transaction, so no window exists where a blocked user still holds a
// working token.
func (s *UserService) SetBlocked(ctx context.Context, actor *domain.User, userID int64, blocked bool) error {
	if !authz.CanManageUsers(actor.Role) {
		return apperrors.NewForbidden("admin role required")
	}

	err := s.tx.InTx(ctx, func(r repository.Repositories) error {
		if err := r.Users.SetBlocked(ctx, userID, blocked); err != nil {
			return err
		}
		if blocked {
			return r.Sessions.DeleteByUser(ctx, userID)
		}
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user")
	}
	return err
}

// Delete removes an account. Admin only, never their own; tickets,
// comments and sessions cascade at the store.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID int64) error {
	if !authz.CanDeleteUser(actor.Role, actor.ID, userID) {
		if actor.Role == domain.RoleAdmin && actor.ID == userID {
			return apperrors.NewForbidden("you cannot delete your own account")
		}
		return apperrors.NewForbidden("admin role required")
	}

	err := s.users.Delete(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user")
	}
	return err
}

func (s *UserService) load(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

func applyProfile(user *domain.User, input ProfileUpdate) bool {
	changed := false
	if input.FirstName != nil && *input.FirstName != "" {
		user.FirstName = *input.FirstName
		changed = true
	}
	if input.LastName != nil && *input.LastName != "" {
		user.LastName = *input.LastName
		changed = true
	}
	if input.MiddleName != nil {
		user.MiddleName = input.MiddleName
		changed = true
	}
	if input.MobilePhone != nil {
		user.MobilePhone = input.MobilePhone
		changed = true
	}
	if input.InternalPhone != nil {
		user.InternalPhone = input.InternalPhone
		changed = true
	}
	if input.Floor != nil {
		user.Floor = input.Floor
		changed = true
	}
	if input.OfficeNumber != nil {
		user.OfficeNumber = input.OfficeNumber
		changed = true
	}
	if input.Position != nil && *input.Position != "" {
		user.Position = *input.Position
		changed = true
	}
	return changed
}
