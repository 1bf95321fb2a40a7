package dto

import (
	"time"

	"github.com/deskops/servicedesk/internal/domain"
)

// UserResponse is the public account projection; the password hash never
// leaves the server.
type UserResponse struct {
	ID            int64       `json:"id"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	MiddleName    *string     `json:"middle_name"`
	MobilePhone   *string     `json:"mobile_phone"`
	InternalPhone *string     `json:"internal_phone"`
	Floor         *int        `json:"floor"`
	OfficeNumber  *string     `json:"office_number"`
	Position      string      `json:"position"`
	IsBlocked     bool        `json:"is_blocked"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Role:          user.Role,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		MiddleName:    user.MiddleName,
		MobilePhone:   user.MobilePhone,
		InternalPhone: user.InternalPhone,
		Floor:         user.Floor,
		OfficeNumber:  user.OfficeNumber,
		Position:      user.Position,
		IsBlocked:     user.IsBlocked,
		CreatedAt:     user.CreatedAt,
	}
}

// UpdateUserRequest carries optional self-service profile fields.
type UpdateUserRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	MiddleName    *string `json:"middle_name"`
	MobilePhone   *string `json:"mobile_phone"`
	InternalPhone *string `json:"internal_phone"`
	Floor         *int    `json:"floor"`
	OfficeNumber  *string `json:"office_number"`
	Position      *string `json:"position"`
}

// AdminUpdateUserRequest additionally allows email and role changes.
type AdminUpdateUserRequest struct {
	UpdateUserRequest
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// CreateSupportRequest payload.
type CreateSupportRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName *string `json:"middle_name"`
}

// BlockUserRequest payload. Pointer so a missing flag is distinguishable
// from an explicit false (unblock).
type BlockUserRequest struct {
	IsBlocked *bool `json:"is_blocked"`
}
