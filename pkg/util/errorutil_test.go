package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input"), "VALIDATION_FAILED", http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("no access"), "FORBIDDEN", http.StatusForbidden},
		{"not found", NewNotFound("ticket"), "NOT_FOUND", http.StatusNotFound},
		{"conflict", NewConflict("duplicate"), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *DomainError
			require.True(t, errors.As(tt.err, &domainErr))
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
		})
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	var domainErr *DomainError
	require.True(t, errors.As(NewNotFound("ticket"), &domainErr))
	assert.Equal(t, "ticket not found", domainErr.Message)
}

func TestToDomainError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain error preserved", func(t *testing.T) {
		original := NewForbidden("no access")
		converted := ToDomainError(original)
		assert.Equal(t, http.StatusForbidden, converted.HTTPStatus)
		assert.Equal(t, "no access", converted.Message)
	})

	t.Run("wrapped domain error unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", NewConflict("duplicate"))
		converted := ToDomainError(wrapped)
		assert.Equal(t, http.StatusConflict, converted.HTTPStatus)
	})

	t.Run("missing row maps to 404", func(t *testing.T) {
		converted := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		converted := ToDomainError(errors.New("connection reset"))
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
		assert.Equal(t, "internal server error", converted.Message)
	})
}
