package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw   string
		want  Role
		valid bool
	}{
		{"admin", RoleAdmin, true},
		{"support", RoleSupport, true},
		{"user", RoleUser, true},
		{"Admin", "", false},
		{"superuser", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			role, valid := ParseRole(tt.raw)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.want, role)
		})
	}
}

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		raw   string
		want  TicketStatus
		valid bool
	}{
		{"new", TicketStatusNew, true},
		{"in_progress", TicketStatusInProgress, true},
		{"resolved", TicketStatusResolved, true},
		{"closed", TicketStatusClosed, true},
		{"archived", TicketStatusArchived, true},
		{"open", "", false},
		{"RESOLVED", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			status, valid := ParseTicketStatus(tt.raw)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.want, status)
		})
	}
}
