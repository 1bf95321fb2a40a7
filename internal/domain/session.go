package domain

import "time"

// Session is one issued bearer token. The row, not the signed token, is the
// source of truth: logout and block delete rows, natural expiry is checked
// on every lookup and never swept.
type Session struct {
	ID         int64
	UserID     int64
	Token      string
	DeviceInfo *string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
