package models

import "time"

// UserSecurity is the secondary password gate record. At most one row per
// user; replaced in place on password change. Hash and salt are hex strings,
// hash = SHA-256(saltBytes || passwordBytes) computed by the client.
type UserSecurity struct {
	UserID       int       `json:"user_id"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SecurityStatus struct {
	HasPassword bool    `json:"has_password"`
	Salt        *string `json:"salt"`
}
