// Package auth verifies credentials and issues sessions. The domain
// packages never see passwords; they consume the identity stored in the
// session.
package auth

import "time"

// User is an account row able to sign in.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	RoleID       int64      `json:"role_id" db:"role_id"`
	VendedorID   *int64     `json:"vendedor_id,omitempty" db:"vendedor_id"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}
