// Package auth provides authentication and user management for the
// warehouse app: username/password login, bcrypt-hashed credentials and
// a two-role model (admin, cashier).
package auth

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
)

// Roles. Admins manage users and see reports; cashiers record goods
// movement and cash counts.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier
}

// User represents a system user.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser creates a new user.
func NewUser(name, username, passwordHash, role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if u.Username == "" {
		return apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if !ValidRole(u.Role) {
		return apperror.NewValidation("unknown role").
			WithDetail("field", "role").
			WithDetail("value", u.Role)
	}
	return nil
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is an issued access token with its expiry.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
