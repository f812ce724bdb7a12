package dto

import (
	"time"

	"gudang/internal/domain/auth"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the user's profile.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        UserView  `json:"user"`
}

// UserView is the public user shape.
type UserView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// FromUser maps a domain user to its public view.
func FromUser(u *auth.User) UserView {
	return UserView{
		ID:       u.ID.String(),
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}
}

// FromUsers maps a user list.
func FromUsers(users []auth.User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}
