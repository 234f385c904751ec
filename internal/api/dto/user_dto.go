package dto

import (
	"time"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

// UserSignupRequest payload for new users.
type UserSignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserResponse drops the password hash.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// NewAuthResponse pairs a user with its token.
func NewAuthResponse(u domain.User, token domain.Token) AuthResponse {
	return AuthResponse{User: NewUserResponse(u), Token: token.Value, ExpiresAt: token.ExpiresAt}
}
