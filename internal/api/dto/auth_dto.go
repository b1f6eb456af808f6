package dto

import "time"

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

// MessageResponse carries a single user-facing message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionResponse describes the signed-in user.
type SessionResponse struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
