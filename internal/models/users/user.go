package usermodels

import "time"

type User struct {
	UserID    int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Enabled   bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// VerificationToken is the pending email verification code of a user.
// A user has at most one.
type VerificationToken struct {
	ID        int64
	UserID    int64
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is no longer usable at now.
func (t VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthenticationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthenticationResponse mirrors what the web client expects from every
// /auth endpoint; unset fields are omitted.
type AuthenticationResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}
