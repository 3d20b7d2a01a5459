package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidEmailFormat = errors.New("email is required or malformed")
	ErrMissingPassword    = errors.New("password is required")
	ErrUserNotFound       = errors.New("user not found")
	ErrBadPassword        = errors.New("password does not match")
	ErrUserExists         = errors.New("user already exists")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// User is a credential record owned by the credential store. The core only
// reads it.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the only view of a user that leaves the service.
type PublicUser struct {
	Email string `json:"email"`
}

// Public strips everything but the email.
func (u *User) Public() PublicUser {
	return PublicUser{Email: u.Email}
}
