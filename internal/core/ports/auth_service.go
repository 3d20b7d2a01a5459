package ports

import (
	"context"

	"github.com/udagram/image-filter/internal/core/domain"
)

// PasswordVerifier compares a plaintext password with a stored salted hash.
type PasswordVerifier interface {
	Verify(plaintext, storedHash string) bool
}

// TokenService issues and verifies bearer tokens. Verify returns one of
// domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid or
// domain.ErrTokenExpired on failure.
type TokenService interface {
	Issue(identity string) (string, error)
	Verify(token string) (string, error)
}

// AuthService turns credentials into a token.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, domain.PublicUser, error)
}

// AuthGate decides whether a request carrying the given Authorization
// header value may reach a protected operation.
type AuthGate interface {
	Authorize(header string) domain.AuthResult
}
