package ports

import (
	"context"

	"github.com/udagram/image-filter/internal/core/domain"
)

// CredentialStore is the read side of user persistence the login flow needs.
// FindByEmail returns domain.ErrUserNotFound when no record exists.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// LoginThrottle counts failed logins per email. Implementations must be safe
// for concurrent use.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
