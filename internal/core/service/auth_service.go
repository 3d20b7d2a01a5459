package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

// AuthService implements login on top of a credential store.
type AuthService struct {
	store    ports.CredentialStore
	verifier ports.PasswordVerifier
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuthService wires the login flow. throttle may be nil.
func NewAuthService(
	store ports.CredentialStore,
	verifier ports.PasswordVerifier,
	tokens ports.TokenService,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		verifier: verifier,
		tokens:   tokens,
		throttle: throttle,
		validate: validator.New(),
		log:      log,
	}
}

// Login validates the input, checks the password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
	email = strings.TrimSpace(email)

	// 1. Syntax checks before touching the store.
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", domain.PublicUser{}, domain.ErrInvalidEmailFormat
	}
	if password == "" {
		return "", domain.PublicUser{}, domain.ErrMissingPassword
	}

	// 2. Brute-force throttle. Store errors never block a login.
	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if blocked {
			return "", domain.PublicUser{}, domain.ErrTooManyAttempts
		}
	}

	// 3. Lookup.
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", domain.PublicUser{}, domain.ErrUserNotFound
		}
		return "", domain.PublicUser{}, fmt.Errorf("login: %w", err)
	}

	// 4. Password.
	if !s.verifier.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", domain.PublicUser{}, domain.ErrBadPassword
	}

	// 5. Token.
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return "", domain.PublicUser{}, fmt.Errorf("login: issue token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	return token, user.Public(), nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
