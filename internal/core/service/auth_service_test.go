package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/udagram/image-filter/internal/core/domain"
)

type stubCredentialStore struct {
	users map[string]*domain.User
	err   error
	calls int
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{users: make(map[string]*domain.User)}
}

func (s *stubCredentialStore) add(t *testing.T, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	s.users[email] = &domain.User{Email: email, PasswordHash: string(hash)}
}

func (s *stubCredentialStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubThrottle struct {
	blocked  bool
	checkErr error
	failures map[string]int
	resets   []string
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{failures: make(map[string]int)}
}

func (t *stubThrottle) Blocked(_ context.Context, _ string) (bool, error) {
	return t.blocked, t.checkErr
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	t.resets = append(t.resets, email)
	return nil
}

func newAuthSvc(t *testing.T, store *stubCredentialStore, throttle *stubThrottle) (*AuthService, *JWTService) {
	t.Helper()
	tokens, err := NewTokenService([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	if throttle == nil {
		return NewAuthService(store, NewBcryptVerifier(), tokens, nil, zerolog.Nop()), tokens
	}
	return NewAuthService(store, NewBcryptVerifier(), tokens, throttle, zerolog.Nop()), tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newStubCredentialStore()
	store.add(t, "real@x.com", "s3cret")
	svc, tokens := newAuthSvc(t, store, nil)

	token, user, err := svc.Login(context.Background(), "real@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.Email != "real@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if identity != "real@x.com" {
		t.Fatalf("expected identity real@x.com, got %q", identity)
	}
}

func TestAuthService_Login_InvalidEmailSkipsLookup(t *testing.T) {
	store := newStubCredentialStore()
	svc, _ := newAuthSvc(t, store, nil)

	for _, email := range []string{"not-an-email", "", "   ", "a@"} {
		if _, _, err := svc.Login(context.Background(), email, "x"); err != domain.ErrInvalidEmailFormat {
			t.Fatalf("email %q: expected ErrInvalidEmailFormat, got %v", email, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("expected no store lookups, got %d", store.calls)
	}
}

func TestAuthService_Login_MissingPassword(t *testing.T) {
	store := newStubCredentialStore()
	svc, _ := newAuthSvc(t, store, nil)

	if _, _, err := svc.Login(context.Background(), "real@x.com", ""); err != domain.ErrMissingPassword {
		t.Fatalf("expected ErrMissingPassword, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("expected no store lookups, got %d", store.calls)
	}
}

func TestAuthService_Login_BadPassword(t *testing.T) {
	store := newStubCredentialStore()
	store.add(t, "real@x.com", "goodpw")
	svc, _ := newAuthSvc(t, store, nil)

	if _, _, err := svc.Login(context.Background(), "real@x.com", "wrongpw"); err != domain.ErrBadPassword {
		t.Fatalf("expected ErrBadPassword, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubCredentialStore(), nil)

	if _, _, err := svc.Login(context.Background(), "missing@x.com", "pw"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	store := newStubCredentialStore()
	store.err = errors.New("connection refused")
	svc, _ := newAuthSvc(t, store, nil)

	_, _, err := svc.Login(context.Background(), "real@x.com", "pw")
	if err == nil || errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrBadPassword) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthService_Login_Throttle(t *testing.T) {
	store := newStubCredentialStore()
	store.add(t, "real@x.com", "goodpw")
	throttle := newStubThrottle()
	svc, _ := newAuthSvc(t, store, throttle)

	_, _, _ = svc.Login(context.Background(), "real@x.com", "wrongpw")
	_, _, _ = svc.Login(context.Background(), "ghost@x.com", "pw")
	if throttle.failures["real@x.com"] != 1 || throttle.failures["ghost@x.com"] != 1 {
		t.Fatalf("expected one failure per email, got %v", throttle.failures)
	}

	if _, _, err := svc.Login(context.Background(), "real@x.com", "goodpw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(throttle.resets) != 1 || throttle.resets[0] != "real@x.com" {
		t.Fatalf("expected reset for real@x.com, got %v", throttle.resets)
	}

	throttle.blocked = true
	calls := store.calls
	if _, _, err := svc.Login(context.Background(), "real@x.com", "goodpw"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if store.calls != calls {
		t.Fatalf("blocked login must not reach the store")
	}
}

func TestAuthService_Login_ThrottleErrorDoesNotBypassPassword(t *testing.T) {
	store := newStubCredentialStore()
	store.add(t, "real@x.com", "goodpw")
	throttle := newStubThrottle()
	throttle.checkErr = errors.New("redis down")
	svc, _ := newAuthSvc(t, store, throttle)

	if _, _, err := svc.Login(context.Background(), "real@x.com", "wrongpw"); err != domain.ErrBadPassword {
		t.Fatalf("expected ErrBadPassword, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "real@x.com", "goodpw"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}
