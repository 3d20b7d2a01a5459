package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/udagram/image-filter/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, domain.PublicUser, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
	return s.loginFn(ctx, email, password)
}

func postLogin(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v0/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
			if email != "a@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", domain.PublicUser{Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postLogin(e, `{"email":"a@example.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["auth"] != true || resp["token"] != "token123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "a@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("response must not echo the password")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
			t.Fatalf("service must not be called")
			return "", domain.PublicUser{}, nil
		},
	})

	c, _ := postLogin(e, `{"email":`)
	err := handler.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_PassesDomainErrors(t *testing.T) {
	for _, want := range []error{
		domain.ErrInvalidEmailFormat,
		domain.ErrMissingPassword,
		domain.ErrUserNotFound,
		domain.ErrBadPassword,
		domain.ErrTooManyAttempts,
	} {
		t.Run(want.Error(), func(t *testing.T) {
			e := echo.New()
			handler := NewAuthHandler(&stubAuthService{
				loginFn: func(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
					return "", domain.PublicUser{}, want
				},
			})

			c, rec := postLogin(e, `{"email":"a@example.com","password":"x"}`)
			if err := handler.Login(c); err != want {
				t.Fatalf("expected %v, got %v", want, err)
			}
			if rec.Body.Len() != 0 {
				t.Fatalf("handler must leave the response to the error handler")
			}
		})
	}
}

func TestLoginResult(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidEmailFormat: "invalid_input",
		domain.ErrMissingPassword:    "invalid_input",
		domain.ErrUserNotFound:       "unauthorized",
		domain.ErrBadPassword:        "unauthorized",
		domain.ErrTooManyAttempts:    "throttled",
		context.Canceled:             "error",
	}
	for err, want := range cases {
		if got := loginResult(err); got != want {
			t.Fatalf("loginResult(%v) = %s, want %s", err, got, want)
		}
	}
}
