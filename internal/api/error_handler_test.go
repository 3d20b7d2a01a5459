package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "invalid email", err: domain.ErrInvalidEmailFormat, status: http.StatusBadRequest, message: domain.ErrInvalidEmailFormat.Error()},
		{name: "missing password", err: domain.ErrMissingPassword, status: http.StatusBadRequest, message: domain.ErrMissingPassword.Error()},
		{name: "invalid url", err: domain.ErrInvalidURL, status: http.StatusBadRequest, message: domain.ErrInvalidURL.Error()},
		{name: "user not found", err: domain.ErrUserNotFound, status: http.StatusUnauthorized, message: "invalid credentials"},
		{name: "bad password", err: domain.ErrBadPassword, status: http.StatusUnauthorized, message: "invalid credentials"},
		{name: "throttled", err: domain.ErrTooManyAttempts, status: http.StatusTooManyRequests, message: "too many failed login attempts, try again later"},
		{name: "download", err: fmt.Errorf("%w: status 404", domain.ErrDownloadFailed), status: http.StatusInternalServerError, message: domain.ErrDownloadFailed.Error()},
		{name: "unsupported", err: fmt.Errorf("%w: webp", domain.ErrUnsupportedFormat), status: http.StatusInternalServerError, message: domain.ErrUnsupportedFormat.Error()},
		{name: "transform", err: domain.ErrTransformFailed, status: http.StatusInternalServerError, message: domain.ErrTransformFailed.Error()},
		{name: "echo error", err: echo.NewHTTPError(http.StatusNotFound, "not found"), status: http.StatusNotFound, message: "not found"},
		{name: "unknown", err: errors.New("mongo: connection pool closed"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInvalidURL, c)

	if rec.Code != http.StatusBadRequest || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 400, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "partial")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "partial" {
		t.Fatalf("committed response must be left alone, got %d %q", rec.Code, rec.Body.String())
	}
}
