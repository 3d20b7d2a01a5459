package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/udagram/image-filter/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to status codes and fixed messages.
//   - Collapses unknown-user and wrong-password into one 401.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth gate, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	// Validation → 400
	case errors.Is(err, domain.ErrInvalidEmailFormat):
		return http.StatusBadRequest, domain.ErrInvalidEmailFormat.Error()
	case errors.Is(err, domain.ErrMissingPassword):
		return http.StatusBadRequest, domain.ErrMissingPassword.Error()
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest, domain.ErrInvalidURL.Error()

	// Authentication → 401, one message for both kinds.
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrBadPassword):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many failed login attempts, try again later"

	// Upstream → 500
	case errors.Is(err, domain.ErrDownloadFailed):
		logUpstream(log, c, err)
		return http.StatusInternalServerError, domain.ErrDownloadFailed.Error()
	case errors.Is(err, domain.ErrUnsupportedFormat):
		logUpstream(log, c, err)
		return http.StatusInternalServerError, domain.ErrUnsupportedFormat.Error()
	case errors.Is(err, domain.ErrTransformFailed):
		logUpstream(log, c, err)
		return http.StatusInternalServerError, domain.ErrTransformFailed.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func logUpstream(log zerolog.Logger, c echo.Context, err error) {
	log.Warn().
		Err(err).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("image pipeline failed")
}
