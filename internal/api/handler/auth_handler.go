package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/udagram/image-filter/internal/api/metrics"
	"github.com/udagram/image-filter/internal/core/domain"
	"github.com/udagram/image-filter/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Auth  bool              `json:"auth"`
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Auth: true, Token: token, User: user})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidEmailFormat), errors.Is(err, domain.ErrMissingPassword):
		return "invalid_input"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrBadPassword):
		return "unauthorized"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
