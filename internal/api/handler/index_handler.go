package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root handles GET / and points callers at the API prefix.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "/api/v0/")
}

// Usage handles GET /api/v0/.
func Usage(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "try GET /filteredimage?image_url={{}}"})
}
