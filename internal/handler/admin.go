package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListUsers returns every registered user, sanitized.  Registered behind
// an identity guard plus the admin role guard in both strategy variants.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Auth.ListUsers(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    sanitizeUsers(users),
	})
}
