package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/auth"
	"github.com/iliyamo/auth-service/internal/model"
)

// userResponse is the sanitized user representation.  It is the only user
// shape that ever reaches a client: no password hash, no refresh token.
type userResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func sanitizeUser(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func sanitizeUsers(users []model.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, sanitizeUser(u))
	}
	return out
}

// writeError translates a taxonomy error from the authentication core into
// a structured response with a stable status code.  Store and uncategorized
// failures are logged with full detail but answered with a generic message
// in production.
func (h *AuthHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrDuplicateIdentity):
		return fail(c, http.StatusBadRequest, "username or email already in use")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrMissingToken):
		return fail(c, http.StatusUnauthorized, "refresh token missing")
	case errors.Is(err, auth.ErrExpiredToken):
		c.Logger().Debugf("refresh rejected: expired token from %s", c.RealIP())
		return fail(c, http.StatusUnauthorized, "invalid or expired refresh token")
	case errors.Is(err, auth.ErrInvalidToken):
		c.Logger().Debugf("refresh rejected: invalid token from %s", c.RealIP())
		return fail(c, http.StatusUnauthorized, "invalid or expired refresh token")
	case errors.Is(err, auth.ErrNotFound):
		return fail(c, http.StatusNotFound, "user not found")
	default:
		c.Logger().Errorf("internal error on %s: %v", c.Path(), err)
		msg := "internal error"
		if !h.Cfg.IsProd() {
			msg = err.Error()
		}
		return fail(c, http.StatusInternalServerError, msg)
	}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
