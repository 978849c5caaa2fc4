package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/auth"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/queue"
)

// RegisterJWT creates the user and issues a token pair.  The access token
// is returned in the body; the refresh token travels only in its cookie
// and its value is persisted on the user record before the response is
// written.
func (h *AuthHandler) RegisterJWT(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	access, refresh, err := h.Auth.IssueTokens(ctx, u)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setRefreshCookie(c, refresh.Token)
	h.publish(queue.EventRegistered, u, "jwt")

	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"message":     "registration successful",
		"accessToken": access.Token,
		"data":        sanitizeUser(u),
	})
}

// LoginJWT verifies credentials and issues a fresh token pair.  Storing
// the new refresh token overwrites the previous one, so any token issued
// by an earlier login stops refreshing from this point on.
func (h *AuthHandler) LoginJWT(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	access, refresh, err := h.Auth.IssueTokens(ctx, u)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setRefreshCookie(c, refresh.Token)
	h.publish(queue.EventLoggedIn, u, "jwt")

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "login successful",
		"accessToken": access.Token,
		"data":        sanitizeUser(u),
	})
}

// LogoutJWT clears the stored refresh token matching the cookie, if any,
// then clears the cookie.  A missing or unknown cookie is not an error;
// logout is idempotent.
func (h *AuthHandler) LogoutJWT(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()
		if err := h.Auth.RevokeRefresh(ctx, cookie.Value); err != nil {
			h.clearRefreshCookie(c)
			return h.writeError(c, err)
		}
	}
	h.clearRefreshCookie(c)
	h.publish(queue.EventLoggedOut, model.User{}, "jwt")

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "logout successful",
	})
}

// RefreshToken exchanges the refresh cookie for a new access token.  The
// refresh token itself is not rotated.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return h.writeError(c, auth.ErrMissingToken)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	access, err := h.Auth.Refresh(ctx, cookie.Value)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"accessToken": access.Token,
	})
}

// ProfileJWT returns the user behind the verified access token.  The
// identity was already resolved by the JWT guard; the handler only loads
// the record.
func (h *AuthHandler) ProfileJWT(c echo.Context) error {
	uid, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return fail(c, http.StatusUnauthorized, "authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Profile(ctx, uid)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    sanitizeUser(u),
	})
}
