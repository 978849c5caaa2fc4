package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/auth"
	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/session"
	queue_publisher "github.com/iliyamo/auth-service/internal/service"
)

// AuthHandler bundles dependencies for the auth endpoints of both
// strategies.
type AuthHandler struct {
	Cfg  config.Config
	Auth *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: svc}
}

// dbTimeout bounds every store round-trip made from a handler.
const dbTimeout = 5 * time.Second

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterSession creates the user and establishes a server-side session
// bound to it.  The response carries the sanitized user; the session
// identifier travels only in the signed cookie.
func (h *AuthHandler) RegisterSession(c echo.Context) error {
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
	sid, err := h.Auth.EstablishSession(ctx, u)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setSessionCookie(c, session.SignID(h.Cfg.SessionSecret, sid))
	h.publish(queue.EventRegistered, u, "session")

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "registration successful",
		"data":    sanitizeUser(u),
	})
}

// LoginSession verifies credentials and establishes a session.
func (h *AuthHandler) LoginSession(c echo.Context) error {
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
	sid, err := h.Auth.EstablishSession(ctx, u)
	if err != nil {
		return h.writeError(c, err)
	}
	h.setSessionCookie(c, session.SignID(h.Cfg.SessionSecret, sid))
	h.publish(queue.EventLoggedIn, u, "session")

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login successful",
		"data":    sanitizeUser(u),
	})
}

// LogoutSession destroys the current session server-side.  The cookie is
// cleared before the store call so the client drops it even when the
// destroy fails; a destroy failure is still reported as a server error.
// Runs behind the session guard, which put the session id in the context.
func (h *AuthHandler) LogoutSession(c echo.Context) error {
	sid, _ := c.Get(middleware.CtxSessionID).(string)

	h.clearSessionCookie(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Auth.DestroySession(ctx, sid); err != nil {
		return h.writeError(c, err)
	}
	if uid, ok := c.Get(middleware.CtxUserID).(uint64); ok {
		h.publish(queue.EventLoggedOut, model.User{ID: uid}, "session")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "logout successful",
	})
}

// ProfileSession returns the user behind the active session.  A session
// referencing a user that no longer exists answers 404.
func (h *AuthHandler) ProfileSession(c echo.Context) error {
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

// publish fires an auth event at the broker without blocking the request;
// failures are logged inside the publisher and otherwise ignored.
func (h *AuthHandler) publish(event string, u model.User, mode string) {
	ev := queue.AuthEvent{
		Event:      event,
		UserID:     u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Mode:       mode,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAuthEvent(ctx, ev)
	}()
}
