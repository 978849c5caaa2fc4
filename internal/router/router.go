package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the full auth surface: the session-strategy and
// token-strategy endpoint pairs under /api/auth, and the admin listing
// under /api/admin.  The two guard families are never mixed on a route:
// session-mode endpoints sit behind SessionAuth, token-mode endpoints
// behind JWTAuth, and each admin variant stacks the role guard on top of
// its own family's identity guard.  Both login endpoints share the Redis
// token-bucket limiter to slow down credential stuffing.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, cfg config.Config, store *session.Store, rdb *redis.Client) {
	limiter := middleware.NewLoginLimiter(config.LoadRateLimitConfig(), rdb)
	sessionGuard := middleware.SessionAuth(cfg.SessionSecret, store)
	tokenGuard := middleware.JWTAuth(cfg.AccessSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	g := e.Group("/api/auth")

	// Session strategy: identity lives server-side, referenced by the
	// signed session cookie.
	g.POST("/register-session", h.RegisterSession)
	g.POST("/login-session", h.LoginSession, limiter)
	g.POST("/logout-session", h.LogoutSession, sessionGuard)
	g.GET("/profile-session", h.ProfileSession, sessionGuard)

	// Token strategy: identity is carried by the bearer access token;
	// the refresh token cookie only ever reaches these endpoints.
	g.POST("/register-jwt", h.RegisterJWT)
	g.POST("/login-jwt", h.LoginJWT, limiter)
	g.POST("/logout-jwt", h.LogoutJWT)
	g.POST("/refresh-token", h.RefreshToken)
	g.GET("/profile-jwt", h.ProfileJWT, tokenGuard)

	// Admin surface, one route per guard family.
	admin := e.Group("/api/admin")
	admin.GET("/users-session", h.ListUsers, sessionGuard, adminOnly)
	admin.GET("/users-jwt", h.ListUsers, tokenGuard, adminOnly)
}
