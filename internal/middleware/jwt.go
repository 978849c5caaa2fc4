package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/auth-service/internal/token"
)

// Context keys under which guards attach the resolved identity.  Both the
// JWT and the session guard populate the same keys, so role checks and
// handlers are strategy-agnostic; the two guard families are still never
// mixed on a single route.
const (
    CtxUserID    = "user_id"
    CtxRole      = "role"
    CtxSessionID = "session_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request context.
// The provided secret must match the one used when issuing access tokens.
// Handlers behind it read the identity via `c.Get(CtxUserID)` and
// `c.Get(CtxRole)`.  Absence of the header, a malformed prefix, a bad
// signature, a malformed token and an expired token all answer 401; the
// expired case is logged apart for observability.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header is "Bearer " followed by the JWT; anything
            // else means the request is unauthenticated.
            authz := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(authz, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "missing or malformed bearer token",
                })
            }
            raw := strings.TrimPrefix(authz, "Bearer ")

            claims, err := token.VerifyAccess(secret, raw)
            if err != nil {
                if err == token.ErrExpired {
                    c.Logger().Debugf("access token expired from %s", c.RealIP())
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "invalid or expired token",
                })
            }

            // Attach the decoded claims for downstream role checks and
            // handlers.
            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
