package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It must run after
// one of the identity guards (SessionAuth or JWTAuth), which store the
// role in the context.  When no role is present at all the request was
// never authenticated and is answered with 401; an authenticated role
// outside the allowed set is answered with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant‑time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(string)
            if !ok || role == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "authentication required",
                })
            }
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "success": false, "message": "insufficient permissions",
                })
            }
            return next(c)
        }
    }
}
