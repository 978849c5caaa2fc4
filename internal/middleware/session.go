package middleware

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/auth-service/internal/session"
)

// SessionGetter is the subset of the session store the guard needs.
type SessionGetter interface {
    Get(ctx context.Context, id string) (session.Data, bool, error)
}

// SessionAuth returns an Echo middleware that resolves identity from the
// signed session cookie.  A missing cookie, a bad signature and a session
// identifier unknown to the store are all the same condition to the
// client: 401, unauthenticated.  Only a store read failure is a server
// error.  On success the session's user id and role are attached to the
// context along with the session identifier, which the logout handler
// uses to destroy the right session.
func SessionAuth(secret string, store SessionGetter) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(session.CookieName)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "authentication required",
                })
            }
            id, err := session.VerifyID(secret, cookie.Value)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "authentication required",
                })
            }
            data, ok, err := store.Get(c.Request().Context(), id)
            if err != nil {
                c.Logger().Errorf("session lookup failed: %v", err)
                return c.JSON(http.StatusInternalServerError, echo.Map{
                    "success": false, "message": "internal error",
                })
            }
            if !ok {
                // Destroyed or expired session: unauthenticated, not an error.
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false, "message": "authentication required",
                })
            }

            c.Set(CtxUserID, data.UserID)
            c.Set(CtxRole, data.Role)
            c.Set(CtxSessionID, id)
            return next(c)
        }
    }
}
