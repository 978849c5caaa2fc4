package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/session"
)

// refreshCookieName carries the refresh token in token mode.  The cookie
// is scoped to the auth endpoints so it is only ever sent where the
// refresh and logout handlers can read it.
const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth"
)

// setSessionCookie installs the signed session cookie.  Http-only keeps it
// away from client-side scripts; Secure is enabled in production.
func (h *AuthHandler) setSessionCookie(c echo.Context, signedID string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    signedID,
		Path:     "/",
		MaxAge:   int(session.TTL / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
	})
}

// setRefreshCookie delivers the refresh token.  It is never included in a
// JSON body: http-only plus SameSite=Strict is the whole delivery channel.
func (h *AuthHandler) setRefreshCookie(c echo.Context, tok string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    tok,
		Path:     refreshCookiePath,
		MaxAge:   h.Cfg.RefreshTTLDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.IsProd(),
		SameSite: http.SameSiteStrictMode,
	})
}
