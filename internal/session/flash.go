package session

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// FlashCookieName carries a one-shot status message to the next
// rendered page. The value is "<kind>|<message>", URL-escaped for
// cookie safety.
const FlashCookieName = "flash"

// Flash queues a status message of the given kind ("success" or
// "error") for the next page render.
func Flash(c echo.Context, kind, message string) {
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash message, if any, and expires its
// cookie so the message shows exactly once.
func PopFlash(c echo.Context) (kind, message string, ok bool) {
	ck, err := c.Cookie(FlashCookieName)
	if err != nil || ck.Value == "" {
		return "", "", false
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return "", "", false
	}
	kind, message, found := strings.Cut(raw, "|")
	if !found {
		return "info", raw, true
	}
	return kind, message, true
}
