package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/session"
)

// LoadIdentity returns a middleware that verifies the session cookie
// and, when valid, stores the resulting Identity on the echo context
// under session.ContextKey. Anonymous and invalid-cookie requests pass
// through untouched; guards decide what requires a login. The provided
// secret must match the one used when establishing sessions.
func LoadIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := session.Current(c, secret); ok {
				c.Set(session.ContextKey, id)
			}
			return next(c)
		}
	}
}
