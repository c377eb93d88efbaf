package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/session"
)

// RequireUser returns a middleware that allows only authenticated
// requests through. Anonymous requests are flashed a prompt and
// redirected to the login page. Because every mutating route goes
// through one of these guards, authorization policy lives in exactly
// one place instead of being re-checked (or forgotten) per handler.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := session.From(c); !ok {
				session.Flash(c, "error", "Please log in first")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that allows only administrators
// through. Anonymous requests go to the login page; logged-in
// non-admins are flashed an error and sent home.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := session.From(c)
			if !ok {
				session.Flash(c, "error", "Please log in first")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if !id.Admin {
				session.Flash(c, "error", "You do not have permission to do that")
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return next(c)
		}
	}
}
