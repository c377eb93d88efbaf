package handler // handler defines http handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/session"
)

// dbTimeout bounds every repository call made from a handler,
// read and write paths alike.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// render executes a page template with the fields every page shares:
// the page title, the current identity (nil when anonymous) and the
// pending flash message, consumed here so it shows exactly once.
func render(c echo.Context, status int, name, title string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Title"] = title
	if id, ok := session.From(c); ok {
		data["User"] = id
	} else {
		data["User"] = nil
	}
	if kind, msg, ok := session.PopFlash(c); ok {
		data["FlashKind"] = kind
		data["FlashMsg"] = msg
	}
	return c.Render(status, name, data)
}
