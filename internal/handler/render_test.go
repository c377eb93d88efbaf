package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every repository call made from a handler, reads included, runs
// under the same deadline.
func TestReqCtxCarriesDeadline(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	ctx, cancel := reqCtx(c)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "repo contexts must carry a deadline")
	assert.InDelta(t, dbTimeout.Seconds(), time.Until(deadline).Seconds(), 1)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
