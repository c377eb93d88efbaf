package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelworthy/movie-review/internal/config"
	"github.com/reelworthy/movie-review/internal/middleware"
	"github.com/reelworthy/movie-review/internal/session"
)

// newCachedApp mounts a page that renders the pending flash, behind
// the Redis page cache backed by an in-process server.
func newCachedApp(t *testing.T) *echo.Echo {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "page",
		MaxBodyBytes: 1 << 20,
	}

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		_, msg, _ := session.PopFlash(c)
		return c.HTML(http.StatusOK, "<p>home</p><p>"+msg+"</p>")
	}, middleware.NewRedisCache(cfg, rdb))
	return e
}

func doGet(e *echo.Echo, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func flashCookie(kind, message string) *http.Cookie {
	return &http.Cookie{
		Name:  session.FlashCookieName,
		Value: url.QueryEscape(kind + "|" + message),
	}
}

func TestPageCacheServesAnonymousRepeat(t *testing.T) {
	e := newCachedApp(t)

	rec := doGet(e)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = doGet(e)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "<p>home</p>")
}

// A pending flash must be rendered by the handler and expired, even
// when the page is already cached for anonymous visitors.
func TestPageCacheBypassedForPendingFlash(t *testing.T) {
	e := newCachedApp(t)

	// Warm the cache with an anonymous render.
	doGet(e)
	require.Equal(t, "HIT", doGet(e).Header().Get("X-Cache"))

	rec := doGet(e, flashCookie("error", "Movie not found"))

	assert.NotEqual(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Movie not found")

	var expired bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.FlashCookieName && ck.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "rendering the flash must expire its cookie")

	// The message was one-shot: a later anonymous request never sees it.
	rec = doGet(e)
	assert.NotContains(t, rec.Body.String(), "Movie not found")
}

func TestPageCacheBypassedForSessionCookie(t *testing.T) {
	e := newCachedApp(t)

	doGet(e)
	require.Equal(t, "HIT", doGet(e).Header().Get("X-Cache"))

	rec := doGet(e, &http.Cookie{Name: session.CookieName, Value: "opaque"})
	assert.NotEqual(t, "HIT", rec.Header().Get("X-Cache"))
}
