package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelworthy/movie-review/internal/assets"
	"github.com/reelworthy/movie-review/internal/config"
	"github.com/reelworthy/movie-review/internal/handler"
	"github.com/reelworthy/movie-review/internal/middleware"
	"github.com/reelworthy/movie-review/internal/model"
	"github.com/reelworthy/movie-review/internal/repository"
	"github.com/reelworthy/movie-review/internal/router"
	"github.com/reelworthy/movie-review/internal/session"
	"github.com/reelworthy/movie-review/internal/view"
)

const testSecret = "handler-test-secret"

// newApp wires the full route table against a sqlmock database and a
// temp upload root. Redis is nil, so the cache and limiter middlewares
// are pass-throughs, exactly as in a deployment without Redis.
func newApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		SessionSecret: testSecret,
		SessionTTLMin: 30,
		BcryptCost:    bcrypt.MinCost,
		UploadDir:     filepath.Join(t.TempDir(), "uploads"),
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)
	store := assets.NewStore(cfg.UploadDir)

	e := echo.New()
	e.Renderer = view.New()
	e.Use(middleware.LoadIdentity(cfg.SessionSecret))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), nil)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), nil)

	router.RegisterRoutes(e, cfg.UploadDir)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limit)
	router.RegisterCatalog(e, handler.NewMovieHandler(movies, reviews, store), handler.NewReviewHandler(reviews), cache)

	return e, mock
}

func postForm(e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// loginCookie produces a session cookie for the given user without
// going through the login form.
func loginCookie(t *testing.T, u model.User) *http.Cookie {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, session.Establish(c, testSecret, 30, u))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

// flashOf extracts the flash message set on a response, if any.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) (kind, msg string, ok bool) {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "flash" && ck.Value != "" {
			raw, err := url.QueryUnescape(ck.Value)
			require.NoError(t, err)
			kind, msg, _ = strings.Cut(raw, "|")
			return kind, msg, true
		}
	}
	return "", "", false
}

func sessionOf(rec *httptest.ResponseRecorder) (*http.Cookie, bool) {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck, true
		}
	}
	return nil, false
}

func userRows(t *testing.T, id uint64, username, password string, admin bool) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "admin", "created_at"}).
		AddRow(id, username, string(hash), admin, time.Now())
}

func TestLoginEstablishesSession(t *testing.T) {
	e, mock := newApp(t)

	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRows(t, 7, "alice", "pw1", false))

	rec := postForm(e, "/login", url.Values{"username": {"alice"}, "password": {"pw1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	ck, ok := sessionOf(rec)
	require.True(t, ok, "successful login must set a session cookie")

	// The established identity carries the stored admin flag.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	c := e.NewContext(req, httptest.NewRecorder())
	id, ok := session.Current(c, testSecret)
	require.True(t, ok)
	assert.Equal(t, "alice", id.Username)
	assert.False(t, id.Admin)
}

func TestLoginWrongPasswordLeavesNoSession(t *testing.T) {
	e, mock := newApp(t)

	mock.ExpectQuery("FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRows(t, 7, "alice", "the-real-password", false))

	rec := postForm(e, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	_, hasSession := sessionOf(rec)
	assert.False(t, hasSession)
	kind, msg, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "error", kind)
	assert.Equal(t, "Invalid username or password", msg)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e, mock := newApp(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice'"))

	rec := postForm(e, "/register", url.Values{"username": {"alice"}, "password": {"pw1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get(echo.HeaderLocation))
	kind, msg, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "error", kind)
	assert.Equal(t, "Username already exists", msg)
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	e, mock := newApp(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postForm(e, "/register", url.Values{"username": {"alice"}, "password": {"pw1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	kind, _, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "success", kind)
}

func TestCreateReviewRequiresLogin(t *testing.T) {
	e, mock := newApp(t)

	rec := postForm(e, "/create_review", url.Values{"movie_id": {"3"}, "rating": {"5"}, "description": {"nice"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	// The guard fired before any repository call.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMovieFormGuards(t *testing.T) {
	e, _ := newApp(t)

	// Anonymous: to the login page.
	rec := get(e, "/add_movie")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// Logged in but not admin: home with an error flash, no form.
	rec = get(e, "/add_movie", loginCookie(t, model.User{ID: 2, Username: "alice", Admin: false}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	kind, _, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "error", kind)

	// Admin: the creation form renders.
	rec = get(e, "/add_movie", loginCookie(t, model.User{ID: 1, Username: "root", Admin: true}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Add a movie")
}

func TestCreateReviewRejectsOutOfRangeRating(t *testing.T) {
	e, mock := newApp(t)
	ck := loginCookie(t, model.User{ID: 2, Username: "alice"})

	rec := postForm(e, "/create_review",
		url.Values{"movie_id": {"3"}, "rating": {"9"}, "description": {"!"}}, ck)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movie/3", rec.Header().Get(echo.HeaderLocation))
	_, msg, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "Rating must be between 1 and 5", msg)
	assert.NoError(t, mock.ExpectationsWereMet(), "nothing may be inserted")
}

func TestDeleteMovieMissingID(t *testing.T) {
	e, mock := newApp(t)
	ck := loginCookie(t, model.User{ID: 1, Username: "root", Admin: true})

	mock.ExpectQuery("SELECT image_path FROM movies WHERE id=").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"image_path"}))

	rec := postForm(e, "/delete_movie/99", url.Values{}, ck)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movie/99", rec.Header().Get(echo.HeaderLocation))
	_, msg, ok := flashOf(t, rec)
	require.True(t, ok)
	assert.Equal(t, "Movie not found", msg)
	assert.NoError(t, mock.ExpectationsWereMet(), "no DELETE for a missing movie")
}

func TestHomeRendersPanels(t *testing.T) {
	e, mock := newApp(t)

	cols := []string{"id", "title", "description", "image_path", "release_year",
		"director", "created_at", "updated_at", "avg_rating", "review_count", "last_reviewed_at"}
	now := time.Now()

	recent := sqlmock.NewRows(cols).
		AddRow(1, "Fresh Release", "d", "uploads/a.png", 2024, "x", now, now, nil, 0, nil)
	top := sqlmock.NewRows(cols).
		AddRow(2, "All Time Great", "d", "uploads/b.png", 1972, "y", now, now, 4.9, 12, now)

	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs(6).WillReturnRows(recent)
	mock.ExpectQuery("ORDER BY avg_rating IS NULL").WithArgs(6).WillReturnRows(top)

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fresh Release")
	assert.Contains(t, rec.Body.String(), "All Time Great")
}

// The PWA assets are embedded, so they serve no matter which directory
// the process started from.
func TestStaticAssetsServedFromBinary(t *testing.T) {
	e, _ := newApp(t)

	rec := get(e, "/manifest.json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name": "Movie Review"`)

	rec = get(e, "/offline")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Offline")

	rec = get(e, "/service-worker.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "addEventListener")
}

func TestSearchRendersEmptyResults(t *testing.T) {
	e, mock := newApp(t)

	cols := []string{"id", "title", "description", "image_path", "release_year",
		"director", "created_at", "updated_at", "avg_rating", "review_count", "last_reviewed_at"}
	mock.ExpectQuery(`LOWER\(title\) LIKE \?`).
		WithArgs("%zzz%").
		WillReturnRows(sqlmock.NewRows(cols))

	rec := postForm(e, "/search", url.Values{"search": {"zzz"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing matched")
}
