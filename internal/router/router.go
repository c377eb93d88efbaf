package router // package router defines how HTTP routes are registered for the app

import (
	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/handler"
	"github.com/reelworthy/movie-review/internal/middleware"
	"github.com/reelworthy/movie-review/web"
)

// RegisterRoutes registers the routes that carry no page logic: the
// health check, the uploaded poster files, and the static assets that
// make the site installable/offline-capable.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Poster files are served straight from the upload root at the same
	// path that is stored in the catalog ("uploads/<name>").
	e.Static("/uploads", uploadDir)

	// PWA passthrough assets, embedded alongside the templates.
	e.FileFS("/offline", "static/offline.html", web.Static)
	e.FileFS("/service-worker.js", "static/service-worker.js", web.Static)
	e.FileFS("/manifest.json", "static/manifest.json", web.Static)
}

// RegisterAuth registers the login, register and logout routes. The
// limit middleware (a Redis token bucket) is applied to the two form
// posts to slow down credential guessing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.GET("/login", a.LoginForm)
	e.POST("/login", a.Login, limit)
	e.GET("/register", a.RegisterForm)
	e.POST("/register", a.Register, limit)
	e.GET("/logout", a.Logout)
}

// RegisterCatalog registers the browse and mutation routes. Reads are
// public (the home and detail pages additionally go through the page
// cache). Every mutating route runs a guard first: RequireUser for
// posting reviews, RequireAdmin for all catalog changes.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, r *handler.ReviewHandler, cache echo.MiddlewareFunc) {
	// Public reads.
	e.GET("/", m.Home, cache)
	e.GET("/movie/:id", m.Detail, cache)
	e.POST("/search", m.Search)

	// Review posting requires a login.
	e.POST("/create_review", r.CreateReview, middleware.RequireUser())

	// Catalog management requires an admin.
	admin := middleware.RequireAdmin()
	e.GET("/add_movie", m.AddMovieForm, admin)
	e.POST("/create_movie", m.CreateMovie, admin)
	e.POST("/edit_movie/:id", m.EditMovie, admin)
	e.POST("/delete_movie/:id", m.DeleteMovie, admin)
}
