package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/assets"
	"github.com/reelworthy/movie-review/internal/config"
	"github.com/reelworthy/movie-review/internal/database"
	"github.com/reelworthy/movie-review/internal/handler"
	"github.com/reelworthy/movie-review/internal/middleware"
	"github.com/reelworthy/movie-review/internal/repository"
	"github.com/reelworthy/movie-review/internal/router"
	"github.com/reelworthy/movie-review/internal/view"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := database.MigrateUp(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// Redis is optional: a nil client disables the page cache and the
	// rate limiter without affecting anything else.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; page cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)
	store := assets.NewStore(cfg.UploadDir)

	authHandler := handler.NewAuthHandler(cfg, users)
	movieHandler := handler.NewMovieHandler(movies, reviews, store)
	reviewHandler := handler.NewReviewHandler(reviews)

	e := echo.New()
	e.Renderer = view.New()
	e.Use(middleware.LoadIdentity(cfg.SessionSecret))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e, cfg.UploadDir)
	router.RegisterAuth(e, authHandler, limit)
	router.RegisterCatalog(e, movieHandler, reviewHandler, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
