package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/repository"
	"github.com/reelworthy/movie-review/internal/session"
)

// ReviewHandler bundles dependencies for posting reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

// CreateReview inserts a review for the logged-in user and returns to
// the movie's detail page. The RequireUser guard runs before this
// handler, so an identity is always present.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	id, ok := session.From(c)
	if !ok {
		session.Flash(c, "error", "Please log in first")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	movieID, err := strconv.ParseUint(c.FormValue("movie_id"), 10, 64)
	if err != nil {
		session.Flash(c, "error", "Movie not found")
		return c.Redirect(http.StatusSeeOther, "/")
	}
	detail := "/movie/" + strconv.FormatUint(movieID, 10)

	rating, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil {
		session.Flash(c, "error", "Rating must be between 1 and 5")
		return c.Redirect(http.StatusSeeOther, detail)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	_, err = h.Reviews.Create(ctx, id.UserID, movieID, rating, c.FormValue("description"))
	if err != nil {
		if err == repository.ErrRatingOutOfRange {
			session.Flash(c, "error", "Rating must be between 1 and 5")
			return c.Redirect(http.StatusSeeOther, detail)
		}
		c.Logger().Errorf("create review for movie %d: %v", movieID, err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, detail)
	}

	session.Flash(c, "success", "Review posted")
	return c.Redirect(http.StatusSeeOther, detail)
}
