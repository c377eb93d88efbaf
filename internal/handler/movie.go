// Package handler defines HTTP handlers for the movie review pages.
// This file implements the catalog surface: the home panels, the movie
// detail page, and the admin-only create/edit/delete flows. Poster
// files are written before the catalog row that references them and
// removed best-effort after the row is committed, so a filesystem
// failure can orphan a file but never a database reference.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelworthy/movie-review/internal/assets"
	"github.com/reelworthy/movie-review/internal/repository"
	"github.com/reelworthy/movie-review/internal/session"
)

// homePanelSize is how many movies each homepage panel shows.
const homePanelSize = 6

// MovieHandler bundles the repositories and the asset store used by
// the catalog routes.
type MovieHandler struct {
	Movies  *repository.MovieRepo
	Reviews *repository.ReviewRepo
	Assets  *assets.Store
}

func NewMovieHandler(movies *repository.MovieRepo, reviews *repository.ReviewRepo, store *assets.Store) *MovieHandler {
	if movies == nil || reviews == nil || store == nil {
		panic("nil dependency passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Reviews: reviews, Assets: store}
}

// Home renders the landing page with the most recent and the top rated
// movies.
func (h *MovieHandler) Home(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	recent, err := h.Movies.ListRecent(ctx, homePanelSize)
	if err != nil {
		c.Logger().Errorf("home: list recent: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	top, err := h.Movies.ListTopRated(ctx, homePanelSize)
	if err != nil {
		c.Logger().Errorf("home: list top rated: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return render(c, http.StatusOK, "home.html", "Home", echo.Map{
		"Recent":   recent,
		"TopRated": top,
	})
}

// AddMovieForm renders the movie creation form. The admin guard runs
// before this handler.
func (h *MovieHandler) AddMovieForm(c echo.Context) error {
	return render(c, http.StatusOK, "add_movie.html", "Add movie", nil)
}

// CreateMovie stores the uploaded poster, then inserts the movie row
// referencing it. If the insert fails the fresh poster is removed
// again so nothing is left dangling.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	fields, ok := movieFieldsFromForm(c)
	if !ok {
		session.Flash(c, "error", "All fields are required")
		return c.Redirect(http.StatusSeeOther, "/add_movie")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		session.Flash(c, "error", "Please choose a poster image")
		return c.Redirect(http.StatusSeeOther, "/add_movie")
	}
	ref, err := h.Assets.Save(fh)
	if err != nil {
		switch err {
		case assets.ErrNoFile:
			session.Flash(c, "error", "Please choose a poster image")
		case assets.ErrBadFileType:
			session.Flash(c, "error", "Only png, jpg, jpeg and gif images are allowed")
		default:
			c.Logger().Errorf("create movie: save poster: %v", err)
			session.Flash(c, "error", "Something went wrong, try again")
		}
		return c.Redirect(http.StatusSeeOther, "/add_movie")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Movies.Create(ctx, fields, ref)
	if err != nil {
		h.Assets.Remove(ref)
		c.Logger().Errorf("create movie: insert: %v", err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, "/add_movie")
	}

	session.Flash(c, "success", "Movie added")
	return c.Redirect(http.StatusSeeOther, "/movie/"+strconv.FormatUint(id, 10))
}

// Detail renders a movie page with its reviews, newest first.
func (h *MovieHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		session.Flash(c, "error", "Movie not found")
		return c.Redirect(http.StatusSeeOther, "/")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	movie, err := h.Movies.GetRated(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			session.Flash(c, "error", "Movie not found")
			return c.Redirect(http.StatusSeeOther, "/")
		}
		c.Logger().Errorf("movie detail: fetch %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	reviews, err := h.Reviews.ListForMovie(ctx, id)
	if err != nil {
		c.Logger().Errorf("movie detail: list reviews for %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return render(c, http.StatusOK, "movie_detail.html", movie.Title, echo.Map{
		"Movie":   movie,
		"Reviews": reviews,
	})
}

// EditMovie updates a movie's fields and optionally replaces its
// poster. With no file attached the stored image_path is untouched.
// When the poster is replaced, the old file is removed only after the
// row update committed, and only best-effort.
func (h *MovieHandler) EditMovie(c echo.Context) error {
	idParam := c.Param("id")
	detail := "/movie/" + idParam
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		session.Flash(c, "error", "Movie not found")
		return c.Redirect(http.StatusSeeOther, detail)
	}

	fields, ok := movieFieldsFromForm(c)
	if !ok {
		session.Flash(c, "error", "All fields are required")
		return c.Redirect(http.StatusSeeOther, detail)
	}

	// The poster is optional on edit: FormFile failing means the form
	// was submitted without a file, which keeps the current one.
	newRef := ""
	if fh, err := c.FormFile("image"); err == nil && fh.Filename != "" {
		newRef, err = h.Assets.Save(fh)
		if err != nil {
			if err == assets.ErrBadFileType {
				session.Flash(c, "error", "Only png, jpg, jpeg and gif images are allowed")
			} else {
				c.Logger().Errorf("edit movie %d: save poster: %v", id, err)
				session.Flash(c, "error", "Something went wrong, try again")
			}
			return c.Redirect(http.StatusSeeOther, detail)
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	oldRef, err := h.Movies.Update(ctx, id, fields, newRef)
	if err != nil {
		if newRef != "" {
			h.Assets.Remove(newRef)
		}
		if err == repository.ErrMovieNotFound {
			session.Flash(c, "error", "Movie not found")
			return c.Redirect(http.StatusSeeOther, detail)
		}
		c.Logger().Errorf("edit movie %d: update: %v", id, err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, detail)
	}
	if oldRef != "" {
		h.Assets.Remove(oldRef)
	}

	session.Flash(c, "success", "Movie updated")
	return c.Redirect(http.StatusSeeOther, detail)
}

// DeleteMovie removes the row, then its poster file. A missing id is
// flashed and redirected without touching the filesystem.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		session.Flash(c, "error", "Movie not found")
		return c.Redirect(http.StatusSeeOther, "/movie/"+idParam)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	oldRef, err := h.Movies.Delete(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			session.Flash(c, "error", "Movie not found")
			return c.Redirect(http.StatusSeeOther, "/movie/"+idParam)
		}
		c.Logger().Errorf("delete movie %d: %v", id, err)
		session.Flash(c, "error", "Something went wrong, try again")
		return c.Redirect(http.StatusSeeOther, "/movie/"+idParam)
	}
	h.Assets.Remove(oldRef)

	session.Flash(c, "success", "Movie deleted")
	return c.Redirect(http.StatusSeeOther, "/")
}

// movieFieldsFromForm reads and validates the shared create/edit form
// fields. The boolean is false when a required field is missing or the
// year does not parse.
func movieFieldsFromForm(c echo.Context) (repository.MovieFields, bool) {
	f := repository.MovieFields{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Director:    strings.TrimSpace(c.FormValue("director")),
	}
	year, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("year")), 10, 16)
	if err != nil {
		return f, false
	}
	f.ReleaseYear = uint16(year)
	if f.Title == "" || f.Description == "" || f.Director == "" {
		return f, false
	}
	return f, true
}
