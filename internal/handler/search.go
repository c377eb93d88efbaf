package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Search renders movies whose title contains the submitted substring,
// newest release first. No matches is an empty results page, not an
// error.
func (h *MovieHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.FormValue("search"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	results, err := h.Movies.SearchByTitle(ctx, query)
	if err != nil {
		c.Logger().Errorf("search %q: %v", query, err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	return render(c, http.StatusOK, "search_results.html", "Search", echo.Map{
		"Query":   query,
		"Results": results,
	})
}
