package repository

import (
	"context"
	"strings"

	"github.com/reelworthy/movie-review/internal/model"
)

// SearchByTitle returns movies whose title contains the given substring,
// newest release first. Matching is case-insensitive for ASCII input.
// The pattern is always bound as a query parameter; user input never
// reaches the SQL text itself.
func (r *MovieRepo) SearchByTitle(ctx context.Context, substring string) ([]model.RatedMovie, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(substring))) + "%"
	return r.listRated(ctx,
		"SELECT "+ratedColumns+` FROM ratings_and_movies
		WHERE LOWER(title) LIKE ? ESCAPE '\\'
		ORDER BY release_year DESC`, pattern)
}

// escapeLike neutralizes LIKE metacharacters so a search for "100%"
// matches the literal text instead of acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
