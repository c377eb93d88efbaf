package model

import (
	"database/sql"
	"time"
)

// Movie mirrors a row of the `movies` table. The ImagePath field
// holds a root-relative reference to the poster file under the
// upload directory (e.g. "uploads/1700000000_poster.png"); the
// file itself is owned by the assets store.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title shown in listings and search.
//  Description – free-form synopsis text.
//  ImagePath   – relative poster reference under the upload root.
//  ReleaseYear – four digit release year.
//  Director    – director name.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Description string    // movies.description
	ImagePath   string    // movies.image_path
	ReleaseYear uint16    // movies.release_year
	Director    string    // movies.director
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}

// RatedMovie is a read-only projection over the ratings_and_movies
// view: a movie joined with its aggregate review data. AvgRating
// and LastReviewedAt are NULL for movies without any review, hence
// the sql.Null types.
type RatedMovie struct {
	Movie
	AvgRating      sql.NullFloat64 // ratings_and_movies.avg_rating
	ReviewCount    uint64          // ratings_and_movies.review_count
	LastReviewedAt sql.NullTime    // ratings_and_movies.last_reviewed_at
}
