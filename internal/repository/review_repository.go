package repository

import (
	"context"
	"database/sql"

	"github.com/reelworthy/movie-review/internal/model"
)

// Rating bounds accepted on insert. The valid range is a policy of this
// application, not the database: the column is an unsigned tinyint.
const (
	MinRating = 1
	MaxRating = 5
)

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review and returns its ID. Ratings outside
// MinRating..MaxRating are rejected with ErrRatingOutOfRange before
// anything is written. created_at is assigned by the database.
func (r *ReviewRepo) Create(ctx context.Context, userID, movieID uint64, rating int, text string) (uint64, error) {
	if rating < MinRating || rating > MaxRating {
		return 0, ErrRatingOutOfRange
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (user_id, movie_id, rating, description) VALUES (?,?,?,?)",
		userID, movieID, rating, text)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListForMovie returns a movie's reviews with author usernames,
// newest first.
func (r *ReviewRepo) ListForMovie(ctx context.Context, movieID uint64) ([]model.ReviewWithAuthor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.movie_id, r.rating, r.description, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = ?
		ORDER BY r.created_at DESC`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ReviewWithAuthor{}
	for rows.Next() {
		var rv model.ReviewWithAuthor
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.MovieID, &rv.Rating,
			&rv.Description, &rv.CreatedAt, &rv.Username); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
