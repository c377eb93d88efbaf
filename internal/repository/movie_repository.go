package repository

import (
	"context"
	"database/sql"

	"github.com/reelworthy/movie-review/internal/model"
)

type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// MovieFields carries the editable columns of a movie. The poster
// reference is passed separately because it follows a different
// lifecycle (written by the assets store, optional on update).
type MovieFields struct {
	Title       string
	Description string
	ReleaseYear uint16
	Director    string
}

const ratedColumns = `id,title,description,image_path,release_year,director,
	created_at,updated_at,avg_rating,review_count,last_reviewed_at`

// Create inserts a movie row and returns its ID.
func (r *MovieRepo) Create(ctx context.Context, f MovieFields, imagePath string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, description, image_path, release_year, director) VALUES (?,?,?,?,?)",
		f.Title, f.Description, imagePath, f.ReleaseYear, f.Director)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetRated fetches a movie together with its aggregate review data
// from the ratings_and_movies view.
func (r *MovieRepo) GetRated(ctx context.Context, id uint64) (model.RatedMovie, error) {
	var m model.RatedMovie
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+ratedColumns+" FROM ratings_and_movies WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Title, &m.Description, &m.ImagePath, &m.ReleaseYear,
		&m.Director, &m.CreatedAt, &m.UpdatedAt, &m.AvgRating, &m.ReviewCount,
		&m.LastReviewedAt)
	if err == sql.ErrNoRows {
		return m, ErrMovieNotFound
	}
	return m, err
}

// Update rewrites the editable fields of a movie. When newImagePath is
// empty the stored image_path is left untouched and oldImagePath comes
// back empty; otherwise the previous reference is returned so the
// caller can remove the orphaned file after the row is committed.
func (r *MovieRepo) Update(ctx context.Context, id uint64, f MovieFields, newImagePath string) (oldImagePath string, err error) {
	var current string
	err = r.DB.QueryRowContext(ctx,
		"SELECT image_path FROM movies WHERE id=? LIMIT 1", id).Scan(&current)
	if err == sql.ErrNoRows {
		return "", ErrMovieNotFound
	}
	if err != nil {
		return "", err
	}

	if newImagePath == "" {
		_, err = r.DB.ExecContext(ctx,
			"UPDATE movies SET title=?, description=?, release_year=?, director=? WHERE id=?",
			f.Title, f.Description, f.ReleaseYear, f.Director, id)
		return "", err
	}

	_, err = r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, description=?, release_year=?, director=?, image_path=? WHERE id=?",
		f.Title, f.Description, f.ReleaseYear, f.Director, newImagePath, id)
	if err != nil {
		return "", err
	}
	return current, nil
}

// Delete removes a movie row and returns the poster reference that was
// stored on it. Reviews cascade in the database; the poster file is
// the caller's to remove, best-effort, after the row is gone.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (oldImagePath string, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT image_path FROM movies WHERE id=? LIMIT 1", id).Scan(&oldImagePath)
	if err == sql.ErrNoRows {
		return "", ErrMovieNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id); err != nil {
		return "", err
	}
	return oldImagePath, nil
}

// ListRecent returns the newest movies with their rating aggregates.
func (r *MovieRepo) ListRecent(ctx context.Context, limit int) ([]model.RatedMovie, error) {
	return r.listRated(ctx,
		"SELECT "+ratedColumns+" FROM ratings_and_movies ORDER BY created_at DESC LIMIT ?", limit)
}

// ListTopRated returns movies ordered by average rating, best first.
// Unreviewed movies sort last.
func (r *MovieRepo) ListTopRated(ctx context.Context, limit int) ([]model.RatedMovie, error) {
	return r.listRated(ctx,
		"SELECT "+ratedColumns+" FROM ratings_and_movies ORDER BY avg_rating IS NULL, avg_rating DESC LIMIT ?", limit)
}

func (r *MovieRepo) listRated(ctx context.Context, query string, args ...any) ([]model.RatedMovie, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RatedMovie{}
	for rows.Next() {
		var m model.RatedMovie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ImagePath,
			&m.ReleaseYear, &m.Director, &m.CreatedAt, &m.UpdatedAt,
			&m.AvgRating, &m.ReviewCount, &m.LastReviewedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
