package model

import "time"

// Review models an entry in the `reviews` table. Reviews are
// immutable once written: there is no edit or delete path, so the
// struct carries no UpdatedAt column.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – author of the review.
//  MovieID     – movie being reviewed.
//  Rating      – star rating, constrained to 1..5 at insert time.
//  Description – review text.
//  CreatedAt   – timestamp assigned by the database at insert.
type Review struct {
	ID          uint64    // reviews.id
	UserID      uint64    // reviews.user_id
	MovieID     uint64    // reviews.movie_id
	Rating      uint8     // reviews.rating
	Description string    // reviews.description
	CreatedAt   time.Time // reviews.created_at
}

// ReviewWithAuthor joins a review to its author's username for the
// movie detail page, where reviews are listed newest first.
type ReviewWithAuthor struct {
	Review
	Username string // users.username
}
