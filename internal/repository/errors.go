// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrMovieNotFound indicates that an edit or delete targets
// a movie that does not exist, while ErrUsernameExists signals that
// a registration collided with an existing account.
package repository

import "errors"

// ErrUsernameExists is returned when an INSERT into users violates the
// unique username key. Registration handlers should translate this
// into a distinct "Username already exists" flash message.
var ErrUsernameExists = errors.New("username already exists")

// ErrMovieNotFound is returned when a lookup, update or delete targets
// a movie id that has no row. Handlers translate this into a
// "not found" flash and a redirect.
var ErrMovieNotFound = errors.New("movie not found")

// ErrRatingOutOfRange is returned when a review rating falls outside
// the accepted 1..5 range. The range is enforced here so no caller
// can insert an unbounded rating.
var ErrRatingOutOfRange = errors.New("rating out of range")
