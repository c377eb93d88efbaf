package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted because these structs are
// used internally by the repository layer; handlers pass values
// into templates rather than serializing rows directly.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name, stored case-sensitively.
//  PasswordHash – bcrypt hashed password; never the plaintext.
//  Admin        – whether the user may manage the movie catalog.
//  CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Admin        bool      // users.admin
	CreatedAt    time.Time // users.created_at
}
