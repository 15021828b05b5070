package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a flashcard does not exist
	ErrNotFound = errors.New("flashcard not found")

	// ErrConflict is returned when a write violates a uniqueness constraint,
	// such as a second practice record for the same card and timestamp
	ErrConflict = errors.New("conflicting record already exists")

	// ErrUnavailable is returned when the database cannot be reached
	ErrUnavailable = errors.New("database unreachable")

	// ErrMalformedRow is returned when a stored flashcard is missing a required field
	ErrMalformedRow = errors.New("malformed flashcard row")

	// ErrInvalidTimestamp is returned for negative practice timestamps
	ErrInvalidTimestamp = errors.New("timestamp must not be negative")
)

// isUniqueViolation reports whether err comes from a UNIQUE constraint
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
