// Package chirp holds the domain types and store contracts for the feed
// backend: users, follow edges, tweets, and the errors the stores report.
package chirp

import "errors"

// MaxTweetLength is the hard cap on a tweet's text, counted in Unicode
// characters rather than bytes.
const MaxTweetLength = 300

var (
	// ErrNotFound is returned when a lookup misses.
	ErrNotFound = errors.New("resource not found")

	// ErrUnknownUser is returned when an operation references a user ID
	// that was never registered.
	ErrUnknownUser = errors.New("user does not exist")

	// ErrTextTooLong is returned when a tweet exceeds [MaxTweetLength].
	ErrTextTooLong = errors.New("tweet text too long")

	// ErrInvalidInput is returned when a request is missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// UserID identifies a registered user. IDs are assigned sequentially
// starting at 1 and never reused.
type UserID int64
