// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL record, along
// with its associated metadata, and any relevant error definitions.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrInvalidURL is returned when an original URL does not start with http:// or https://.
	ErrInvalidURL = errors.New("invalid url")
	// ErrTokenExists is returned when attempting to save a URL with a token that already exists.
	ErrTokenExists = errors.New("token exists")
	// ErrURLNotFound is returned when a URL with the specified token cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when a URL is resolved after its expiration time.
	ErrURLExpired = errors.New("url expired")
)

// URL represents a shortened URL record.
type URL struct {
	ID          string    // ID is the unique identifier of the record.
	Token       string    // Token is the generated identifier the short link is keyed by.
	OriginalURL string    // OriginalURL is the full URL that the token resolves to.
	ShortURL    string    // ShortURL is the public short link, derived from the base URL and the token.
	Title       *string   // Title is an optional human-readable label.
	CreatedAt   time.Time // CreatedAt is the timestamp when the record was created.
	ExpiresAt   time.Time // ExpiresAt is the timestamp after which the redirect is refused.
	ClickCount  int64     // ClickCount is the number of times the short link has been resolved.
}

// Expired reports whether the record's expiration time has passed at the given moment.
// A record whose expiration time equals the given moment counts as expired.
func (u *URL) Expired(now time.Time) bool {
	return !u.ExpiresAt.After(now)
}
