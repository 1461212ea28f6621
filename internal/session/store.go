// Package session binds browser sessions to authenticated subject identifiers.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when a session is unknown or has expired.
var ErrNotFound = errors.New("session not found or expired")

// Data is what a Store keeps for each session.
type Data struct {
	SubjectID string    `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists session data keyed by a hash of the session token.
// Expiry is the store's responsibility.
type Store interface {
	Save(ctx context.Context, key string, data Data, ttl time.Duration) error
	Lookup(ctx context.Context, key string) (Data, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
