// Package session keeps server-side login sessions. A session maps an opaque
// random id, carried in a signed cookie, to a user id.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store persists session id -> user id with a time to live.
type Store interface {
	Save(ctx context.Context, id string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, id string) (int64, error)
	Close() error
}
