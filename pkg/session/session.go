// Package session keeps the signed-in user between CLI invocations.
//
// Two Store implementations exist:
//   - MemoryStore: in-process storage for tests and embedding
//   - FileStore: one JSON file per session under ~/.config/deckview/sessions/
//
// [CLIStore] wraps a FileStore with the single well-known session the CLI
// uses.
//
//	sess := session.New(user, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if sess == nil {
//	    // not signed in, or the session expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/deckview/pkg/auth"
	"github.com/matzehuels/deckview/pkg/errors"
)

// ErrNotFound is returned by Store.Delete when the session does not exist.
// It carries [errors.ErrCodeNotFound].
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "session not found")

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores the signed-in user.
type Session struct {
	ID        string     `json:"id"`
	User      *auth.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UserID returns "google:{sub}", the identifier used to scope cache keys.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return "google:" + s.User.Subject
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)
	Set(ctx context.Context, session *Session) error
	// Delete returns ErrNotFound if the session doesn't exist.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// New creates a session for user with a random UUID.
func New(user *auth.User, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// MockLocal creates the session used with --no-auth.
func MockLocal() *Session {
	now := time.Now()
	return &Session{
		ID: "local-session",
		User: &auth.User{
			Subject: "local",
			Name:    "Local User",
		},
		ExpiresAt: now.Add(365 * 24 * time.Hour),
		CreatedAt: now,
	}
}
