package session

import (
	"context"
	"time"
)

// TTL is the lifetime of a session, both in the store and in the cookie.
const TTL = 24 * time.Hour

// Session maps a client-held cookie to a Mastodon access token and the
// home server it belongs to. It holds no identity of its own; the remote
// server is the source of truth for who the token represents.
type Session struct {
	SessionID string // opaque cookie value (uuid URN)
	Token     string // Mastodon access token
	Domain    string // home server, e.g. "hachyderm.io"
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
// Get returns (nil, nil) for an unknown or expired session.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
