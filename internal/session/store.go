package session

import (
	"context"
	"time"

	"github.com/server-craftsman/manage-post/internal/models"
)

// Record is the persisted copy of an authenticated session. It carries
// a full snapshot of the user, mirroring what the store holds, so that
// "current user" reads never need a remote round trip.
type Record struct {
	SessionID string      // unique session identifier
	User      models.User // snapshot of the remote user record
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how session records are persisted. Every write is a
// whole-record replacement under a single key, so concurrent writers
// resolve to last-writer-wins at record granularity.
type Store interface {
	Create(ctx context.Context, r Record) error
	Get(ctx context.Context, sessionID string) (*Record, error)
	Update(ctx context.Context, r Record) error
	Delete(ctx context.Context, sessionID string) error
}
