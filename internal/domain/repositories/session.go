package repositories

import "context"

// Session keys shared by the login flow and the route guard.
// They are always cleared together.
const (
	SessionKeyToken      = "token"
	SessionKeyUserName   = "userName"
	SessionKeyUserRole   = "userRole"
	SessionKeyNavigation = "navigation" // documentation screen selection state
)

// SessionStore is a per-session key-value store.
// Implementations must be safe for concurrent use.
type SessionStore interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, sessionID, key, value string) error

	// Clear removes every key of the session.
	Clear(ctx context.Context, sessionID string) error
}

// SessionSweeper is implemented by stores whose sessions lapse after a TTL.
type SessionSweeper interface {
	// DeleteExpired removes lapsed sessions and reports how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
