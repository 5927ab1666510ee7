package memory

import (
	"context"
	"sync"
	"time"

	"portal/internal/domain/repositories"
)

type session struct {
	values    map[string]string
	updatedAt time.Time
}

// SessionStore keeps sessions in process memory.
// Sessions are lost on restart, which suits single-instance deployments and tests.
// A session lapses ttl after its last write; ttl <= 0 keeps sessions until cleared.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

var (
	_ repositories.SessionStore   = (*SessionStore)(nil)
	_ repositories.SessionSweeper = (*SessionStore)(nil)
)

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, s.now()) {
		return "", false, nil
	}
	value, ok := sess.values[key]
	return value, ok, nil
}

// Set stores value and refreshes the session's lifetime. Writing to a lapsed
// session starts it over empty.
func (s *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, now) {
		sess = &session{values: make(map[string]string)}
		s.sessions[sessionID] = sess
	}
	sess.values[key] = value
	sess.updatedAt = now
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// DeleteExpired drops every lapsed session.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, lapsed ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.updatedAt) >= s.ttl
}
