package session

import (
	"sync"
	"time"
)

// Store is the in-memory conversation context store. The original storefront
// kept a bare global map with no locking and no eviction; here sessions are
// bounded by count and idle time, and each session serializes its own turns.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

// Session owns one context record. Begin/Commit bracket a turn: Begin locks
// the session and hands out a snapshot, Commit stores it back and unlocks,
// Rollback unlocks without storing.
type Session struct {
	ID string

	mu       sync.Mutex
	ctx      *Context
	lastSeen time.Time
}

// NewStore creates a session store. maxSessions <= 0 means unbounded;
// idleTTL <= 0 disables time-based eviction.
func NewStore(maxSessions int, idleTTL time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		now:         time.Now,
	}
}

// GetOrCreate returns the session for id, allocating a zero-valued context
// on first access. Eviction runs before allocation so the store never grows
// past its bound.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess
	}

	s.evictLocked(now)

	sess := &Session{
		ID:       id,
		ctx:      &Context{},
		lastSeen: now,
	}
	s.sessions[id] = sess
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops idle-expired sessions. Intended to be driven by a ticker.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	if s.idleTTL <= 0 {
		return removed
	}
	cutoff := s.now().Add(-s.idleTTL)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// evictLocked makes room for one new session: idle-expired sessions go
// first, then the least recently seen until the store is under its cap.
func (s *Store) evictLocked(now time.Time) {
	if s.idleTTL > 0 {
		cutoff := now.Add(-s.idleTTL)
		for id, sess := range s.sessions {
			if sess.lastSeen.Before(cutoff) {
				delete(s.sessions, id)
			}
		}
	}

	if s.maxSessions <= 0 {
		return
	}
	for len(s.sessions) >= s.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.lastSeen.Before(oldest) {
				oldestID = id
				oldest = sess.lastSeen
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.sessions, oldestID)
	}
}

// Begin locks the session for one turn and returns a mutable snapshot of its
// context.
func (s *Session) Begin() *Context {
	s.mu.Lock()
	return s.ctx.Clone()
}

// Commit stores the snapshot as the new context and releases the session.
func (s *Session) Commit(snap *Context) {
	s.ctx = snap
	s.mu.Unlock()
}

// Rollback releases the session without storing the snapshot.
func (s *Session) Rollback() {
	s.mu.Unlock()
}
