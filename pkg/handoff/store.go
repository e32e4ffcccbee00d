package handoff

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// entry is what a session handed over: decoded extras, or the error hit while decoding.
type entry struct {
	extras   Extras
	err      error
	issuedAt time.Time
}

// Store keeps the hand-offs received per host session and tracks which one is active.
// It implements Source for the active session.
//
// A new session becomes active unless both it and the active session carry an issued_at
// time and the new one is older. Without timestamps the latest arrival wins, so hosts
// should clear finished sessions.
type Store struct {
	sessions cmap.ConcurrentMap[string, entry]
	gate     *VersionGate

	mu     sync.RWMutex
	active string
}

// NewStore creates an empty Store. gate may be nil.
func NewStore(gate *VersionGate) *Store {
	return &Store{
		sessions: cmap.New[entry](),
		gate:     gate,
	}
}

// Put records extras for sessionID and reports whether it became the active session.
func (s *Store) Put(sessionID string, extras Extras) bool {
	e := entry{extras: extras, issuedAt: extras.IssuedAt()}
	s.sessions.Set(sessionID, e)
	return s.activate(sessionID, e.issuedAt)
}

// PutError records that the hand-off of sessionID could not be read and makes the
// session active, so the failure is visible to the resolver.
func (s *Store) PutError(sessionID string, err error) bool {
	s.sessions.Set(sessionID, entry{err: err})
	return s.activate(sessionID, time.Time{})
}

// Remove drops sessionID. If it was active, no session remains active.
func (s *Store) Remove(sessionID string) {
	s.sessions.Remove(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == sessionID {
		s.active = ""
	}
}

// ActiveSession returns the active session ID, or "" when none is active.
func (s *Store) ActiveSession() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Count returns the number of sessions held.
func (s *Store) Count() int {
	return s.sessions.Count()
}

func (s *Store) activate(sessionID string, issuedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != "" && s.active != sessionID && !issuedAt.IsZero() {
		if cur, ok := s.sessions.Get(s.active); ok && issuedAt.Before(cur.issuedAt) {
			return false
		}
	}
	s.active = sessionID
	return true
}

// HasActiveHandle reports whether a session is active.
func (s *Store) HasActiveHandle() bool {
	return s.ActiveSession() != ""
}

// GetDataObject returns the extras of the active session.
func (s *Store) GetDataObject() (DataObject, error) {
	id := s.ActiveSession()
	if id == "" {
		return nil, ErrNoActiveHandle
	}

	e, ok := s.sessions.Get(id)
	if !ok || (e.err == nil && e.extras == nil) {
		return nil, ErrNoDataObject
	}
	if e.err != nil {
		return nil, e.err
	}
	if err := s.gate.Check(e.extras); err != nil {
		return nil, err
	}
	return e.extras, nil
}
