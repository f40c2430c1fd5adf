package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/claimdesk/claimflow/claim"
)

// Repo owns session lifecycle. Sessions are created lazily on first
// contact, live in process memory for the process lifetime (no expiry),
// and are reinitialized in place on reset. Handles are never reused.
type Repo struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRepo() *Repo {
	return &Repo{sessions: make(map[string]*Session)}
}

// Get returns the session for a handle, if it exists.
func (r *Repo) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Create mints a new session with a fresh handle in the initial state.
func (r *Repo) Create() *Session {
	s := &Session{
		ID:    uuid.NewString(),
		State: StateAwaitingPolicyNumber,
		Draft: claim.NewRecord(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// GetOrCreate resolves a handle, minting a session when the handle is
// empty or unknown.
func (r *Repo) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := r.Get(id); ok {
			return s
		}
	}
	return r.Create()
}

// Reset reinitializes the session for a handle, if it exists.
func (r *Repo) Reset(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Reset()
	return true
}
