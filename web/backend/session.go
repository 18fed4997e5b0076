package backend

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressUpdate represents a status update during processing
type ProgressUpdate struct {
	Type    string `json:"type"` // "info", "progress", "error", "complete"
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	UpdateInfo     = "info"
	UpdateProgress = "progress"
	UpdateError    = "error"
	UpdateComplete = "complete"
)

// Session is one queued batch run. Progress is written by the worker only
// and closed by it when the run ends or is skipped.
type Session struct {
	ID        string
	Progress  chan ProgressUpdate
	Ctx       context.Context
	CancelFn  context.CancelFunc
	CreatedAt time.Time

	closeOnce sync.Once
}

func (s *Session) send(u ProgressUpdate) {
	select {
	case s.Progress <- u:
	case <-s.Ctx.Done():
	}
}

func (s *Session) finish() {
	s.closeOnce.Do(func() { close(s.Progress) })
}

// SessionManager handles concurrent client sessions, one per client.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession starts a session for clientID, cancelling the client's
// previous one. buffer sizes the progress channel.
func (sm *SessionManager) CreateSession(clientID string, buffer int) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if existing, ok := sm.sessions[clientID]; ok {
		existing.CancelFn()
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &Session{
		ID:        uuid.New().String(),
		Progress:  make(chan ProgressUpdate, buffer),
		Ctx:       ctx,
		CancelFn:  cancel,
		CreatedAt: time.Now(),
	}
	sm.sessions[clientID] = session
	return session
}

// GetSessionByID finds a session by its session ID (not the clientID).
func (sm *SessionManager) GetSessionByID(sessionID string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, session := range sm.sessions {
		if session != nil && session.ID == sessionID {
			return session, true
		}
	}
	return nil, false
}

// RemoveBySessionID cancels and forgets the session with the given ID.
func (sm *SessionManager) RemoveBySessionID(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for clientID, session := range sm.sessions {
		if session != nil && session.ID == sessionID {
			session.CancelFn()
			delete(sm.sessions, clientID)
			return true
		}
	}
	return false
}

// CleanupStale removes sessions older than maxAge.
func (sm *SessionManager) CleanupStale(maxAge time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	for clientID, session := range sm.sessions {
		if now.Sub(session.CreatedAt) > maxAge {
			session.CancelFn()
			delete(sm.sessions, clientID)
		}
	}
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
