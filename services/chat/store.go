package chat

import (
	"context"
	"sync"
	"time"

	"aitana/models"
	"aitana/utils"

	"go.uber.org/zap"
)

// WindowLimit bounds the conversation log to two user/assistant pairs.
const WindowLimit = 4

// SessionStore abstracts per-visitor session state so the request handling
// logic is independent of where sessions live.
type SessionStore interface {
	// GetOrCreate returns the session for token, creating a fresh one with
	// empty memory and an empty log if none exists. The returned session is
	// a private copy; mutations become visible only through Save.
	GetOrCreate(ctx context.Context, token string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in a process-local map. Safe for
// concurrent requests across distinct tokens; requests for the same token
// are assumed sequential.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	idleTTL  time.Duration
}

// NewMemorySessionStore creates an in-memory store. idleTTL <= 0 disables
// idle eviction.
func NewMemorySessionStore(idleTTL time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		idleTTL:  idleTTL,
	}
}

func newSession(token string) *models.Session {
	return &models.Session{
		Token:      token,
		Memory:     DefaultMemory,
		LastAccess: time.Now(),
	}
}

func copySession(sess *models.Session) *models.Session {
	cp := *sess
	cp.Conversation = append([]models.ChatMessage(nil), sess.Conversation...)
	return &cp
}

func (s *MemorySessionStore) GetOrCreate(ctx context.Context, token string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		sess = newSession(token)
		s.sessions[token] = sess
	}
	sess.LastAccess = time.Now()
	return copySession(sess), nil
}

func (s *MemorySessionStore) Save(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastAccess = time.Now()
	s.sessions[sess.Token] = copySession(sess)
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// StartReaper evicts sessions idle longer than the configured TTL at the
// given interval, until ctx is cancelled. No-op when idle eviction is
// disabled.
func (s *MemorySessionStore) StartReaper(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.reapIdle(time.Now()); n > 0 {
					utils.GetLogger().Info("Reaped idle chat sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

func (s *MemorySessionStore) reapIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reaped int
	for token, sess := range s.sessions {
		if now.Sub(sess.LastAccess) > s.idleTTL {
			delete(s.sessions, token)
			reaped++
		}
	}
	return reaped
}
