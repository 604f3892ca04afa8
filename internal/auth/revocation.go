package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore remembers signed-out session ids until they expire.
// *redissvc.RedisService implements it for multi-instance deployments.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type MemoryRevocations struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{until: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, sessionID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.until[sessionID] = until
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.until[sessionID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.until, sessionID)
		return false, nil
	}
	return true, nil
}
