package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps session records in process memory. Used for tests
// and for running without Redis; records do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Create(ctx context.Context, rec Record) error {
	if rec.SessionID == "" || rec.User.ID == "" {
		return fmt.Errorf("session: missing session_id or user id")
	}
	if !rec.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.SessionID] = rec
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.records[sessionID]
	m.mu.RUnlock()

	if !ok || time.Now().After(rec.ExpiresAt) {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Update(ctx context.Context, rec Record) error {
	if rec.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Now().After(rec.ExpiresAt) {
		delete(m.records, rec.SessionID)
		return nil
	}
	m.records[rec.SessionID] = rec
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}
