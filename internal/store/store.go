// Package store provides session persistence interfaces and implementations.
package store

import (
	"fmt"
	"sync"
	"time"

	"tickerdash/internal/config"
)

// SessionStore wraps the single persisted bearer token.
// Validity is never tracked here; only the backend decides that.
type SessionStore interface {
	// Get returns the token and whether one is present.
	Get() (string, bool, error)
	Set(token string) error
	Clear() error
}

// SyncRecorder remembers when each dashboard variant last loaded successfully.
type SyncRecorder interface {
	GetLastSync(variant string) time.Time
	SetLastSync(variant string, t time.Time) error
}

// DataStore is a SessionStore with sync bookkeeping and a lifecycle.
type DataStore interface {
	SessionStore
	SyncRecorder
	Close() error
}

// Open returns the DataStore selected by cfg.Session.Backend.
func Open(cfg *config.Config) (DataStore, error) {
	switch cfg.Session.Backend {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SessionPath())
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile, "":
		return NewFileStore(cfg.SessionPath()), nil
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Session.Backend)
	}
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	mu        sync.RWMutex
	token     string
	syncTimes map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{syncTimes: make(map[string]time.Time)}
}

// NewMemoryStoreWithToken creates an in-memory store holding token.
func NewMemoryStoreWithToken(token string) *MemoryStore {
	s := NewMemoryStore()
	s.token = token
	return s
}

// Get implements SessionStore.
func (s *MemoryStore) Get() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != "", nil
}

// Set implements SessionStore.
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear implements SessionStore.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// GetLastSync implements SyncRecorder.
func (s *MemoryStore) GetLastSync(variant string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncTimes[variant]
}

// SetLastSync implements SyncRecorder.
func (s *MemoryStore) SetLastSync(variant string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncTimes[variant] = t
	return nil
}

// Close implements DataStore.
func (s *MemoryStore) Close() error {
	return nil
}
