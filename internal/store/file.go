package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// sessionData represents the persisted session file.
type sessionData struct {
	AccessToken string               `json:"access_token,omitempty"`
	SavedAt     time.Time            `json:"saved_at,omitempty"`
	SyncTimes   map[string]time.Time `json:"sync_times,omitempty"`
}

// FileStore persists the session as a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (sessionData, error) {
	var data sessionData
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, fmt.Errorf("reading session file: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decoding session file: %w", err)
	}
	return data, nil
}

func (s *FileStore) save(data sessionData) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Get implements SessionStore.
func (s *FileStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	return data.AccessToken, data.AccessToken != "", nil
}

// Set implements SessionStore.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		// A corrupt file must not block a fresh login.
		data = sessionData{}
	}
	data.AccessToken = token
	data.SavedAt = time.Now()
	return s.save(data)
}

// Clear implements SessionStore.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return os.Remove(s.path)
	}
	if data.AccessToken == "" {
		return nil
	}
	data.AccessToken = ""
	data.SavedAt = time.Time{}
	return s.save(data)
}

// GetLastSync implements SyncRecorder.
func (s *FileStore) GetLastSync(variant string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return time.Time{}
	}
	return data.SyncTimes[variant]
}

// SetLastSync implements SyncRecorder.
func (s *FileStore) SetLastSync(variant string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.load()
	if err != nil {
		return err
	}
	if data.SyncTimes == nil {
		data.SyncTimes = make(map[string]time.Time)
	}
	data.SyncTimes[variant] = t
	return s.save(data)
}

// Close implements DataStore.
func (s *FileStore) Close() error {
	return nil
}
