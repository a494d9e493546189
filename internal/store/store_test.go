package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tickerdash/internal/config"
)

func backends(t *testing.T) map[string]DataStore {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "tickerdash.db"))
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]DataStore{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(dir, "session.json")),
		"sqlite": sqliteStore,
	}
}

// Property: after any sequence of Set/Clear operations, Get reflects the
// last operation applied.
func TestProperty_LastWriteVisible(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	for name, s := range backends(t) {
		s := s
		properties := gopter.NewProperties(parameters)
		properties.Property(name+": Get returns the last Set token unless cleared", prop.ForAll(
			func(tokens []string, clearLast bool) bool {
				var want string
				for _, tok := range tokens {
					if err := s.Set(tok); err != nil {
						t.Logf("Set: %v", err)
						return false
					}
					want = tok
				}
				if clearLast {
					if err := s.Clear(); err != nil {
						t.Logf("Clear: %v", err)
						return false
					}
					want = ""
				}
				got, ok, err := s.Get()
				if err != nil {
					return false
				}
				return got == want && ok == (want != "")
			},
			gen.SliceOf(gen.Identifier()),
			gen.Bool(),
		))
		properties.TestingRun(t)
	}
}

func TestGetOnEmptyStore(t *testing.T) {
	for name, s := range backends(t) {
		tok, ok, err := s.Get()
		if err != nil || ok || tok != "" {
			t.Errorf("%s: Get() = %q, %v, %v on empty store", name, tok, ok, err)
		}
		if err := s.Clear(); err != nil {
			t.Errorf("%s: Clear on empty store: %v", name, err)
		}
	}
}

func TestSyncTimes(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range backends(t) {
		if !s.GetLastSync("news").IsZero() {
			t.Errorf("%s: expected zero last sync", name)
		}
		if err := s.SetLastSync("news", at); err != nil {
			t.Fatalf("%s: SetLastSync: %v", name, err)
		}
		if got := s.GetLastSync("news"); !got.Equal(at) {
			t.Errorf("%s: GetLastSync = %v, want %v", name, got, at)
		}
		if !s.GetLastSync("simple").IsZero() {
			t.Errorf("%s: variants must be tracked separately", name)
		}
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStore(path)
	if err := s.Set("abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("session file mode = %v, want 0600", info.Mode().Perm())
	}

	// A fresh store over the same path sees the persisted token.
	tok, ok, err := NewFileStore(path).Get()
	if err != nil || !ok || tok != "abc" {
		t.Errorf("reopened Get() = %q, %v, %v", tok, ok, err)
	}
}

func TestFileStoreRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, _, err := s.Get(); err == nil {
		t.Error("expected decode error")
	}
	if err := s.Set("fresh"); err != nil {
		t.Fatalf("Set over corrupt file: %v", err)
	}
	if tok, ok, _ := s.Get(); !ok || tok != "fresh" {
		t.Errorf("Get() = %q, %v", tok, ok)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cases := map[string]string{
		config.BackendFile:   "*store.FileStore",
		config.BackendSQLite: "*store.SQLiteStore",
		config.BackendMemory: "*store.MemoryStore",
	}
	for backend, want := range cases {
		cfg := config.Default()
		cfg.Dir = t.TempDir()
		cfg.Session.Backend = backend
		s, err := Open(cfg)
		if err != nil {
			t.Fatalf("Open(%s): %v", backend, err)
		}
		var got string
		switch s.(type) {
		case *FileStore:
			got = "*store.FileStore"
		case *SQLiteStore:
			got = "*store.SQLiteStore"
		case *MemoryStore:
			got = "*store.MemoryStore"
		}
		if got != want {
			t.Errorf("Open(%s) = %s, want %s", backend, got, want)
		}
		s.Close()
	}

	cfg := config.Default()
	cfg.Session.Backend = "redis"
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickerdash.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Set("tok-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("tok-2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.SetLastSync("simple", at); err != nil {
		t.Fatalf("SetLastSync: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if tok, ok, err := s.Get(); err != nil || !ok || tok != "tok-2" {
		t.Errorf("Get = %q, %v, %v", tok, ok, err)
	}
	if got := s.GetLastSync("simple"); !got.Equal(at) {
		t.Errorf("GetLastSync = %v, want %v", got, at)
	}
}
