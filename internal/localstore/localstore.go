// Package localstore persists the full entry collection on disk as a
// single JSON array. Every write serializes the whole collection;
// corruption or absence reads as an empty collection.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/model"
)

const entriesFile = "entries.json"

// Store is the durable local collection. All operations are
// synchronous and never touch the network.
type Store struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// New constructs a Store rooted at dir.
func New(dir string, log *zap.Logger) *Store {
	return &Store{path: filepath.Join(dir, entriesFile), log: log}
}

// Save replaces any existing entry with the same id and prepends the
// new version. The collection is kept ordered descending by date.
func (s *Store) Save(e model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.readLocked()
	filtered := make([]model.Entry, 0, len(existing)+1)
	filtered = append(filtered, e)
	for _, old := range existing {
		if old.ID != e.ID {
			filtered = append(filtered, old)
		}
	}
	return s.writeLocked(filtered)
}

// All returns the collection ordered descending by date.
func (s *Store) All() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Replace swaps the whole collection, used by background reconciliation
// when the remote store is the source of truth.
func (s *Store) Replace(entries []model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(append([]model.Entry(nil), entries...))
}

// Clear wipes the collection (manual reset path).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) readLocked() []model.Entry {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("local store unreadable, treating as empty", zap.Error(err))
		}
		return nil
	}
	var entries []model.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		s.log.Warn("local store corrupt, treating as empty", zap.Error(err))
		return nil
	}
	sortByDateDesc(entries)
	return entries
}

func (s *Store) writeLocked(entries []model.Entry) error {
	sortByDateDesc(entries)
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func sortByDateDesc(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}
