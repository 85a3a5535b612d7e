// Package memory stores result records in-memory for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/store"
)

// Store keeps records in a map keyed by their object key.
type Store struct {
	mu      sync.RWMutex
	records map[string]scout.ResultRecord
}

// NewStore creates a new in-memory result store.
func NewStore() *Store {
	return &Store{records: make(map[string]scout.ResultRecord)}
}

// Save keeps the record in memory and returns a pseudo URI. Saving the same
// entity twice keeps only the latest record.
func (s *Store) Save(_ context.Context, record scout.ResultRecord) (string, error) {
	if record.Entity.Name == "" {
		return "", fmt.Errorf("entity name is required")
	}
	key := store.ObjectKey(record.Entity.Name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
	return fmt.Sprintf("memory://%s", key), nil
}

// Get returns the stored record for an entity name, if any.
func (s *Store) Get(entityName string) (scout.ResultRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[store.ObjectKey(entityName)]
	return record, ok
}

// Len reports how many records are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
