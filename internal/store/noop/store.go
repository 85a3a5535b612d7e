// Package noop discards result records. Useful for dry runs.
package noop

import (
	"context"
	"fmt"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/store"
)

// Store accepts every record and writes nothing.
type Store struct{}

// NewStore creates a no-op result store.
func NewStore() *Store {
	return &Store{}
}

// Save returns a pseudo URI without persisting anything.
func (s *Store) Save(_ context.Context, record scout.ResultRecord) (string, error) {
	if record.Entity.Name == "" {
		return "", fmt.Errorf("entity name is required")
	}
	return fmt.Sprintf("noop://%s", store.ObjectKey(record.Entity.Name)), nil
}
