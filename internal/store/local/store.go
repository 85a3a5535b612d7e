// Package local implements a local filesystem result store.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/store"
)

// Config captures the parameters for the local filesystem store.
type Config struct {
	// BaseDir is the root directory where records will be written.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// Store writes one JSON file per entity under a base directory.
type Store struct {
	baseDir string
}

// New creates a local filesystem-backed result store.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
			}
		} else {
			return nil, fmt.Errorf("failed to stat base directory: %w", err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	// Check for write permissions.
	testFile := filepath.Join(cfg.BaseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &Store{baseDir: cfg.BaseDir}, nil
}

// Save writes the record as pretty-printed JSON and returns a file:// URI.
// Saving the same entity twice overwrites the earlier file.
func (s *Store) Save(_ context.Context, record scout.ResultRecord) (string, error) {
	if record.Entity.Name == "" {
		return "", fmt.Errorf("entity name is required")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	fullPath := filepath.Join(s.baseDir, store.ObjectKey(record.Entity.Name))
	if err := os.WriteFile(fullPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return fmt.Sprintf("file://%s", fullPath), nil
}
