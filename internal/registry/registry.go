// Package registry persists the set of tools rigup has installed.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Tool records one installed release binary.
type Tool struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Path        string    `json:"path"`
	Digest      string    `json:"digest,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// Store is the on-disk registry of installed tools.
type Store struct {
	Tools []Tool `json:"tools"`
}

// Load reads the registry at path. A missing or empty file yields an
// empty store.
func Load(path string) (Store, error) {
	var store Store

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("read registry: %w", err)
	}

	if len(data) == 0 {
		return store, nil
	}

	if err := json.Unmarshal(data, &store); err != nil {
		return store, fmt.Errorf("decode registry: %w", err)
	}

	return store, nil
}

// Save writes the registry to path, sorted by tool name for stable diffs.
func (s Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	sorted := append([]Tool(nil), s.Tools...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	data, err := json.MarshalIndent(Store{Tools: sorted}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	return nil
}

// Upsert replaces the entry with the same name or appends a new one.
func (s *Store) Upsert(tool Tool) {
	for i, existing := range s.Tools {
		if existing.Name == tool.Name {
			s.Tools[i] = tool
			return
		}
	}
	s.Tools = append(s.Tools, tool)
}

// GetByName returns the installed tool named name.
func (s *Store) GetByName(name string) (Tool, bool) {
	for _, tool := range s.Tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// RemoveByName deletes and returns the entry named name.
func (s *Store) RemoveByName(name string) (Tool, bool) {
	for i, tool := range s.Tools {
		if tool.Name == name {
			s.Tools = append(s.Tools[:i], s.Tools[i+1:]...)
			return tool, true
		}
	}
	return Tool{}, false
}
