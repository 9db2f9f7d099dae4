// ABOUTME: Key-value persistence port shared by every storage driver.
// ABOUTME: Slot binds a store to one fixed key for whole-collection saves.

package kv

import (
	"errors"
	"fmt"
)

const (
	// RecordsKey holds the whole prompt collection as one JSON array.
	RecordsKey = "prompt-library:v1"

	// ThemeKey holds the UI theme, independent of record data.
	ThemeKey = "prompt-library:theme"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is durable key -> bytes storage.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Slot is a Store addressed by a single fixed key.
type Slot struct {
	store Store
	key   string
}

// NewSlot binds store to key.
func NewSlot(store Store, key string) *Slot {
	return &Slot{store: store, key: key}
}

// Key returns the bound key.
func (s *Slot) Key() string {
	return s.key
}

// Load returns the stored bytes, or nil with no error when the key is absent.
func (s *Slot) Load() ([]byte, error) {
	data, err := s.store.Get(s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.key, err)
	}
	return data, nil
}

// Save overwrites the bound key.
func (s *Slot) Save(data []byte) error {
	if err := s.store.Set(s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}
