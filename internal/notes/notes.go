// Package notes keeps one free-text note per recipe name.
package notes

import (
	"context"
	"fmt"

	"github.com/five82/shaker/internal/kv"
)

// Namespace is the kv namespace notes live in.
const Namespace = "notes"

const keyPrefix = "note_"

// Store reads and writes recipe notes.
type Store struct {
	ns kv.Namespace
}

// New returns a Store backed by ns.
func New(ns kv.Namespace) *Store {
	return &Store{ns: ns}
}

// Key returns the storage key for a recipe's note.
func Key(name string) string {
	return keyPrefix + name
}

// Get returns the note for name, or "" when none was saved.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	text, _, err := s.ns.Get(ctx, Key(name))
	if err != nil {
		return "", fmt.Errorf("get note %q: %w", name, err)
	}
	return text, nil
}

// Set stores text as the note for name. Empty text is stored as-is.
func (s *Store) Set(ctx context.Context, name, text string) error {
	if err := s.ns.Put(ctx, Key(name), text); err != nil {
		return fmt.Errorf("set note %q: %w", name, err)
	}
	return nil
}

// Delete removes the note for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.ns.Delete(ctx, Key(name)); err != nil {
		return fmt.Errorf("delete note %q: %w", name, err)
	}
	return nil
}
