// Package kv provides flat, namespaced key-value storage for locally
// persisted user data (favorites, notes).
//
// Each namespace is an independent string-to-string mapping. Handles carry
// their own lock so reads observe preceding writes made through the same
// handle, even when the UI and a background loader touch it concurrently.
package kv

import (
	"context"
	"errors"
	"strings"
)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Namespace is a flat key-value mapping scoped to one feature.
type Namespace interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put creates or overwrites key.
	Put(ctx context.Context, key, value string) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Has reports whether key exists.
	Has(ctx context.Context, key string) (bool, error)
	// All returns every entry ordered by key.
	All(ctx context.Context) ([]Entry, error)
	// Clear removes every entry in the namespace.
	Clear(ctx context.Context) error
}

// Opener hands out namespace handles.
type Opener interface {
	Namespace(name string) Namespace
}

// ErrEmptyKey is returned when a blank key is written.
var ErrEmptyKey = errors.New("kv: empty key")

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
