// Package favorites persists the set of recipes the user starred.
//
// Each favorite is stored under its recipe name with the JSON-encoded recipe
// as the value, so the favorites screen works without network access.
// Presence of the key is the favorite flag.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/recipe"
)

// Namespace is the kv namespace favorites live in.
const Namespace = "favorites"

// Store manages favorite recipes.
type Store struct {
	ns  kv.Namespace
	log *slog.Logger
}

// New returns a Store backed by ns. A nil logger uses slog.Default.
func New(ns kv.Namespace, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{ns: ns, log: log}
}

// Add stores r, overwriting any previous snapshot under the same name.
func (s *Store) Add(ctx context.Context, r recipe.Recipe) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode favorite %q: %w", r.Name, err)
	}
	if err := s.ns.Put(ctx, r.Name, string(payload)); err != nil {
		return fmt.Errorf("add favorite %q: %w", r.Name, err)
	}
	return nil
}

// Remove deletes the favorite named name. Missing names are ignored.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := s.ns.Delete(ctx, name); err != nil {
		return fmt.Errorf("remove favorite %q: %w", name, err)
	}
	return nil
}

// IsFavorite reports whether name is stored.
func (s *Store) IsFavorite(ctx context.Context, name string) (bool, error) {
	ok, err := s.ns.Has(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check favorite %q: %w", name, err)
	}
	return ok, nil
}

// Toggle flips membership for r and returns the new state.
func (s *Store) Toggle(ctx context.Context, r recipe.Recipe) (bool, error) {
	fav, err := s.IsFavorite(ctx, r.Name)
	if err != nil {
		return false, err
	}
	if fav {
		return false, s.Remove(ctx, r.Name)
	}
	return true, s.Add(ctx, r)
}

// List returns every stored favorite sorted by name. Entries that fail to
// decode are logged and skipped.
func (s *Store) List(ctx context.Context) ([]recipe.Recipe, error) {
	entries, err := s.ns.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := make([]recipe.Recipe, 0, len(entries))
	for _, e := range entries {
		var r recipe.Recipe
		if err := json.Unmarshal([]byte(e.Value), &r); err != nil {
			s.log.Warn("skipping corrupt favorite", "name", e.Key, "error", err)
			continue
		}
		if r.Name == "" {
			r.Name = e.Key
		}
		out = append(out, r)
	}

	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out, nil
}

// Clear removes every favorite.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ns.Clear(ctx); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	return nil
}
