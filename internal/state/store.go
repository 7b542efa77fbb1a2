package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/shaker/internal/recipe"
)

// QueryKind selects which repository call produced the recipe list.
type QueryKind int

const (
	QueryRandom QueryKind = iota
	QuerySearch
	QueryIngredient
	QueryFallback
)

// Query describes a recipe list request.
type Query struct {
	Kind QueryKind
	Text string
}

// Random asks for the default random selection.
func Random() Query { return Query{Kind: QueryRandom} }

// Search asks for drinks by name.
func Search(text string) Query { return Query{Kind: QuerySearch, Text: strings.TrimSpace(text)} }

// Ingredient asks for drinks containing an ingredient.
func Ingredient(text string) Query {
	return Query{Kind: QueryIngredient, Text: strings.TrimSpace(text)}
}

// Label is a short human description of the query.
func (q Query) Label() string {
	switch q.Kind {
	case QuerySearch:
		if q.Text == "" {
			return "search: " + recipe.DefaultQuery
		}
		return "search: " + q.Text
	case QueryIngredient:
		return "ingredient: " + q.Text
	case QueryFallback:
		return "bundled recipes"
	default:
		return "random selection"
	}
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Recipes             []recipe.Recipe
	Source              recipe.Source
	Query               Query
	HasData             bool
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive loads that fell back
}

// IsOffline returns true when the API has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin marks a load for q as in flight. Previous recipes stay visible.
func (s *Store) Begin(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Query = q
	s.snapshot.Loading = true
}

// Update records the outcome of a load. A result carrying an error still
// replaces the recipe list (it holds the bundled recipes) but the error is
// recorded and the failure counter grows.
func (s *Store) Update(q Query, res recipe.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Query = q
	s.snapshot.Recipes = cloneRecipes(res.Recipes)
	s.snapshot.Source = res.Source
	s.snapshot.HasData = true
	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()

	if res.Err != nil {
		s.snapshot.LastError = res.Err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Recipes = cloneRecipes(s.snapshot.Recipes)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneRecipes(items []recipe.Recipe) []recipe.Recipe {
	if len(items) == 0 {
		return nil
	}
	dup := make([]recipe.Recipe, len(items))
	for i, r := range items {
		dup[i] = r.Clone()
	}
	return dup
}
