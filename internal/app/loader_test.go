package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 15 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 15 * time.Second},
		{"negative failures", -1, 15 * time.Second},
		{"one failure", 1, 30 * time.Second},
		{"two failures", 2, 60 * time.Second},
		{"three failures capped", 3, 2 * time.Minute}, // Would be 120s, exactly the cap
		{"four failures capped", 4, 2 * time.Minute},  // Would be 240s, capped to 120s
		{"many failures capped", 100, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 70; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, outside (0, %v]", failures, baseInterval, got, maxBackoff)
		}
	}
}

// flakyFetcher fails the first failN Search calls, then answers with one drink
// named after the query.
type flakyFetcher struct {
	mu    sync.Mutex
	failN int
	calls int
}

func (f *flakyFetcher) Search(_ context.Context, q string) ([]cocktaildb.Drink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failN {
		return nil, errors.New("offline")
	}
	return []cocktaildb.Drink{{ID: q, Name: q}}, nil
}

func (f *flakyFetcher) Random(context.Context) (*cocktaildb.Drink, error) {
	return &cocktaildb.Drink{ID: "r", Name: "Random"}, nil
}

func (f *flakyFetcher) FilterByIngredient(context.Context, string) ([]cocktaildb.Drink, error) {
	return nil, nil
}

func (f *flakyFetcher) Lookup(context.Context, string) (*cocktaildb.Drink, error) {
	return nil, nil
}

func (f *flakyFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForSnapshot(t *testing.T, store *state.Store, cond func(state.Snapshot) bool) state.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := store.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	snap := store.Snapshot()
	t.Fatalf("condition not met; last snapshot %+v", snap)
	return snap
}

func TestLoader_LoadPublishesResult(t *testing.T) {
	store := &state.Store{}
	repo := recipe.NewRepository(&flakyFetcher{})
	loader := NewLoader(repo, store, discardLogger(), 0)

	res := loader.Load(context.Background(), state.Search("Mojito"))
	if res.Err != nil || len(res.Recipes) != 1 {
		t.Fatalf("Load = %+v, want one network recipe", res)
	}
	snap := store.Snapshot()
	if !snap.HasData || snap.Loading || snap.Query != state.Search("Mojito") {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestLoader_RetriesAfterFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	api := &flakyFetcher{failN: 2}
	store := &state.Store{}
	loader := NewLoader(recipe.NewRepository(api), store, discardLogger(), 5*time.Millisecond)
	loader.Start(ctx)
	loader.Request(state.Search("Negroni"))

	snap := waitForSnapshot(t, store, func(s state.Snapshot) bool {
		return s.HasData && s.Source == recipe.SourceNetwork
	})
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot after recovery = %+v", snap)
	}
	if len(snap.Recipes) != 1 || snap.Recipes[0].Name != "Negroni" {
		t.Fatalf("recipes = %#v, want Negroni", snap.Recipes)
	}
	if api.Calls() != 3 {
		t.Fatalf("search calls = %d, want 3 (two failures then success)", api.Calls())
	}
}

func TestLoader_RequestMarksLoadingAndKeepsNewest(t *testing.T) {
	store := &state.Store{}
	loader := NewLoader(recipe.NewRepository(&flakyFetcher{}), store, discardLogger(), 0)

	// Not started: requests pile up in the single-slot queue.
	loader.Request(state.Search("A"))
	loader.Request(state.Search("B"))
	loader.Request(state.Search("C"))

	if !store.Snapshot().Loading {
		t.Fatal("Request should mark the store as loading")
	}
	if got := <-loader.requests; got != state.Search("C") {
		t.Fatalf("pending request = %#v, want newest (C)", got)
	}
	select {
	case q := <-loader.requests:
		t.Fatalf("unexpected extra pending request %#v", q)
	default:
	}
}

func TestLoader_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &flakyFetcher{}
	store := &state.Store{}
	loader := NewLoader(recipe.NewRepository(api), store, discardLogger(), 0)
	loader.Start(ctx)
	cancel()

	time.Sleep(20 * time.Millisecond)
	loader.Request(state.Search("ignored"))
	time.Sleep(20 * time.Millisecond)
	if api.Calls() != 0 {
		t.Fatalf("search calls = %d after cancel, want 0", api.Calls())
	}
}
