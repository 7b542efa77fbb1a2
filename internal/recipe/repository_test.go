package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/five82/shaker/internal/cocktaildb"
)

type fakeFetcher struct {
	mu         sync.Mutex
	searchFn   func(string) ([]cocktaildb.Drink, error)
	randomFn   func(int) (*cocktaildb.Drink, error)
	filterFn   func(string) ([]cocktaildb.Drink, error)
	lookupFn   func(string) (*cocktaildb.Drink, error)
	randomHits int
	lastSearch string
}

func (f *fakeFetcher) Search(_ context.Context, q string) ([]cocktaildb.Drink, error) {
	f.mu.Lock()
	f.lastSearch = q
	f.mu.Unlock()
	return f.searchFn(q)
}

func (f *fakeFetcher) Random(context.Context) (*cocktaildb.Drink, error) {
	f.mu.Lock()
	f.randomHits++
	n := f.randomHits
	f.mu.Unlock()
	return f.randomFn(n)
}

func (f *fakeFetcher) FilterByIngredient(_ context.Context, i string) ([]cocktaildb.Drink, error) {
	return f.filterFn(i)
}

func (f *fakeFetcher) Lookup(_ context.Context, id string) (*cocktaildb.Drink, error) {
	if f.lookupFn == nil {
		return nil, nil
	}
	return f.lookupFn(id)
}

func drink(id, name, alcoholic string, parts ...cocktaildb.Part) cocktaildb.Drink {
	return cocktaildb.Drink{ID: id, Name: name, Alcoholic: alcoholic, Instructions: "Stir.", Parts: parts}
}

type upper struct{}

func (upper) Translate(_ context.Context, text string) (string, error) {
	return strings.ToUpper(text), nil
}

func mustFallback(t *testing.T) []Recipe {
	t.Helper()
	recipes, err := Fallback()
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	return recipes
}

func TestSearch_BlankQueryUsesDefault(t *testing.T) {
	api := &fakeFetcher{searchFn: func(q string) ([]cocktaildb.Drink, error) {
		return []cocktaildb.Drink{drink("1", "Margarita", Alcoholic)}, nil
	}}
	repo := NewRepository(api)

	res := repo.Search(context.Background(), "   ")
	if api.lastSearch != DefaultQuery {
		t.Fatalf("searched %q, want %q", api.lastSearch, DefaultQuery)
	}
	if res.Source != SourceNetwork || res.Err != nil {
		t.Fatalf("result = %+v, want network without error", res)
	}
	if len(res.Recipes) != 1 || res.Recipes[0].Name != "Margarita" {
		t.Fatalf("recipes = %#v, want Margarita", res.Recipes)
	}
	if res.Recipes[0].TimerSeconds != nil {
		t.Fatalf("network recipe should carry no timer")
	}
}

func TestSearch_FailureReturnsWholeFallback(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	repo := NewRepository(&fakeFetcher{searchFn: func(string) ([]cocktaildb.Drink, error) {
		return nil, boom
	}})

	res := repo.Search(context.Background(), "mojito")
	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("Err = %v, want %v", res.Err, boom)
	}
	if len(res.Recipes) != len(mustFallback(t)) {
		t.Fatalf("len = %d, want whole fallback list", len(res.Recipes))
	}
}

func TestSearch_EmptyNetworkResultIsNotFallback(t *testing.T) {
	repo := NewRepository(&fakeFetcher{searchFn: func(string) ([]cocktaildb.Drink, error) {
		return nil, nil
	}})
	res := repo.Search(context.Background(), "zzz")
	if res.Source != SourceNetwork || len(res.Recipes) != 0 {
		t.Fatalf("result = %+v, want empty network result", res)
	}
}

func TestRandom_DeduplicatesAndBoundsAttempts(t *testing.T) {
	api := &fakeFetcher{randomFn: func(n int) (*cocktaildb.Drink, error) {
		// Only two distinct drinks exist; every third call fails.
		if n%3 == 0 {
			return nil, errors.New("timeout")
		}
		d := drink("1", "Mojito", Alcoholic)
		if n%2 == 0 {
			d = drink("2", "Negroni", Alcoholic)
		}
		return &d, nil
	}}
	repo := NewRepository(api)

	res := repo.Random(context.Background(), 5)
	if res.Source != SourceNetwork || res.Err != nil {
		t.Fatalf("result = %+v, want network", res)
	}
	if len(res.Recipes) != 2 {
		t.Fatalf("len = %d, want 2 distinct drinks", len(res.Recipes))
	}
	if api.randomHits != 10 {
		t.Fatalf("attempts = %d, want count*2 = 10", api.randomHits)
	}
}

func TestRandom_StopsWhenCountReached(t *testing.T) {
	api := &fakeFetcher{randomFn: func(n int) (*cocktaildb.Drink, error) {
		d := drink(string(rune('a'+n)), "Drink "+string(rune('A'+n)), Alcoholic)
		return &d, nil
	}}
	res := NewRepository(api).Random(context.Background(), 3)
	if len(res.Recipes) != 3 || api.randomHits != 3 {
		t.Fatalf("recipes = %d attempts = %d, want 3 and 3", len(res.Recipes), api.randomHits)
	}
}

func TestRandom_AllFailuresDegradeToFallback(t *testing.T) {
	boom := errors.New("offline")
	api := &fakeFetcher{randomFn: func(int) (*cocktaildb.Drink, error) { return nil, boom }}

	res := NewRepository(api).Random(context.Background(), 2)
	if res.Source != SourceFallback || !errors.Is(res.Err, boom) {
		t.Fatalf("result = %+v, want fallback with error", res)
	}
	if len(res.Recipes) == 0 {
		t.Fatal("fallback list is empty")
	}
	if api.randomHits != 4 {
		t.Fatalf("attempts = %d, want 4", api.randomHits)
	}
}

func TestByIngredient_LooksUpDetails(t *testing.T) {
	api := &fakeFetcher{
		filterFn: func(i string) ([]cocktaildb.Drink, error) {
			if i != "Gin" {
				t.Errorf("filter ingredient = %q, want Gin", i)
			}
			return []cocktaildb.Drink{{ID: "7", Name: "Negroni"}}, nil
		},
		lookupFn: func(id string) (*cocktaildb.Drink, error) {
			d := drink(id, "Negroni", Alcoholic, cocktaildb.Part{Measure: "1 oz", Ingredient: "Gin"})
			return &d, nil
		},
	}
	res := NewRepository(api).ByIngredient(context.Background(), " Gin ")
	if len(res.Recipes) != 1 {
		t.Fatalf("len = %d, want 1", len(res.Recipes))
	}
	if got := res.Recipes[0].Ingredients; len(got) != 1 || got[0] != "30 ml Gin" {
		t.Fatalf("ingredients = %q, want [30 ml Gin]", got)
	}
}

func TestByIngredient_FailureFiltersFallback(t *testing.T) {
	api := &fakeFetcher{filterFn: func(string) ([]cocktaildb.Drink, error) {
		return nil, errors.New("offline")
	}}
	res := NewRepository(api).ByIngredient(context.Background(), "campari")
	if res.Source != SourceFallback {
		t.Fatalf("Source = %s, want fallback", res.Source)
	}
	if len(res.Recipes) != 1 || res.Recipes[0].Name != "Negroni" {
		t.Fatalf("recipes = %#v, want Negroni only", res.Recipes)
	}
}

func TestFilters_NonAlcoholicAndUnits(t *testing.T) {
	api := &fakeFetcher{searchFn: func(string) ([]cocktaildb.Drink, error) {
		return []cocktaildb.Drink{
			drink("1", "Mojito", Alcoholic, cocktaildb.Part{Measure: "2 oz", Ingredient: "Rum"}),
			drink("2", "Shirley Temple", NonAlcoholic, cocktaildb.Part{Measure: "30 ml", Ingredient: "Grenadine"}),
			drink("3", "Punch", OptionalAlcohol),
		}, nil
	}}
	repo := NewRepository(api, WithFilters(Filters{NonAlcoholicOnly: true, Unit: UnitOz}))

	res := repo.Search(context.Background(), "x")
	if len(res.Recipes) != 2 {
		t.Fatalf("len = %d, want 2 non-alcoholic recipes", len(res.Recipes))
	}
	if got := res.Recipes[0].Ingredients[0]; got != "1 oz Grenadine" {
		t.Fatalf("ingredient = %q, want 1 oz Grenadine", got)
	}

	repo.SetFilters(Filters{Unit: UnitML})
	res = repo.Search(context.Background(), "x")
	if len(res.Recipes) != 3 {
		t.Fatalf("len = %d, want 3 after clearing filter", len(res.Recipes))
	}
	if got := res.Recipes[0].Ingredients[0]; got != "60 ml Rum" {
		t.Fatalf("ingredient = %q, want 60 ml Rum", got)
	}
}

func TestFallback_AppliesNonAlcoholicFilter(t *testing.T) {
	repo := NewRepository(nil, WithFilters(Filters{NonAlcoholicOnly: true}))
	res := repo.Fallback(context.Background())
	if len(res.Recipes) == 0 {
		t.Fatal("expected some non-alcoholic fallback recipes")
	}
	for _, r := range res.Recipes {
		if r.IsAlcoholic() {
			t.Fatalf("fallback returned alcoholic recipe %q", r.Name)
		}
	}
}

func TestTranslation_AppliedToNetworkOnly(t *testing.T) {
	api := &fakeFetcher{searchFn: func(string) ([]cocktaildb.Drink, error) {
		return []cocktaildb.Drink{drink("1", "Mojito", Alcoholic, cocktaildb.Part{Ingredient: "Mint"})}, nil
	}}
	repo := NewRepository(api, WithTranslator(upper{}))

	res := repo.Search(context.Background(), "mojito")
	got := res.Recipes[0]
	if got.Name != "Mojito" {
		t.Fatalf("name translated to %q; names are keys and must stay", got.Name)
	}
	if got.Description != "STIR." || got.Ingredients[0] != "MINT" {
		t.Fatalf("recipe = %#v, want translated description and ingredients", got)
	}

	repo.SetTranslator(nil)
	res = repo.Search(context.Background(), "mojito")
	if res.Recipes[0].Description != "Stir." {
		t.Fatalf("description = %q after disabling translation", res.Recipes[0].Description)
	}
}

func TestFallback_ReturnsIndependentCopies(t *testing.T) {
	first := mustFallback(t)
	first[0].Ingredients[0] = "mutated"
	second := mustFallback(t)
	if second[0].Ingredients[0] == "mutated" {
		t.Fatal("Fallback shares ingredient slices between calls")
	}
	if _, err := FindByName(second, "margarita"); err != nil {
		t.Fatalf("FindByName(margarita) returned error: %v", err)
	}
	if _, err := FindByName(second, "Zombie"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByName(Zombie) error = %v, want ErrNotFound", err)
	}
}
