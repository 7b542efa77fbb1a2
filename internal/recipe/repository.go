package recipe

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/translate"
)

// DefaultQuery is searched when the user submits a blank query.
const DefaultQuery = "margarita"

// DefaultRandomCount is how many drinks the start screen asks for.
const DefaultRandomCount = 30

// maxLookups bounds the per-drink detail requests made for ingredient
// filter results.
const maxLookups = 12

// Source tells where a result's recipes came from.
type Source int

const (
	SourceNetwork Source = iota
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceNetwork:
		return "network"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Result is the outcome of a repository call. Err is set when the network
// failed and Recipes holds the bundled list instead.
type Result struct {
	Recipes []Recipe
	Source  Source
	Err     error
}

// Filters are user settings applied to every result.
type Filters struct {
	NonAlcoholicOnly bool
	Unit             Unit
}

// Repository fetches recipes from the API and degrades to the bundled list.
type Repository struct {
	api cocktaildb.Fetcher
	log *slog.Logger

	mu         sync.RWMutex
	translator translate.Translator
	filters    Filters
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// WithTranslator translates descriptions and ingredients of network results.
func WithTranslator(t translate.Translator) Option {
	return func(r *Repository) { r.translator = t }
}

// WithFilters sets the initial filters.
func WithFilters(f Filters) Option {
	return func(r *Repository) { r.filters = f }
}

// NewRepository builds a repository on top of api. A nil api always serves
// the bundled list.
func NewRepository(api cocktaildb.Fetcher, opts ...Option) *Repository {
	r := &Repository{
		api:     api,
		log:     slog.Default(),
		filters: Filters{Unit: DefaultUnit},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFilters replaces the filters used by subsequent calls.
func (r *Repository) SetFilters(f Filters) {
	r.mu.Lock()
	r.filters = f
	r.mu.Unlock()
}

// Filters returns the active filters.
func (r *Repository) Filters() Filters {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filters
}

// SetTranslator swaps the translator; nil disables translation.
func (r *Repository) SetTranslator(t translate.Translator) {
	r.mu.Lock()
	r.translator = t
	r.mu.Unlock()
}

// Search looks recipes up by name. A blank query searches DefaultQuery. Any
// network or decode failure yields the whole bundled list.
func (r *Repository) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultQuery
	}
	if r.api == nil {
		return r.Fallback(ctx)
	}

	drinks, err := r.api.Search(ctx, query)
	if err != nil {
		r.log.Warn("search failed, using bundled recipes", "query", query, "error", err)
		return r.fallbackResult(err)
	}
	return r.networkResult(ctx, drinks)
}

// Random fetches up to count distinct random drinks, making at most
// count*2 requests. Failed attempts are logged and skipped. When nothing was
// fetched and at least one attempt failed the bundled list is returned.
func (r *Repository) Random(ctx context.Context, count int) Result {
	if count <= 0 {
		count = DefaultRandomCount
	}
	if r.api == nil {
		return r.Fallback(ctx)
	}

	seen := make(map[string]struct{}, count)
	drinks := make([]cocktaildb.Drink, 0, count)
	var lastErr error
	failures := 0

	for attempt := 0; attempt < count*2 && len(drinks) < count; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			failures++
			break
		}
		drink, err := r.api.Random(ctx)
		if err != nil {
			failures++
			lastErr = err
			r.log.Debug("random drink attempt failed", "attempt", attempt+1, "error", err)
			continue
		}
		if drink == nil {
			continue
		}
		key := drink.ID
		if key == "" {
			key = drink.Name
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		drinks = append(drinks, *drink)
	}

	if len(drinks) == 0 && failures > 0 {
		r.log.Warn("random fetch failed, using bundled recipes", "failures", failures, "error", lastErr)
		return r.fallbackResult(lastErr)
	}
	if failures > 0 {
		r.log.Info("random fetch partially failed", "fetched", len(drinks), "failures", failures)
	}
	return r.networkResult(ctx, drinks)
}

// ByIngredient lists drinks containing ingredient. Filter results are
// completed with a lookup each, up to a small limit; the rest keep name and
// image only. On failure the bundled recipes mentioning the ingredient are
// returned.
func (r *Repository) ByIngredient(ctx context.Context, ingredient string) Result {
	ingredient = strings.TrimSpace(ingredient)
	if r.api == nil {
		return r.fallbackMatching(ingredient, nil)
	}

	drinks, err := r.api.FilterByIngredient(ctx, ingredient)
	if err != nil {
		r.log.Warn("ingredient filter failed, using bundled recipes", "ingredient", ingredient, "error", err)
		return r.fallbackMatching(ingredient, err)
	}

	for i := range drinks {
		if i >= maxLookups || ctx.Err() != nil {
			break
		}
		full, err := r.api.Lookup(ctx, drinks[i].ID)
		if err != nil {
			r.log.Debug("drink lookup failed", "id", drinks[i].ID, "error", err)
			continue
		}
		if full != nil {
			drinks[i] = *full
		}
	}
	return r.networkResult(ctx, drinks)
}

// Fallback returns the bundled list with filters applied.
func (r *Repository) Fallback(_ context.Context) Result {
	return r.fallbackResult(nil)
}

func (r *Repository) networkResult(ctx context.Context, drinks []cocktaildb.Drink) Result {
	r.mu.RLock()
	filters := r.filters
	tr := r.translator
	r.mu.RUnlock()

	recipes := make([]Recipe, 0, len(drinks))
	for _, d := range drinks {
		rec := FromDrink(d)
		if rec.Name == "" {
			continue
		}
		recipes = append(recipes, rec)
	}
	recipes = applyFilters(recipes, filters)
	if tr != nil {
		for i := range recipes {
			recipes[i] = translateRecipe(ctx, tr, recipes[i])
		}
	}
	return Result{Recipes: recipes, Source: SourceNetwork}
}

func (r *Repository) fallbackResult(cause error) Result {
	recipes, err := Fallback()
	if err != nil {
		r.log.Error("bundled recipes unavailable", "error", err)
		if cause == nil {
			cause = err
		}
		return Result{Source: SourceFallback, Err: cause}
	}
	return Result{
		Recipes: applyFilters(recipes, r.Filters()),
		Source:  SourceFallback,
		Err:     cause,
	}
}

func (r *Repository) fallbackMatching(ingredient string, cause error) Result {
	res := r.fallbackResult(cause)
	if ingredient == "" {
		return res
	}
	needle := strings.ToLower(ingredient)
	matched := res.Recipes[:0]
	for _, rec := range res.Recipes {
		for _, line := range rec.Ingredients {
			if strings.Contains(strings.ToLower(line), needle) {
				matched = append(matched, rec)
				break
			}
		}
	}
	res.Recipes = matched
	return res
}

func applyFilters(recipes []Recipe, f Filters) []Recipe {
	out := recipes[:0]
	for _, rec := range recipes {
		if f.NonAlcoholicOnly && rec.IsAlcoholic() {
			continue
		}
		if f.Unit != "" {
			rec.Ingredients = ConvertIngredients(rec.Ingredients, f.Unit)
		}
		out = append(out, rec)
	}
	return out
}

func translateRecipe(ctx context.Context, tr translate.Translator, rec Recipe) Recipe {
	rec.Description = translate.OrOriginal(ctx, tr, rec.Description)
	if len(rec.Ingredients) > 0 {
		translated := make([]string, len(rec.Ingredients))
		for i, line := range rec.Ingredients {
			translated[i] = translate.OrOriginal(ctx, tr, line)
		}
		rec.Ingredients = translated
	}
	return rec
}
