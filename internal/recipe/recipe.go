package recipe

import (
	"errors"
	"strings"

	"github.com/five82/shaker/internal/cocktaildb"
)

// ErrNotFound is returned when no recipe matches a lookup.
var ErrNotFound = errors.New("recipe not found")

// Alcoholic markers as reported by the API.
const (
	Alcoholic       = "Alcoholic"
	NonAlcoholic    = "Non alcoholic"
	OptionalAlcohol = "Optional alcohol"
)

// Recipe is a drink as shown to the user. Name is the natural key for
// favorites and notes.
type Recipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Description  string   `json:"description"`
	TimerSeconds *int     `json:"timerSeconds,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Alcoholic    string   `json:"alcoholic,omitempty"`
}

// Timer returns the suggested countdown in seconds, or 0 when the recipe has
// none.
func (r Recipe) Timer() int {
	if r.TimerSeconds == nil || *r.TimerSeconds < 0 {
		return 0
	}
	return *r.TimerSeconds
}

// HasTimer reports whether the recipe carries a positive countdown.
func (r Recipe) HasTimer() bool {
	return r.Timer() > 0
}

// IsAlcoholic reports whether the drink always contains alcohol. Unknown and
// optional-alcohol drinks count as non-alcoholic.
func (r Recipe) IsAlcoholic() bool {
	return strings.EqualFold(strings.TrimSpace(r.Alcoholic), Alcoholic)
}

// Clone returns a copy that shares no slices or pointers with r.
func (r Recipe) Clone() Recipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = append([]string(nil), r.Ingredients...)
	}
	if r.TimerSeconds != nil {
		v := *r.TimerSeconds
		out.TimerSeconds = &v
	}
	return out
}

// Seconds is a helper for building recipes with a timer.
func Seconds(v int) *int {
	return &v
}

// FromDrink maps an API drink into a Recipe. Network recipes carry no
// timer.
func FromDrink(d cocktaildb.Drink) Recipe {
	return Recipe{
		Name:        strings.TrimSpace(d.Name),
		Ingredients: d.Ingredients(),
		Description: strings.TrimSpace(d.Instructions),
		ImageURL:    strings.TrimSpace(d.Thumb),
		Alcoholic:   strings.TrimSpace(d.Alcoholic),
	}
}

// FindByName returns the first recipe whose name matches case-insensitively.
func FindByName(recipes []Recipe, name string) (Recipe, error) {
	name = strings.TrimSpace(name)
	for _, r := range recipes {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return Recipe{}, ErrNotFound
}
