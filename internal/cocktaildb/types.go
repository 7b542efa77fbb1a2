package cocktaildb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// maxIngredients is the number of strIngredientN/strMeasureN slots the API exposes.
const maxIngredients = 15

// DrinksResponse mirrors the envelope returned by search.php, random.php,
// filter.php and lookup.php.
type DrinksResponse struct {
	Drinks []Drink
}

// UnmarshalJSON treats a missing, null or string-valued "drinks" field as an
// empty result. The API answers some misses with "drinks": "no data found".
func (r *DrinksResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Drinks json.RawMessage `json:"drinks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Drinks = nil

	trimmed := bytes.TrimSpace(raw.Drinks)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	return json.Unmarshal(trimmed, &r.Drinks)
}

// Drink describes a single cocktail in transport form.
type Drink struct {
	ID           string `json:"idDrink"`
	Name         string `json:"strDrink"`
	Category     string `json:"strCategory"`
	Alcoholic    string `json:"strAlcoholic"`
	Glass        string `json:"strGlass"`
	Instructions string `json:"strInstructions"`
	Thumb        string `json:"strDrinkThumb"`

	// Parts holds the non-empty ingredient slots in API order.
	Parts []Part `json:"-"`
}

// Part is one ingredient slot with its optional measure.
type Part struct {
	Measure    string
	Ingredient string
}

// UnmarshalJSON decodes the fixed fields and gathers the numbered
// ingredient/measure slots into Parts.
func (d *Drink) UnmarshalJSON(data []byte) error {
	type plain Drink
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var slots map[string]*string
	if err := json.Unmarshal(data, &slots); err != nil {
		// Non-string values in unknown keys; keep the fixed fields only.
		slots = nil
	}

	*d = Drink(p)
	d.Parts = nil
	for i := 1; i <= maxIngredients; i++ {
		n := strconv.Itoa(i)
		ingredient := strings.TrimSpace(deref(slots["strIngredient"+n]))
		if ingredient == "" {
			continue
		}
		d.Parts = append(d.Parts, Part{
			Measure:    strings.TrimSpace(deref(slots["strMeasure"+n])),
			Ingredient: ingredient,
		})
	}
	return nil
}

// MarshalJSON writes the numbered slots back out so encoded drinks round-trip
// through fixtures.
func (d Drink) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"idDrink":         d.ID,
		"strDrink":        d.Name,
		"strCategory":     d.Category,
		"strAlcoholic":    d.Alcoholic,
		"strGlass":        d.Glass,
		"strInstructions": d.Instructions,
		"strDrinkThumb":   d.Thumb,
	}
	if len(d.Parts) > maxIngredients {
		return nil, fmt.Errorf("drink %q has %d ingredients, max %d", d.Name, len(d.Parts), maxIngredients)
	}
	for i, part := range d.Parts {
		n := strconv.Itoa(i + 1)
		out["strIngredient"+n] = part.Ingredient
		out["strMeasure"+n] = part.Measure
	}
	return json.Marshal(out)
}

// Ingredients renders Parts as "measure ingredient" lines.
func (d Drink) Ingredients() []string {
	if len(d.Parts) == 0 {
		return nil
	}
	lines := make([]string, 0, len(d.Parts))
	for _, part := range d.Parts {
		line := strings.TrimSpace(part.Measure + " " + part.Ingredient)
		lines = append(lines, line)
	}
	return lines
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
