package recipe

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed fallback.json
var fallbackJSON []byte

var (
	fallbackOnce    sync.Once
	fallbackRecipes []Recipe
	fallbackErr     error
)

// Fallback returns the bundled recipe list shown when the API is unreachable.
// Each call returns a fresh copy.
func Fallback() ([]Recipe, error) {
	fallbackOnce.Do(func() {
		fallbackRecipes, fallbackErr = parseRecipes(fallbackJSON)
	})
	if fallbackErr != nil {
		return nil, fallbackErr
	}
	out := make([]Recipe, len(fallbackRecipes))
	for i, r := range fallbackRecipes {
		out[i] = r.Clone()
	}
	return out, nil
}

func parseRecipes(data []byte) ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("parse bundled recipes: %w", err)
	}
	return recipes, nil
}
