// Package prefs handles shaker user settings persistence.
// Settings are stored in ~/.config/shaker/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shaker/internal/recipe"
)

// Prefs holds user settings changed from the settings screen.
type Prefs struct {
	Theme            string `toml:"theme"`
	NonAlcoholicOnly bool   `toml:"non_alcoholic_only"`
	MeasurementUnit  string `toml:"measurement_unit"`
	// TranslateTo is a language code; empty disables translation.
	TranslateTo string `toml:"translate_to"`
}

const (
	defaultPrefsPath = "~/.config/shaker/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the settings used when nothing has been saved.
func Default() Prefs {
	return Prefs{
		Theme:           defaultTheme,
		MeasurementUnit: string(recipe.DefaultUnit),
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Filters converts the settings into recipe filters.
func (p Prefs) Filters() recipe.Filters {
	unit, err := recipe.ParseUnit(p.MeasurementUnit)
	if err != nil {
		unit = recipe.DefaultUnit
	}
	return recipe.Filters{NonAlcoholicOnly: p.NonAlcoholicOnly, Unit: unit}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return normalize(prefs), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Reset deletes the preferences file so the next Load returns defaults.
func Reset(path string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove prefs: %w", err)
	}
	return nil
}

func normalize(p Prefs) Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	unit, err := recipe.ParseUnit(p.MeasurementUnit)
	if err != nil {
		unit = recipe.DefaultUnit
	}
	p.MeasurementUnit = string(unit)
	p.TranslateTo = strings.TrimSpace(p.TranslateTo)
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
