package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

func settingsModel(t *testing.T) (Model, *harness) {
	t.Helper()
	m, h := newHarnessModel(t, time.Hour)
	m, _ = press(t, m, "3")
	require.Equal(t, ViewSettings, m.currentView)
	return m, h
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return update(t, m, cmd())
}

func TestSettings_NonAlcoholicReloadsQuery(t *testing.T) {
	m, h := settingsModel(t)

	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)

	assert.True(t, m.prefs.NonAlcoholicOnly)
	require.Len(t, h.settings.updates, 1)
	assert.True(t, h.settings.updates[0].NonAlcoholicOnly)

	q, ok := h.loader.last()
	require.True(t, ok, "saving a filter should reload the current query")
	assert.Equal(t, state.Random(), q)
	assert.True(t, m.snapshot.Loading)
	assert.Contains(t, m.View(), "non-alcoholic only")
}

func TestSettings_UnitCycles(t *testing.T) {
	m, h := settingsModel(t)

	m, _ = press(t, m, "j")
	require.Equal(t, int(rowUnit), m.settingsRow)

	m, cmd := press(t, m, " ")
	m = run(t, m, cmd)
	assert.Equal(t, string(recipe.UnitOz), m.prefs.MeasurementUnit)

	m, cmd = press(t, m, " ")
	m = run(t, m, cmd)
	assert.Equal(t, string(recipe.UnitML), m.prefs.MeasurementUnit)
	assert.Equal(t, 2, h.loader.count())
}

func TestSettings_TranslationUnavailable(t *testing.T) {
	m, h := settingsModel(t)
	m.settingsRow = int(rowTranslate)

	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.True(t, m.flashError)
	assert.Contains(t, m.flash, "translate_url")
	assert.Empty(t, h.settings.updates)
}

func TestSettings_TranslationCycles(t *testing.T) {
	m, h := settingsModel(t)
	h.settings.translation = true
	m.settingsRow = int(rowTranslate)

	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	assert.Equal(t, "es", m.prefs.TranslateTo)
	assert.Equal(t, 1, h.loader.count())
	assert.Contains(t, m.View(), "Spanish")
}

func TestSettings_ThemeDoesNotReload(t *testing.T) {
	m, h := settingsModel(t)
	m.settingsRow = int(rowTheme)
	before := m.theme.Name

	m, cmd := press(t, m, "enter")
	assert.NotEqual(t, before, m.theme.Name, "theme should change immediately")
	m = run(t, m, cmd)

	assert.Equal(t, m.theme.Name, m.prefs.Theme)
	assert.Equal(t, 0, h.loader.count())
}

func TestSettings_ResetConfirmation(t *testing.T) {
	ctx := context.Background()
	m, h := settingsModel(t)
	_, err := h.favorites.Toggle(ctx, testRecipes()[0])
	require.NoError(t, err)
	m.prefs.NonAlcoholicOnly = true
	h.settings.prefs.NonAlcoholicOnly = true

	m.settingsRow = int(rowReset)
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	require.True(t, m.confirmReset)
	assert.Contains(t, m.View(), "(y/n)")

	m, cmd = press(t, m, "n")
	assert.Nil(t, cmd)
	assert.False(t, m.confirmReset)
	assert.Equal(t, 0, h.settings.resets)

	m, _ = press(t, m, "enter")
	m, cmd = press(t, m, "y")
	require.False(t, m.confirmReset)
	m = run(t, m, cmd)

	assert.Equal(t, 1, h.settings.resets)
	assert.False(t, m.prefs.NonAlcoholicOnly)
	assert.Equal(t, "Settings and favorites reset", m.flash)
	assert.Equal(t, 1, h.loader.count())
}

func TestSettings_EscCancelsConfirmation(t *testing.T) {
	m, _ := settingsModel(t)
	m.settingsRow = int(rowReset)
	m, _ = press(t, m, "enter")
	require.True(t, m.confirmReset)

	m, _ = press(t, m, "esc")
	assert.False(t, m.confirmReset)
	assert.Equal(t, ViewSettings, m.currentView)
}

func TestNextTarget(t *testing.T) {
	assert.Equal(t, "es", nextTarget(""))
	assert.Equal(t, "de", nextTarget("ES"))
	assert.Equal(t, "", nextTarget("pt"))
	assert.Equal(t, "", nextTarget("xx"))
}

func TestSettings_RenderLists(t *testing.T) {
	m, _ := settingsModel(t)
	view := m.View()
	for _, label := range []string{"Non-alcoholic only", "Measurement unit", "Translate to", "Theme", "Reset all"} {
		assert.True(t, strings.Contains(view, label), "missing %q", label)
	}
}
