package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shaker/internal/recipe"
)

type favoritesMsg struct {
	recipes []recipe.Recipe
	err     error
}

type favoriteToggledMsg struct {
	recipe   recipe.Recipe
	favorite bool
	err      error
}

// loadFavoritesCmd reads the saved favorites.
func (m Model) loadFavoritesCmd() tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		list, err := m.favorites.List(ctx)
		return favoritesMsg{recipes: list, err: err}
	}
}

// toggleFavoriteCmd flips r's favorite membership.
func (m Model) toggleFavoriteCmd(r recipe.Recipe) tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		fav, err := m.favorites.Toggle(ctx, r)
		return favoriteToggledMsg{recipe: r, favorite: fav, err: err}
	}
}

// handleFavorites replaces the cached favorites list.
func (m *Model) handleFavorites(msg favoritesMsg) {
	if msg.err != nil {
		m.log.Warn("load favorites failed", "error", msg.err)
		m.setFlash("Could not load favorites", true)
		return
	}
	m.favoriteList = msg.recipes
	m.favoriteNames = make(map[string]bool, len(msg.recipes))
	for _, r := range msg.recipes {
		m.favoriteNames[r.Name] = true
	}
	if m.favoriteCursor >= len(m.favoriteList) {
		m.favoriteCursor = max(0, len(m.favoriteList)-1)
	}
	if m.currentView == ViewDetail {
		m.updateDetailViewport()
	}
}

// handleFavoriteToggled records the new membership and reloads the list.
func (m Model) handleFavoriteToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("toggle favorite failed", "recipe", msg.recipe.Name, "error", msg.err)
		m.setFlash("Could not update favorites", true)
		return m, nil
	}
	m.favoriteNames[msg.recipe.Name] = msg.favorite
	if msg.favorite {
		m.setFlash(fmt.Sprintf("Added %s to favorites", msg.recipe.Name), false)
	} else {
		m.setFlash(fmt.Sprintf("Removed %s from favorites", msg.recipe.Name), false)
	}
	if m.currentView == ViewDetail {
		m.updateDetailViewport()
	}
	return m, m.loadFavoritesCmd()
}

// selectedFavorite returns the favorite under the cursor.
func (m Model) selectedFavorite() (recipe.Recipe, bool) {
	if m.favoriteCursor < 0 || m.favoriteCursor >= len(m.favoriteList) {
		return recipe.Recipe{}, false
	}
	return m.favoriteList[m.favoriteCursor], true
}

// handleFavoritesKey processes keyboard input for the favorites view.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, ok := m.selectedFavorite()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		return m, m.openDetail(r, ViewFavorites)
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleFavoriteCmd(r)
	}
	if cursor, moved := m.moveCursor(msg, m.favoriteCursor, len(m.favoriteList)); moved {
		m.favoriteCursor = cursor
	}
	return m, nil
}

// renderFavorites renders saved favorites with a preview of the selection.
// Favorites are shown as they were saved, without the current filters.
func (m Model) renderFavorites() string {
	title := fmt.Sprintf("Favorites (%d)", len(m.favoriteList))
	selected, ok := m.selectedFavorite()
	return m.renderListWithPreview(title, m.favoriteList, m.favoriteCursor,
		"No favorites yet. Press f on a recipe to save it here.", selected, ok)
}
