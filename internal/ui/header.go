package ui

import (
	"fmt"
	"strings"

	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/translate"
)

// renderHeader renders the status bar: logo, active view, result source,
// query, loading state and the latest flash message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot

	parts := []string{
		bg.Render("shaker", styles.Logo),
		bg.Render(m.viewLabel(), styles.AccentText.Bold(true)),
	}

	switch {
	case snap.IsOffline():
		parts = append(parts, styles.BadgeStyle(BadgeFallback).Render("OFFLINE"),
			bg.Render(fmt.Sprintf("retrying (%d failed loads)", snap.ConsecutiveFailures), styles.WarningText))
	case snap.Source == recipe.SourceFallback:
		parts = append(parts, styles.BadgeStyle(BadgeFallback).Render("BUNDLED"))
		if snap.LastError != nil {
			parts = append(parts, bg.Render("recipe service unavailable", styles.WarningText))
		}
	default:
		parts = append(parts, styles.BadgeStyle(BadgeNetwork).Render("ONLINE"))
	}

	parts = append(parts,
		bg.Render(fmt.Sprintf("%d recipes", len(snap.Recipes)), styles.Text),
		bg.Render(snap.Query.Label(), styles.MutedText),
	)

	if snap.Loading {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("loading", styles.MutedText))
	} else if !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if translate.Enabled(m.prefs.TranslateTo) {
		parts = append(parts, bg.Render(translate.DisplayName(m.prefs.TranslateTo), styles.InfoText))
	}

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashError {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(m.flash, style))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// viewLabel names the active view for the header.
func (m Model) viewLabel() string {
	switch m.currentView {
	case ViewFavorites:
		return "Favorites"
	case ViewSettings:
		return "Settings"
	case ViewDetail:
		return "Recipe"
	default:
		return "Recipes"
	}
}

// renderCommandBar renders the contextual key hints, or the search prompt
// while it is open.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.search.active {
		label := ternary(m.search.ingredient, "Ingredient: ", "Search: ")
		hints := bg.Hint("enter", "Go", styles.AccentText, styles.MutedText) + bg.Spaces(2) +
			bg.Hint("esc", "Cancel", styles.AccentText, styles.MutedText)
		return styles.Header.Width(m.width).Render(
			bg.Render(label, styles.AccentText.Bold(true)) + m.search.input.View() + bg.Spaces(2) + hints)
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewFavorites:
		commands = []cmd{
			{"enter", "Open"},
			{"f", "Remove"},
			{"j/k", "Navigate"},
			{"1", "Recipes"},
			{"3", "Settings"},
			{"?", "More"},
		}
	case ViewSettings:
		commands = []cmd{
			{"enter", "Change"},
			{"j/k", "Navigate"},
			{"1", "Recipes"},
			{"2", "Favorites"},
			{"?", "More"},
		}
		if m.confirmReset {
			commands = []cmd{
				{"y", "Reset everything"},
				{"n", "Keep"},
			}
		}
	case ViewDetail:
		commands = []cmd{
			{"Space", m.timerActionLabel()},
			{"x", "Reset"},
			{"6", "60s"},
			{"f", ternary(m.favoriteNames[m.detail.recipe.Name], "Unfavorite", "Favorite")},
			{"n", "Note"},
			{"esc", "Back"},
			{"?", "More"},
		}
		if m.detail.editing {
			commands = []cmd{
				{"ctrl+s", "Save note"},
				{"esc", "Discard"},
			}
		}
	default: // ViewRecipes
		commands = []cmd{
			{"/", "Search"},
			{"i", "Ingredient"},
			{"r", "Random"},
			{"b", "Bundled"},
			{"f", "Favorite"},
			{"enter", "Open"},
			{"2", "Favorites"},
			{"3", "Settings"},
			{"?", "More"},
		}
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Hint(c.key, c.desc, styles.AccentText, styles.MutedText))
	}
	segments = append(segments, bg.Hint("T", m.theme.Name, styles.AccentText, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}
