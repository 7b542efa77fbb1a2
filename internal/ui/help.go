package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections groups the key map for the help overlay.
func (m Model) helpSections() []helpSection {
	k := m.keys
	return []helpSection{
		{
			title:    "Navigation",
			bindings: []key.Binding{k.Tab, k.ViewRecipes, k.ViewFavorites, k.ViewSettings, k.Escape, k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown},
		},
		{
			title:    "Recipes",
			bindings: []key.Binding{k.Open, k.Search, k.SearchIngredient, k.Refresh, k.Bundled, k.ToggleFavorite},
		},
		{
			title:    "Recipe details",
			bindings: []key.Binding{k.TimerToggle, k.TimerReset, k.TimerQuick, k.EditNote, k.SaveNote},
		},
		{
			title:    "General",
			bindings: []key.Binding{k.Toggle, k.CycleTheme, k.Help, k.Quit},
		},
	}
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	sections := m.helpSections()
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(LayoutHelpWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
