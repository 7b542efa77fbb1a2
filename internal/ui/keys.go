package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// View switching
	ViewRecipes   key.Binding
	ViewFavorites key.Binding
	ViewSettings  key.Binding

	// Recipe list actions
	Open             key.Binding
	Search           key.Binding
	SearchIngredient key.Binding
	Refresh          key.Binding
	Bundled          key.Binding
	ToggleFavorite   key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Detail actions
	TimerToggle key.Binding
	TimerReset  key.Binding
	TimerQuick  key.Binding
	EditNote    key.Binding
	SaveNote    key.Binding

	// Settings
	Toggle       key.Binding
	ConfirmReset key.Binding
	CancelReset  key.Binding

	// Search/input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		// View switching
		ViewRecipes: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Recipes"),
		),
		ViewFavorites: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Favorites"),
		),
		ViewSettings: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Settings"),
		),

		// Recipe list actions
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open recipe"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search by name"),
		),
		SearchIngredient: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Search by ingredient"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Random selection"),
		),
		Bundled: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Bundled recipes"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Detail actions
		TimerToggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Start/pause/resume timer"),
		),
		TimerReset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Reset timer"),
		),
		TimerQuick: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Set timer to 60s"),
		),
		EditNote: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Edit note"),
		),
		SaveNote: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save note"),
		),

		// Settings
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Change setting"),
		),
		ConfirmReset: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "Confirm reset"),
		),
		CancelReset: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "Cancel reset"),
		),

		// Search/input
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}
