// Package ui provides the shaker terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the single state container; the
// background Loader owns all network work and publishes results into a
// state.Store, which the UI polls on every tick. Favorites, notes and
// settings are read and written through tea.Cmd functions so Update never
// blocks on storage.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - recipes.go: recipe list, search prompt and the shared list/preview layout
//   - favorites.go: favorites list and favorite toggling
//   - detail.go: recipe detail with countdown timer and note editor
//   - settings.go: settings screen and reset confirmation
//   - header.go: status bar and command bar
//   - help.go: key binding overlay
//   - logo.go: splash screen shown until the first load lands
//   - box.go, style_helpers.go, strings.go: rendering helpers
//   - theme.go, keys.go, layout.go: themes, key map and layout constants
//
// # View Types
//
//   - Recipes: current result set (random selection, name search, ingredient
//     search or the bundled list) with a preview pane on wide terminals
//   - Favorites: saved recipes, newest data as stored, sorted by name
//   - Recipe: ingredients, instructions, the user's note and a timer
//   - Settings: non-alcoholic filter, measurement unit, translation
//     language, theme and reset all
//
// # Timer Lifecycle
//
// Opening a recipe creates a timer.Timer seeded from the recipe's suggested
// seconds. Space starts, pauses or resumes it; starting a finished countdown
// re-seeds it from the recipe. x resets to the recipe value and 6 sets 60
// seconds. Leaving the detail view, quitting, or the program exiting closes
// the timer so no countdown goroutine outlives its view.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:   ctx,
//		Store:     store,
//		Loader:    loader,
//		Favorites: favs,
//		Notes:     notes,
//		Settings:  app,
//		Logger:    log,
//	})
//
// # Key Bindings
//
//   - 1/2/3 or Tab: Recipes, Favorites, Settings
//   - /: Search by name, i: search by ingredient
//   - r: New random selection, b: bundled recipes
//   - f: Toggle favorite, Enter: open recipe
//   - Space/x/6: Timer start-pause-resume, reset, 60s
//   - n: Edit note (ctrl+s saves, Esc discards)
//   - T: Cycle theme, ?: help, q or Ctrl+C: quit
package ui
