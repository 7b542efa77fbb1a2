// Package app provides the orchestration layer for shaker.
//
// # Overview
//
// New is the composition root shared by the TUI and the CLI subcommands:
//
//  1. Load .env overrides, then ~/.config/shaker/config.toml
//  2. Load user settings from ~/.config/shaker/prefs.toml
//  3. Open the SQLite database (or an in-memory store with Ephemeral)
//  4. Build the TheCocktailDB client, the optional translator and the recipe
//     repository with the user's filters
//  5. Create the favorites and notes stores on their kv namespaces
//  6. Create the shared state.Store and the background Loader
//
// Run additionally starts the Loader, requests the initial random selection
// and hands everything to the UI. The UI shows a splash screen until that
// first load lands.
//
// # Loader
//
// The Loader owns a single-slot request queue: a new search replaces one that
// has not started yet. Every load is published to the state.Store. When a load
// degrades to the bundled recipes the Loader retries the same query with
// exponential backoff (15s base, 2 minute cap) until the API answers or the
// user asks for something else.
//
// # Settings
//
// App implements the settings hooks used by the UI: UpdatePrefs saves and
// re-applies filters and translation; ResetAll deletes the prefs file and every
// favorite. Notes survive a reset.
package app
