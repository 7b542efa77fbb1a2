// Package config loads shaker's configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shaker/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. SHAKER_* environment variables override whatever the file said
//
// Call LoadDotEnv before Load to pull those variables from a .env file.
// Variables already present in the environment win over the file.
//
// # Default Values
//
//   - Config file: ~/.config/shaker/config.toml
//   - API base URL: https://www.thecocktaildb.com/api/json/v1/1/
//   - Request timeout: 10 seconds
//   - Data directory: ~/.local/share/shaker (database at <data_dir>/shaker.db)
//   - Log file: ~/.local/share/shaker/shaker.log
//   - Translation: off (no translate_url)
//
// # TOML Format
//
//	api_base_url = "https://www.thecocktaildb.com/api/json/v1/1/"
//	request_timeout_seconds = 10
//	data_dir = "~/.local/share/shaker"
//	log_file = "~/.local/share/shaker/shaker.log"
//	translate_url = "http://localhost:5000"
//	translate_api_key = ""
//
// Every field is optional. Tilde expansion is performed for data_dir and
// log_file.
//
// # Environment
//
//   - SHAKER_API_BASE_URL overrides api_base_url
//   - SHAKER_TRANSLATE_URL overrides translate_url
//   - SHAKER_TRANSLATE_API_KEY overrides translate_api_key
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing file is not an error.
//
// User-editable settings (theme, filters, translation language) are not part
// of this file; see package prefs.
package config
