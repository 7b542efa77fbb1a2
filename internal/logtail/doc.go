// Package logtail reads and highlights the shaker log file.
//
// The TUI writes slog text output to a file so the terminal stays clean;
// `shaker logs` uses this package to show the end of that file.
//
//   - Read returns the last N lines through a ring buffer
//   - Filter drops lines below a minimum slog level
//   - Highlight colors the level=... attribute with lipgloss
//
// Lines that do not look like slog output (panic traces, wrapped values) are
// passed through untouched.
package logtail
