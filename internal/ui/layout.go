package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the preview pane is hidden.
	LayoutCompactWidth = 100

	// LayoutListWidth is the width of the list pane when the preview is shown.
	LayoutListWidth = 42

	// LayoutHelpWidth is the width of the help modal.
	LayoutHelpWidth = 46
)

// Panel heights, including borders.
const (
	timerPanelHeight = 5
	notePanelHeight  = 9
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI polls the store and the open timer.
	DefaultUIInterval = 250 * time.Millisecond

	// FlashDuration is how long a status message stays in the header.
	FlashDuration = 4 * time.Second

	// StoreTimeout bounds a single favorites, notes or settings operation.
	StoreTimeout = 3 * time.Second
)

// QuickTimerSeconds is the preset applied by the set-timer key.
const QuickTimerSeconds = 60
