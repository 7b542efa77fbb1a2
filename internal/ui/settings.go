package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/translate"
)

// settingsItem identifies a line on the settings screen.
type settingsItem int

const (
	rowNonAlcoholic settingsItem = iota
	rowUnit
	rowTranslate
	rowTheme
	rowReset
	settingsItemCount
)

// translationTargets is the cycle offered for the translation setting.
// Empty means off.
var translationTargets = []string{"", "es", "de", "fr", "it", "pl", "pt"}

type prefsSavedMsg struct {
	prefs  prefs.Prefs
	reload bool
	err    error
}

type resetDoneMsg struct {
	err error
}

// savePrefsCmd persists p. reload asks for the current query to be loaded
// again so filters and translation apply to the list on screen.
func (m Model) savePrefsCmd(p prefs.Prefs, reload bool) tea.Cmd {
	if m.settings == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.settings.UpdatePrefs(p); err != nil {
			return prefsSavedMsg{prefs: p, reload: reload, err: err}
		}
		return prefsSavedMsg{prefs: m.settings.Prefs(), reload: reload}
	}
}

// resetAllCmd clears saved settings and favorites.
func (m Model) resetAllCmd() tea.Cmd {
	if m.settings == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		return resetDoneMsg{err: m.settings.ResetAll(ctx)}
	}
}

func (m *Model) handlePrefsSaved(msg prefsSavedMsg) {
	if msg.err != nil {
		m.log.Warn("save settings failed", "error", msg.err)
		m.setFlash("Could not save settings", true)
		return
	}
	m.prefs = msg.prefs
	m.theme = GetTheme(msg.prefs.Theme)
	m.updateDetailViewport()
	if msg.reload {
		m.request(m.snapshot.Query)
	}
}

func (m Model) handleResetDone(msg resetDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("reset failed", "error", msg.err)
		m.setFlash("Reset failed", true)
		return m, nil
	}
	if m.settings != nil {
		m.prefs = m.settings.Prefs()
	} else {
		m.prefs = prefs.Default()
	}
	m.theme = GetTheme(m.prefs.Theme)
	m.setFlash("Settings and favorites reset", false)
	m.request(m.snapshot.Query)
	return m, m.loadFavoritesCmd()
}

// handleSettingsKey processes keyboard input for the settings view.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Toggle) {
		return m.changeSetting(settingsItem(m.settingsRow))
	}
	if cursor, moved := m.moveCursor(msg, m.settingsRow, int(settingsItemCount)); moved {
		m.settingsRow = cursor
	}
	return m, nil
}

// changeSetting toggles or cycles the value on row and saves it.
func (m Model) changeSetting(row settingsItem) (tea.Model, tea.Cmd) {
	p := m.prefs
	switch row {
	case rowNonAlcoholic:
		p.NonAlcoholicOnly = !p.NonAlcoholicOnly
		return m, m.savePrefsCmd(p, true)

	case rowUnit:
		if p.MeasurementUnit == string(recipe.UnitOz) {
			p.MeasurementUnit = string(recipe.UnitML)
		} else {
			p.MeasurementUnit = string(recipe.UnitOz)
		}
		return m, m.savePrefsCmd(p, true)

	case rowTranslate:
		if m.settings != nil && !m.settings.TranslationAvailable() {
			m.setFlash("Set translate_url in config.toml to enable translation", true)
			return m, nil
		}
		p.TranslateTo = nextTarget(p.TranslateTo)
		return m, m.savePrefsCmd(p, true)

	case rowTheme:
		p.Theme = NextTheme(m.theme.Name)
		m.theme = GetTheme(p.Theme)
		return m, m.savePrefsCmd(p, false)

	case rowReset:
		m.confirmReset = true
		return m, nil
	}
	return m, nil
}

// nextTarget returns the translation language after current.
func nextTarget(current string) string {
	current = strings.ToLower(strings.TrimSpace(current))
	for i, code := range translationTargets {
		if code == current {
			return translationTargets[(i+1)%len(translationTargets)]
		}
	}
	return translationTargets[0]
}

// handleResetConfirm waits for the answer to the reset prompt.
func (m Model) handleResetConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ConfirmReset):
		m.confirmReset = false
		return m, m.resetAllCmd()
	case key.Matches(msg, m.keys.CancelReset):
		m.confirmReset = false
	}
	return m, nil
}

// renderSettings renders the settings list.
func (m Model) renderSettings() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	innerWidth := max(10, m.width-2)

	translateValue := translate.DisplayName(m.prefs.TranslateTo)
	translateHint := "Translate instructions and ingredients"
	if m.settings != nil && !m.settings.TranslationAvailable() {
		translateHint = "Needs translate_url in config.toml"
	}

	rows := []struct {
		label string
		value string
		hint  string
	}{
		{"Non-alcoholic only", ternary(m.prefs.NonAlcoholicOnly, "[x]", "[ ]"), "Hide drinks that contain alcohol"},
		{"Measurement unit", m.prefs.MeasurementUnit, "Convert oz, ml and cl measures"},
		{"Translate to", translateValue, translateHint},
		{"Theme", m.theme.Name, "Also available anywhere with T"},
		{"Reset all", "", "Restore default settings and clear favorites. Notes are kept"},
	}

	lines := make([]string, 0, len(rows)*2+2)
	for i, row := range rows {
		selected := i == m.settingsRow
		label := padRight(row.label, 22)
		var line string
		if selected {
			sel := NewBgStyle(m.theme.SelectionBg)
			selStyles := m.theme.Styles().WithBackground(m.theme.SelectionBg)
			line = sel.FillLine(sel.Render("> "+label, selStyles.Text.Bold(true))+sel.Render(row.value, selStyles.AccentText.Bold(true)), innerWidth)
		} else {
			line = bg.Render("  "+label, styles.Text) + bg.Render(row.value, styles.AccentText)
		}
		lines = append(lines, line, bg.Render("    "+row.hint, styles.FaintText))
	}

	if m.confirmReset {
		lines = append(lines, "", bg.Render("Reset settings and remove every favorite? (y/n)", styles.DangerText))
	}
	if m.prefs.NonAlcoholicOnly || m.prefs.MeasurementUnit != string(recipe.DefaultUnit) {
		lines = append(lines, "", bg.Render(fmt.Sprintf("Filters apply to new loads: %s", m.filterSummary()), styles.MutedText))
	}

	return m.renderTitledBox("Settings", strings.Join(lines, "\n"), m.width, m.contentHeight(), true)
}

// filterSummary describes the active recipe filters.
func (m Model) filterSummary() string {
	var parts []string
	if m.prefs.NonAlcoholicOnly {
		parts = append(parts, "non-alcoholic only")
	}
	parts = append(parts, "measures in "+m.prefs.MeasurementUnit)
	return strings.Join(parts, ", ")
}
