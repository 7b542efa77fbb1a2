package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/timer"
)

// detailState holds the open recipe, its countdown and the note editor.
// The timer lives exactly as long as the detail view.
type detailState struct {
	recipe     recipe.Recipe
	returnTo   View
	timer      *timer.Timer
	wasRunning bool
	note       string
	editing    bool
	editor     textarea.Model
	viewport   viewport.Model
}

type noteLoadedMsg struct {
	name string
	text string
	err  error
}

type noteSavedMsg struct {
	name string
	text string
	err  error
}

// openDetail shows r and creates its timer, seeded from the recipe.
func (m *Model) openDetail(r recipe.Recipe, from View) tea.Cmd {
	m.closeDetail()

	t := timer.New(m.ctx, timer.WithTick(m.timerTick), timer.WithLogger(m.log))
	t.Init(r.Timer())

	editor := textarea.New()
	editor.Placeholder = "Your tweaks, substitutions, ratings..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 2000

	m.detail = detailState{
		recipe:   r,
		returnTo: from,
		timer:    t,
		editor:   editor,
		viewport: viewport.New(0, 0),
	}
	m.currentView = ViewDetail
	m.resizeDetail()
	m.log.Debug("recipe opened", "recipe", r.Name, "timer", r.Timer())
	return m.loadNoteCmd(r.Name)
}

// closeDetail stops the detail timer. Safe to call when nothing is open.
func (m *Model) closeDetail() {
	if m.detail.timer != nil {
		m.detail.timer.Close()
	}
	m.detail = detailState{}
}

// resizeDetail fits the viewport and the editor to the window.
func (m *Model) resizeDetail() {
	if m.detail.timer == nil || m.width == 0 {
		return
	}
	inner := max(10, m.width-4)
	m.detail.viewport.Width = inner
	m.detail.viewport.Height = max(1, m.contentHeight()-timerPanelHeight-2-m.notePanelRows())
	m.detail.editor.SetWidth(inner)
	m.detail.editor.SetHeight(max(1, notePanelHeight-2))
	m.updateDetailViewport()
}

// notePanelRows is the height taken by the note editor while it is open.
func (m Model) notePanelRows() int {
	if m.detail.editing {
		return notePanelHeight
	}
	return 0
}

// updateDetailViewport re-renders the recipe body into the viewport.
func (m *Model) updateDetailViewport() {
	if m.detail.timer == nil {
		return
	}
	lines := m.recipeLines(m.detail.recipe, m.detail.viewport.Width, m.detail.note, m.theme.FocusBg)
	m.detail.viewport.SetContent(strings.Join(lines, "\n"))
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.detail
	if d.timer == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.TimerToggle):
		m.toggleTimer()
		return m, nil

	case key.Matches(msg, m.keys.TimerReset):
		d.timer.Reset(d.recipe.Timer())
		d.wasRunning = false
		return m, nil

	case key.Matches(msg, m.keys.TimerQuick):
		d.timer.Reset(QuickTimerSeconds)
		d.wasRunning = false
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleFavoriteCmd(d.recipe)

	case key.Matches(msg, m.keys.EditNote):
		d.editing = true
		d.editor.SetValue(d.note)
		m.resizeDetail()
		return m, d.editor.Focus()
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return m, cmd
}

// toggleTimer starts, pauses or resumes the countdown. Starting a finished
// countdown re-seeds it from the recipe first.
func (m *Model) toggleTimer() {
	t := m.detail.timer
	switch {
	case t.State() == timer.StateRunning:
		t.Pause()
		m.detail.wasRunning = false
	case t.Remaining() == 0:
		seed := m.detail.recipe.Timer()
		if seed == 0 {
			m.setFlash(fmt.Sprintf("No timer for this recipe, press 6 for %ds", QuickTimerSeconds), false)
			return
		}
		t.Reset(seed)
		t.Start()
		m.detail.wasRunning = true
	case t.State() == timer.StatePaused:
		t.Resume()
		m.detail.wasRunning = true
	default:
		t.Start()
		m.detail.wasRunning = true
	}
}

// observeTimer announces a countdown that reached zero since the last tick.
func (m *Model) observeTimer() {
	t := m.detail.timer
	if t == nil || !m.detail.wasRunning {
		return
	}
	snap := t.Snapshot()
	if snap.State == timer.StateRunning {
		return
	}
	m.detail.wasRunning = false
	if snap.Remaining == 0 {
		m.setFlash(fmt.Sprintf("Time's up: %s", m.detail.recipe.Name), false)
		m.log.Info("timer finished", "recipe", m.detail.recipe.Name)
	}
}

// timerActionLabel describes what the timer key will do next.
func (m Model) timerActionLabel() string {
	t := m.detail.timer
	if t == nil {
		return "Start"
	}
	switch {
	case t.State() == timer.StateRunning:
		return "Pause"
	case t.Remaining() == 0:
		return "Restart"
	case t.State() == timer.StatePaused:
		return "Resume"
	default:
		return "Start"
	}
}

// handleNoteInput handles keyboard input while the note editor is open.
func (m Model) handleNoteInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.detail
	switch {
	case key.Matches(msg, m.keys.SaveNote):
		text := d.editor.Value()
		d.editing = false
		d.editor.Blur()
		m.resizeDetail()
		return m, m.saveNoteCmd(d.recipe.Name, text)

	case key.Matches(msg, m.keys.Escape):
		d.editing = false
		d.editor.Blur()
		m.resizeDetail()
		return m, nil
	}

	var cmd tea.Cmd
	d.editor, cmd = d.editor.Update(msg)
	return m, cmd
}

// loadNoteCmd reads the saved note for name.
func (m Model) loadNoteCmd(name string) tea.Cmd {
	if m.notes == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		text, err := m.notes.Get(ctx, name)
		return noteLoadedMsg{name: name, text: text, err: err}
	}
}

// saveNoteCmd stores text as the note for name. Empty text is saved as is.
func (m Model) saveNoteCmd(name, text string) tea.Cmd {
	if m.notes == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.opContext()
		defer cancel()
		err := m.notes.Set(ctx, name, text)
		return noteSavedMsg{name: name, text: text, err: err}
	}
}

func (m *Model) handleNoteLoaded(msg noteLoadedMsg) {
	if msg.err != nil {
		m.log.Warn("load note failed", "recipe", msg.name, "error", msg.err)
		return
	}
	if m.detail.timer == nil || m.detail.recipe.Name != msg.name {
		return
	}
	m.detail.note = msg.text
	m.updateDetailViewport()
}

func (m *Model) handleNoteSaved(msg noteSavedMsg) {
	if msg.err != nil {
		m.log.Warn("save note failed", "recipe", msg.name, "error", msg.err)
		m.setFlash("Could not save note", true)
		return
	}
	m.setFlash("Note saved", false)
	if m.detail.timer != nil && m.detail.recipe.Name == msg.name {
		m.detail.note = msg.text
		m.updateDetailViewport()
	}
}

// renderDetail renders the recipe body, the timer panel and, while editing,
// the note editor.
func (m Model) renderDetail() string {
	d := m.detail
	if d.timer == nil {
		return ""
	}
	height := m.contentHeight()
	bodyHeight := max(3, height-timerPanelHeight-m.notePanelRows())

	title := d.recipe.Name
	if m.favoriteNames[d.recipe.Name] {
		title = "★ " + title
	}
	sections := []string{
		m.renderTitledBox(title, d.viewport.View(), m.width, bodyHeight, !d.editing),
		m.renderTimerPanel(),
	}
	if d.editing {
		sections = append(sections, m.renderTitledBox("Note", d.editor.View(), m.width, notePanelHeight, true))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTimerPanel renders the countdown clock and its state.
func (m Model) renderTimerPanel() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	snap := m.detail.timer.Snapshot()

	clockStyle := styles.Text.Bold(true)
	var state string
	switch {
	case snap.State == timer.StateRunning:
		clockStyle = styles.SuccessText
		state = "running"
	case snap.State == timer.StatePaused:
		clockStyle = styles.WarningText.Bold(true)
		state = "paused"
	case snap.Remaining == 0 && m.detail.recipe.HasTimer():
		clockStyle = styles.DangerText
		state = "done"
	case snap.Remaining == 0:
		clockStyle = styles.FaintText
		state = fmt.Sprintf("no timer, press 6 for %ds", QuickTimerSeconds)
	default:
		state = "ready"
	}

	line := bg.Render(formatClock(snap.Remaining), clockStyle) + bg.Spaces(2) + bg.Render(state, styles.MutedText)
	if seed := m.detail.recipe.Timer(); seed > 0 {
		line += bg.Spaces(2) + bg.Render("suggested "+formatClock(seed), styles.FaintText)
	}
	hints := bg.Hint("Space", m.timerActionLabel(), styles.AccentText, styles.MutedText) + bg.Spaces(2) +
		bg.Hint("x", "Reset", styles.AccentText, styles.MutedText) + bg.Spaces(2) +
		bg.Hint("6", fmt.Sprintf("%ds", QuickTimerSeconds), styles.AccentText, styles.MutedText)

	return m.renderTitledBox("Timer", line+"\n\n"+hints, m.width, timerPanelHeight, false)
}
