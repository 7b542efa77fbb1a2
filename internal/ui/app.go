package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewRecipes View = iota
	ViewFavorites
	ViewSettings
	ViewDetail
)

// Loader queues recipe loads in the background.
type Loader interface {
	Request(q state.Query)
}

// FavoriteStore is the subset of the favorites store the UI needs.
type FavoriteStore interface {
	Toggle(ctx context.Context, r recipe.Recipe) (bool, error)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]recipe.Recipe, error)
}

// NoteStore is the subset of the notes store the UI needs.
type NoteStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, text string) error
}

// Settings reads and persists user settings.
type Settings interface {
	Prefs() prefs.Prefs
	UpdatePrefs(p prefs.Prefs) error
	ResetAll(ctx context.Context) error
	TranslationAvailable() bool
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Loader    Loader
	Favorites FavoriteStore
	Notes     NoteStore
	Settings  Settings
	Logger    *slog.Logger
	PollTick  time.Duration // store and timer refresh; default DefaultUIInterval
	TimerTick time.Duration // countdown step; default one second
}

// searchState holds the recipe search prompt.
type searchState struct {
	active     bool
	ingredient bool
	input      textinput.Model
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	loader    Loader
	favorites FavoriteStore
	notes     NoteStore
	settings  Settings
	log       *slog.Logger
	pollTick  time.Duration
	timerTick time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Data state
	snapshot state.Snapshot
	prefs    prefs.Prefs

	// Recipes state
	selectedRow int
	search      searchState

	// Favorites state
	favoriteList   []recipe.Recipe
	favoriteNames  map[string]bool
	favoriteCursor int

	// Detail state
	detail detailState

	// Settings state
	settingsRow  int
	confirmReset bool

	// Status line message
	flash      string
	flashError bool
	flashUntil time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	timerTick := opts.TimerTick
	if timerTick <= 0 {
		timerTick = time.Second
	}

	userPrefs := prefs.Default()
	if opts.Settings != nil {
		userPrefs = opts.Settings.Prefs()
	}

	ti := textinput.New()
	ti.Placeholder = "cocktail name..."
	ti.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:           ctx,
		store:         opts.Store,
		loader:        opts.Loader,
		favorites:     opts.Favorites,
		notes:         opts.Notes,
		settings:      opts.Settings,
		log:           log,
		pollTick:      pollTick,
		timerTick:     timerTick,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(userPrefs.Theme),
		currentView:   ViewRecipes,
		spinner:       sp,
		prefs:         userPrefs,
		search:        searchState{input: ti},
		favoriteNames: make(map[string]bool),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.loadFavoritesCmd(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.search.input.Width = max(10, m.width/3)
		m.resizeDetail()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case favoritesMsg:
		m.handleFavorites(msg)
		return m, nil

	case favoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case noteLoadedMsg:
		m.handleNoteLoaded(msg)
		return m, nil

	case noteSavedMsg:
		m.handleNoteSaved(msg)
		return m, nil

	case prefsSavedMsg:
		m.handlePrefsSaved(msg)
		return m, nil

	case resetDoneMsg:
		return m.handleResetDone(msg)
	}

	if m.detail.editing {
		var cmd tea.Cmd
		m.detail.editor, cmd = m.detail.editor.Update(msg)
		return m, cmd
	}
	if m.search.active {
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if !m.snapshot.HasData {
		return m.renderSplash()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Text inputs and prompts get the key
// first; global keys come next and view keys last.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.closeDetail()
		return m, tea.Quit
	}

	// Splash screen: only quitting is meaningful.
	if !m.snapshot.HasData {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.search.active {
		return m.handleSearchInput(msg)
	}
	if m.detail.editing {
		return m.handleNoteInput(msg)
	}
	if m.confirmReset {
		return m.handleResetConfirm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeDetail()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		p := m.prefs
		p.Theme = m.theme.Name
		return m, m.savePrefsCmd(p, false)

	case key.Matches(msg, m.keys.Tab):
		m.switchView(nextView(m.baseView(), 1))
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.switchView(nextView(m.baseView(), -1))
		return m, nil

	case key.Matches(msg, m.keys.ViewRecipes):
		m.switchView(ViewRecipes)
		return m, nil

	case key.Matches(msg, m.keys.ViewFavorites):
		m.switchView(ViewFavorites)
		return m, nil

	case key.Matches(msg, m.keys.ViewSettings):
		m.switchView(ViewSettings)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewDetail {
			m.switchView(m.detail.returnTo)
			return m, nil
		}
		m.switchView(ViewRecipes)
		return m, nil
	}

	switch m.currentView {
	case ViewRecipes:
		return m.handleRecipesKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// baseView is the list view behind an open detail.
func (m Model) baseView() View {
	if m.currentView == ViewDetail {
		return m.detail.returnTo
	}
	return m.currentView
}

// nextView cycles Recipes, Favorites and Settings.
func nextView(v View, step int) View {
	order := []View{ViewRecipes, ViewFavorites, ViewSettings}
	idx := 0
	for i, candidate := range order {
		if candidate == v {
			idx = i
		}
	}
	return order[(idx+step+len(order))%len(order)]
}

// switchView changes the active view. Leaving the detail view tears down its
// timer.
func (m *Model) switchView(v View) {
	if m.currentView == ViewDetail && v != ViewDetail {
		m.closeDetail()
	}
	if v != ViewSettings {
		m.confirmReset = false
	}
	m.currentView = v
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	m.observeTimer()
	if m.flash != "" && time.Now().After(m.flashUntil) {
		m.flash = ""
		m.flashError = false
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot stores a fresh snapshot and keeps the selection in range.
// A new result set moves the cursor back to the top.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if !snap.LastUpdated.Equal(m.snapshot.LastUpdated) {
		m.selectedRow = 0
	}
	m.snapshot = snap
	if m.selectedRow >= len(snap.Recipes) {
		m.selectedRow = max(0, len(snap.Recipes)-1)
	}
}

// setFlash shows a transient message in the header.
func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
	m.flashUntil = time.Now().Add(FlashDuration)
}

// request queues a recipe load if a loader is wired.
func (m *Model) request(q state.Query) {
	if m.loader == nil {
		return
	}
	m.loader.Request(q)
	m.snapshot.Loading = true
}

// renderMain renders the header, the command bar and the active view.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Render(b.String())
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewRecipes:
		return m.renderRecipes()
	case ViewFavorites:
		return m.renderFavorites()
	case ViewSettings:
		return m.renderSettings()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

// contentHeight is the number of rows below the header and command bar.
func (m Model) contentHeight() int {
	return max(3, m.height-2)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// opContext bounds a single storage operation.
func (m Model) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, StoreTimeout)
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.closeDetail()
	}
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
