package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shaker/internal/favorites"
	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/notes"
	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

type fakeLoader struct {
	mu       sync.Mutex
	requests []state.Query
}

func (f *fakeLoader) Request(q state.Query) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, q)
}

func (f *fakeLoader) last() (state.Query, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return state.Query{}, false
	}
	return f.requests[len(f.requests)-1], true
}

func (f *fakeLoader) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeSettings struct {
	mu          sync.Mutex
	prefs       prefs.Prefs
	updates     []prefs.Prefs
	resets      int
	translation bool
}

func (f *fakeSettings) Prefs() prefs.Prefs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs
}

func (f *fakeSettings) UpdatePrefs(p prefs.Prefs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, p)
	f.prefs = p
	return nil
}

func (f *fakeSettings) ResetAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.prefs = prefs.Default()
	return nil
}

func (f *fakeSettings) TranslationAvailable() bool {
	return f.translation
}

type harness struct {
	loader    *fakeLoader
	settings  *fakeSettings
	favorites *favorites.Store
	notes     *notes.Store
}

func testRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{Name: "Margarita", Ingredients: []string{"60 ml Tequila"}, Description: "Shake.", TimerSeconds: recipe.Seconds(15), Alcoholic: recipe.Alcoholic},
		{Name: "Shirley Temple", Ingredients: []string{"30 ml Grenadine"}, Description: "Stir.", Alcoholic: recipe.NonAlcoholic},
		{Name: "Espresso Martini", Ingredients: []string{"50 ml Vodka"}, Description: "Shake hard."},
	}
}

func newHarnessModel(t *testing.T, timerTick time.Duration) (Model, *harness) {
	t.Helper()
	mem := kv.NewMemory()
	h := &harness{
		loader:    &fakeLoader{},
		settings:  &fakeSettings{prefs: prefs.Default()},
		favorites: favorites.New(mem.Namespace(favorites.Namespace), nil),
		notes:     notes.New(mem.Namespace(notes.Namespace)),
	}
	m := New(Options{
		Loader:    h.loader,
		Favorites: h.favorites,
		Notes:     h.notes,
		Settings:  h.settings,
		TimerTick: timerTick,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, snapshotMsg(state.Snapshot{
		Recipes:     testRecipes(),
		Query:       state.Random(),
		HasData:     true,
		LastUpdated: time.Now(),
	}))
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestModel_SplashUntilFirstLoad(t *testing.T) {
	loader := &fakeLoader{}
	m := New(Options{Loader: loader})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before size = %q", got)
	}
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if view := m.View(); !strings.Contains(view, "Shaking up some recipes") {
		t.Fatalf("splash view missing loading text:\n%s", view)
	}

	m, _ = press(t, m, "r")
	if loader.count() != 0 {
		t.Fatal("keys other than quit should be ignored on the splash screen")
	}

	m = update(t, m, snapshotMsg(state.Snapshot{Recipes: testRecipes(), HasData: true, LastUpdated: time.Now()}))
	if view := m.View(); !strings.Contains(view, "Margarita") {
		t.Fatalf("recipes view missing recipe name:\n%s", view)
	}
}

func TestModel_SearchByName(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "/")
	if !m.search.active || m.search.ingredient {
		t.Fatalf("search state = %+v, want active name search", m.search)
	}
	m = typeText(t, m, "rum")
	m, _ = press(t, m, "r") // typed into the prompt, not a refresh
	m, _ = press(t, m, "enter")

	if m.search.active {
		t.Fatal("search prompt should close on enter")
	}
	if q, _ := h.loader.last(); q != state.Search("rumr") {
		t.Fatalf("last request = %#v, want search for rumr", q)
	}
	if h.loader.count() != 1 {
		t.Fatalf("requests = %d, want 1", h.loader.count())
	}
}

func TestModel_BlankNameSearchUsesDefault(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "/")
	_, _ = press(t, m, "enter")

	if q, ok := h.loader.last(); !ok || q != state.Search("") {
		t.Fatalf("last request = %#v, %v; want blank search", q, ok)
	}
}

func TestModel_SearchByIngredient(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	// Blank ingredient searches are dropped.
	m, _ = press(t, m, "i")
	m, _ = press(t, m, "enter")
	if h.loader.count() != 0 {
		t.Fatalf("blank ingredient search issued %d requests", h.loader.count())
	}

	m, _ = press(t, m, "i")
	if !m.search.ingredient {
		t.Fatal("expected ingredient mode")
	}
	m = typeText(t, m, "gin")
	_, _ = press(t, m, "enter")
	if q, _ := h.loader.last(); q != state.Ingredient("gin") {
		t.Fatalf("last request = %#v, want ingredient gin", q)
	}
}

func TestModel_SearchEscapeCancels(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "/")
	m = typeText(t, m, "vodka")
	m, _ = press(t, m, "esc")

	if m.search.active || m.search.input.Value() != "" {
		t.Fatalf("search not reset: active=%v value=%q", m.search.active, m.search.input.Value())
	}
	if h.loader.count() != 0 {
		t.Fatalf("escape issued %d requests", h.loader.count())
	}
}

func TestModel_RefreshAndBundled(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "r")
	if q, _ := h.loader.last(); q != state.Random() {
		t.Fatalf("refresh request = %#v, want random", q)
	}
	if !m.snapshot.Loading {
		t.Fatal("refresh should mark the view as loading")
	}

	_, _ = press(t, m, "b")
	if q, _ := h.loader.last(); q.Kind != state.QueryFallback {
		t.Fatalf("bundled request = %#v, want fallback", q)
	}
}

func TestModel_NavigationClamps(t *testing.T) {
	m, _ := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "k")
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d after up at top, want 0", m.selectedRow)
	}
	m, _ = press(t, m, "G")
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d after G, want 2", m.selectedRow)
	}
	m, _ = press(t, m, "j")
	if m.selectedRow != 2 {
		t.Fatalf("selectedRow = %d after down at bottom, want 2", m.selectedRow)
	}
	m, _ = press(t, m, "g")
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d after g, want 0", m.selectedRow)
	}
}

func TestModel_NewResultsResetSelection(t *testing.T) {
	m, _ := newHarnessModel(t, time.Hour)
	m, _ = press(t, m, "G")

	m = update(t, m, snapshotMsg(state.Snapshot{
		Recipes:     testRecipes()[:1],
		HasData:     true,
		LastUpdated: time.Now().Add(time.Minute),
	}))
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d after new results, want 0", m.selectedRow)
	}
}

func TestModel_ToggleFavoriteFromList(t *testing.T) {
	ctx := context.Background()
	m, h := newHarnessModel(t, time.Hour)

	m, cmd := press(t, m, "f")
	if cmd == nil {
		t.Fatal("expected a toggle command")
	}
	toggled, ok := cmd().(favoriteToggledMsg)
	if !ok || toggled.err != nil || !toggled.favorite {
		t.Fatalf("toggle msg = %#v", toggled)
	}

	next, reload := m.Update(toggled)
	m = next.(Model)
	if !m.favoriteNames["Margarita"] {
		t.Fatal("Margarita should be marked favorite")
	}
	m = update(t, m, reload())
	if len(m.favoriteList) != 1 || m.favoriteList[0].Name != "Margarita" {
		t.Fatalf("favoriteList = %#v", m.favoriteList)
	}
	if fav, _ := h.favorites.IsFavorite(ctx, "Margarita"); !fav {
		t.Fatal("favorite not persisted")
	}

	// Remove it again from the favorites view.
	m, _ = press(t, m, "2")
	if m.currentView != ViewFavorites {
		t.Fatalf("currentView = %v, want favorites", m.currentView)
	}
	_, cmd = press(t, m, "f")
	toggled = cmd().(favoriteToggledMsg)
	if toggled.favorite {
		t.Fatal("second toggle should remove the favorite")
	}
	if fav, _ := h.favorites.IsFavorite(ctx, "Margarita"); fav {
		t.Fatal("favorite still stored after removal")
	}
}

func TestModel_ViewCycling(t *testing.T) {
	m, _ := newHarnessModel(t, time.Hour)

	want := []View{ViewFavorites, ViewSettings, ViewRecipes}
	for _, v := range want {
		m, _ = press(t, m, "tab")
		if m.currentView != v {
			t.Fatalf("currentView = %v, want %v", m.currentView, v)
		}
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	m, h := newHarnessModel(t, time.Hour)

	m, cmd := press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	m = update(t, m, cmd())
	if got := h.settings.Prefs().Theme; got != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", got)
	}
	if h.loader.count() != 0 {
		t.Fatal("theme changes should not reload recipes")
	}
	if m.prefs.Theme != "Kanagawa" {
		t.Fatalf("model prefs theme = %q", m.prefs.Theme)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestModel_QuitClosesDetailTimer(t *testing.T) {
	m, _ := newHarnessModel(t, time.Hour)

	m, _ = press(t, m, "enter")
	tm := m.detail.timer
	t.Cleanup(tm.Close)
	m, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
	tm.Start()
	if tm.Running() {
		t.Fatal("timer should be closed after quitting")
	}
	if m.detail.timer != nil {
		t.Fatal("detail state should be cleared")
	}
}
