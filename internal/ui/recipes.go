package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shaker/internal/recipe"
	"github.com/five82/shaker/internal/state"
)

// handleRecipesKey processes keyboard input for the recipe list.
func (m Model) handleRecipesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch(false)

	case key.Matches(msg, m.keys.SearchIngredient):
		return m, m.startSearch(true)

	case key.Matches(msg, m.keys.Refresh):
		m.request(state.Random())
		return m, nil

	case key.Matches(msg, m.keys.Bundled):
		m.request(state.Query{Kind: state.QueryFallback})
		return m, nil
	}

	r, ok := m.selectedRecipe()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		return m, m.openDetail(r, ViewRecipes)
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleFavoriteCmd(r)
	}

	if cursor, moved := m.moveCursor(msg, m.selectedRow, len(m.snapshot.Recipes)); moved {
		m.selectedRow = cursor
	}
	return m, nil
}

// selectedRecipe returns the recipe under the list cursor.
func (m Model) selectedRecipe() (recipe.Recipe, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Recipes) {
		return recipe.Recipe{}, false
	}
	return m.snapshot.Recipes[m.selectedRow], true
}

// moveCursor applies a navigation key to cursor over count rows and reports
// whether msg was a navigation key.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, count int) (int, bool) {
	if count == 0 {
		return 0, false
	}
	page := max(1, m.listRows())
	switch {
	case key.Matches(msg, m.keys.Up):
		cursor--
	case key.Matches(msg, m.keys.Down):
		cursor++
	case key.Matches(msg, m.keys.Top):
		cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		cursor = count - 1
	case key.Matches(msg, m.keys.PageUp):
		cursor -= page
	case key.Matches(msg, m.keys.PageDown):
		cursor += page
	case key.Matches(msg, m.keys.HalfPageUp):
		cursor -= max(1, page/2)
	case key.Matches(msg, m.keys.HalfPageDown):
		cursor += max(1, page/2)
	default:
		return cursor, false
	}
	return min(max(cursor, 0), count-1), true
}

// startSearch focuses the search prompt in name or ingredient mode.
func (m *Model) startSearch(ingredient bool) tea.Cmd {
	m.search.active = true
	m.search.ingredient = ingredient
	m.search.input.Placeholder = ternary(ingredient, "ingredient, e.g. gin...", "cocktail name...")
	m.search.input.SetValue("")
	return m.search.input.Focus()
}

// handleSearchInput handles keyboard input while the search prompt is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := strings.TrimSpace(m.search.input.Value())
		m.search.active = false
		m.search.input.Blur()
		if m.search.ingredient {
			if query == "" {
				return m, nil
			}
			m.request(state.Ingredient(query))
		} else {
			// A blank name search falls back to the default query.
			m.request(state.Search(query))
		}
		m.selectedRow = 0
		m.switchView(ViewRecipes)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.search.active = false
		m.search.input.Blur()
		m.search.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// listRows is the number of list rows visible inside a panel.
func (m Model) listRows() int {
	return max(1, m.contentHeight()-2)
}

// listWidth returns the list panel width, or the full width in compact mode.
func (m Model) listWidth() int {
	if m.width < LayoutCompactWidth {
		return m.width
	}
	return LayoutListWidth
}

// renderRecipes renders the recipe list with a preview of the selection.
func (m Model) renderRecipes() string {
	snap := m.snapshot
	title := fmt.Sprintf("Recipes (%d)", len(snap.Recipes))
	if snap.Query.Kind != state.QueryRandom {
		title = fmt.Sprintf("%s - %d", titleFromQuery(snap.Query), len(snap.Recipes))
	}

	empty := "No recipes found. Press / to search or r for a random selection."
	if snap.Query.Kind == state.QueryIngredient {
		empty = fmt.Sprintf("No recipes with %q. Press i to try another ingredient.", snap.Query.Text)
	}

	selected, ok := m.selectedRecipe()
	return m.renderListWithPreview(title, snap.Recipes, m.selectedRow, empty, selected, ok)
}

// titleFromQuery renders a query as a panel title.
func titleFromQuery(q state.Query) string {
	label := q.Label()
	if label == "" {
		return "Recipes"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// renderListWithPreview lays out a recipe list and, on wide terminals, a
// preview panel for the selected recipe.
func (m Model) renderListWithPreview(title string, items []recipe.Recipe, cursor int, empty string, selected recipe.Recipe, hasSelection bool) string {
	height := m.contentHeight()
	listWidth := m.listWidth()
	innerWidth := max(1, listWidth-2)

	var content string
	if len(items) == 0 {
		content = strings.Join(wrapLines(empty, innerWidth), "\n")
	} else {
		content = m.renderRecipeRows(items, cursor, innerWidth, m.listRows())
	}
	list := m.renderTitledBox(title, content, listWidth, height, true)
	if m.width < LayoutCompactWidth {
		return list
	}

	previewWidth := m.width - listWidth
	var body string
	if hasSelection {
		body = strings.Join(m.recipeLines(selected, previewWidth-4, "", m.theme.SurfaceAlt), "\n")
	}
	preview := m.renderTitledBox(ternary(hasSelection, selected.Name, "Preview"), body, previewWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
}

// renderRecipeRows renders visible rows, scrolled so the cursor stays on
// screen.
func (m Model) renderRecipeRows(items []recipe.Recipe, cursor, width, rows int) string {
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	end := min(len(items), start+rows)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRecipeRow(items[i], i == cursor, width))
	}
	return strings.Join(lines, "\n")
}

// renderRecipeRow renders one list row: favorite marker, name and a short
// alcohol tag.
func (m Model) renderRecipeRow(r recipe.Recipe, selected bool, width int) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	marker := "  "
	if m.favoriteNames[r.Name] {
		marker = "★ "
	}
	tag := alcoholTag(r)
	if r.HasTimer() {
		tag = strings.TrimSpace(tag + " ⏱")
	}
	nameWidth := max(1, width-len([]rune(marker))-len([]rune(tag))-1)
	name := padRight(truncate(r.Name, nameWidth), nameWidth)

	nameStyle := styles.Text
	if selected {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText)).Bold(true)
	}
	row := bg.Render(marker, styles.WarningText) +
		bg.Render(name, nameStyle) +
		bg.Space() +
		bg.Render(tag, styles.FaintText)
	return bg.FillLine(row, width)
}

// alcoholTag is the short list marker for a recipe's alcohol content.
func alcoholTag(r recipe.Recipe) string {
	switch r.Alcoholic {
	case recipe.NonAlcoholic:
		return "NA"
	case recipe.OptionalAlcohol:
		return "OPT"
	default:
		return ""
	}
}

// alcoholBadge maps a recipe to its badge name and label.
func alcoholBadge(r recipe.Recipe) (string, string) {
	switch r.Alcoholic {
	case recipe.NonAlcoholic:
		return BadgeNonAlcoholic, "Non-alcoholic"
	case recipe.OptionalAlcohol:
		return BadgeOptional, "Optional alcohol"
	case "":
		return "", ""
	default:
		return BadgeAlcoholic, "Alcoholic"
	}
}

// recipeLines renders a recipe's badges, ingredients, instructions and note
// as wrapped lines of at most width cells on the bgColor panel background.
func (m Model) recipeLines(r recipe.Recipe, width int, note, bgColor string) []string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	width = max(10, width)
	heading := styles.AccentText.Bold(true)

	var badges []string
	if badge, label := alcoholBadge(r); badge != "" {
		badges = append(badges, styles.BadgeStyle(badge).Render(label))
	}
	if m.favoriteNames[r.Name] {
		badges = append(badges, styles.BadgeStyle(BadgeFavorite).Render("★ Favorite"))
	}
	if r.HasTimer() {
		badges = append(badges, styles.BadgeStyle(BadgeTimer).Render("⏱ "+formatClock(r.Timer())))
	}

	var lines []string
	if len(badges) > 0 {
		lines = append(lines, strings.Join(badges, bg.Space()), "")
	}

	lines = append(lines, bg.Render("Ingredients", heading))
	if len(r.Ingredients) == 0 {
		lines = append(lines, bg.Render("  none listed", styles.FaintText))
	}
	for _, ing := range r.Ingredients {
		for i, l := range wrapLines(ing, width-4) {
			prefix := ternary(i == 0, "  • ", "    ")
			lines = append(lines, bg.Render(prefix+l, styles.Text))
		}
	}

	lines = append(lines, "", bg.Render("Instructions", heading))
	desc := wrapLines(r.Description, width-2)
	if len(desc) == 0 {
		lines = append(lines, bg.Render("  none", styles.FaintText))
	}
	for _, l := range desc {
		lines = append(lines, bg.Render("  "+l, styles.Text))
	}

	if strings.TrimSpace(note) != "" {
		lines = append(lines, "", bg.Render("Note", heading))
		for _, l := range wrapLines(note, width-2) {
			lines = append(lines, bg.Render("  "+l, styles.WarningText))
		}
	}
	return lines
}
