package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/shaker/internal/recipe"
)

const wrapWidth = 72

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	tagStyle  = lipgloss.NewStyle().Faint(true)
)

func favoriteSet(favs []recipe.Recipe) map[string]bool {
	set := make(map[string]bool, len(favs))
	for _, r := range favs {
		set[r.Name] = true
	}
	return set
}

// printRecipes writes one line per recipe, or a full card each when full is
// set.
func printRecipes(w io.Writer, recipes []recipe.Recipe, favs map[string]bool, full bool) {
	for i, r := range recipes {
		if full && i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, recipeLine(r, favs[r.Name]))
		if full {
			printCard(w, r)
		}
	}
}

func recipeLine(r recipe.Recipe, favorite bool) string {
	marker := "  "
	if favorite {
		marker = "★ "
	}
	var tags []string
	switch strings.TrimSpace(r.Alcoholic) {
	case recipe.NonAlcoholic:
		tags = append(tags, "non-alcoholic")
	case recipe.OptionalAlcohol:
		tags = append(tags, "optional alcohol")
	}
	if r.HasTimer() {
		tags = append(tags, "timer "+clock(r.Timer()))
	}
	line := marker + nameStyle.Render(r.Name)
	if len(tags) > 0 {
		line += "  " + tagStyle.Render(strings.Join(tags, ", "))
	}
	return line
}

func printCard(w io.Writer, r recipe.Recipe) {
	for _, ing := range r.Ingredients {
		fmt.Fprintf(w, "    - %s\n", ing)
	}
	if desc := strings.TrimSpace(r.Description); desc != "" {
		for _, line := range strings.Split(ansi.Wordwrap(desc, wrapWidth, ""), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
