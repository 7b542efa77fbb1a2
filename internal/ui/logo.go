package ui

import (
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	logoOnce sync.Once
	logoText string
)

// shakerLogo returns the splash logo, rendered with figlet when it is
// installed and as plain text otherwise. The result is computed once.
func shakerLogo() string {
	logoOnce.Do(func() {
		logoText = "SHAKER"
		output, err := exec.Command("figlet", "-f", "slant", "shaker").Output()
		if err != nil {
			return
		}
		if trimmed := strings.TrimRight(string(output), "\n "); strings.TrimSpace(trimmed) != "" {
			logoText = trimmed
		}
	})
	return logoText
}

// renderSplash renders the loading screen shown until the first recipe load
// lands.
func (m Model) renderSplash() string {
	styles := m.theme.Styles()

	status := m.spinner.View() + " Shaking up some recipes..."
	if m.snapshot.LastError != nil {
		status = m.spinner.View() + " Recipe service unavailable, trying again..."
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Logo.Render(shakerLogo()),
		"",
		styles.MutedText.Render(status),
		"",
		styles.FaintText.Render("q to quit"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		body,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
}
