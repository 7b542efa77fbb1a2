package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"Margarita", 20, "Margarita"},
		{"  Margarita  ", 9, "Margarita"},
		{"Espresso Martini", 10, "Espress..."},
		{"Mojito", 3, "Moj"},
		{"Piña Colada", 6, "Piñ..."},
		{"Negroni", 0, "Negroni"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Fatalf("padRight should not cut: %q", got)
	}
	if got := ansi.StringWidth(padRight("★ Sour", 10)); got != 10 {
		t.Fatalf("padded width = %d, want 10", got)
	}
}

func TestWrapLines(t *testing.T) {
	if got := wrapLines("   ", 10); got != nil {
		t.Fatalf("wrapLines(blank) = %#v, want nil", got)
	}

	lines := wrapLines("Shake with ice and strain into a chilled glass", 12)
	if len(lines) < 4 {
		t.Fatalf("wrapLines produced %d lines: %#v", len(lines), lines)
	}
	for _, line := range lines {
		if ansi.StringWidth(line) > 12 {
			t.Fatalf("line %q wider than 12", line)
		}
	}
	if joined := strings.Join(strings.Fields(strings.Join(lines, " ")), " "); joined != "Shake with ice and strain into a chilled glass" {
		t.Fatalf("wrapping lost words: %q", joined)
	}

	for _, line := range wrapLines("Supercalifragilistic", 5) {
		if ansi.StringWidth(line) > 5 {
			t.Fatalf("long word not hard-wrapped: %q", line)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:   "0:00",
		5:   "0:05",
		60:  "1:00",
		75:  "1:15",
		600: "10:00",
		-3:  "0:00",
	}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Errorf("formatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
