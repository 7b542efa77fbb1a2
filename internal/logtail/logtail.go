package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// LineLevel extracts the level=... attribute written by slog's text handler.
func LineLevel(line string) (slog.Level, bool) {
	token, ok := levelToken(line)
	if !ok {
		return 0, false
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(token)); err != nil {
		return 0, false
	}
	return level, true
}

// Filter keeps lines at or above minLevel. Lines without a level (panics,
// wrapped output) are kept.
func Filter(lines []string, minLevel slog.Level) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if level, ok := LineLevel(line); ok && level < minLevel {
			continue
		}
		out = append(out, line)
	}
	return out
}

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

// Highlight colors the level attribute of a slog text line. Other lines are
// returned unchanged.
func Highlight(line string) string {
	token, ok := levelToken(line)
	if !ok {
		return line
	}
	level, ok := LineLevel(line)
	if !ok {
		return line
	}
	style, ok := levelStyles[level]
	if !ok {
		return line
	}
	attr := "level=" + token
	return strings.Replace(line, attr, style.Render(attr), 1)
}

// HighlightLines applies Highlight to every line.
func HighlightLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Highlight(line)
	}
	return out
}

func levelToken(line string) (string, bool) {
	const key = "level="
	start := strings.Index(line, key)
	if start < 0 {
		return "", false
	}
	if start > 0 && line[start-1] != ' ' {
		return "", false
	}
	rest := line[start+len(key):]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
