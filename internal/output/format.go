// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gtodo/internal/config"
	"gtodo/internal/order"
	"gtodo/internal/service"
)

type messages struct {
	listTitle string
	emptyList string
	editing   string
}

var localized = map[config.Locale]messages{
	config.LocaleEN: {listTitle: "Tasks", emptyList: "no tasks found", editing: "editing"},
	config.LocaleBR: {listTitle: "Lembretes", emptyList: "nenhum lembrete encontrado", editing: "editando"},
}

func text(locale config.Locale) messages {
	if s, ok := localized[locale]; ok {
		return s
	}
	return localized[config.LocaleEN]
}

// FormatHeader writes the list title with the task count, or the empty-list
// message when count is zero.
func FormatHeader(w io.Writer, locale config.Locale, count int) {
	s := text(locale)
	if count == 0 {
		fmt.Fprintln(w, s.emptyList)
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", s.listTitle, count)
}

// Renderer formats task rows.
type Renderer struct {
	Locale config.Locale

	// Color paints each row with its palette color.
	Color bool
}

// FormatRow formats one numbered row.
// Format: "{N:>4}  [x] * {TITLE}" where "[x]" marks done tasks and "*"
// favorites. The row being edited gets an "(editing)" suffix.
func (r Renderer) FormatRow(w io.Writer, num int, row order.Row, mode service.EditMode) {
	check := " "
	if row.Done {
		check = "x"
	}
	star := ""
	if row.Task.HasTag(service.TagFavorite) {
		star = "* "
	}
	line := fmt.Sprintf("%4d  [%s] %s%s", num, check, star, normalizeTitle(row.Task.Name))
	if mode.IsEditing && mode.ID == row.Task.ID {
		line += fmt.Sprintf("  (%s)", text(r.Locale).editing)
	}
	if r.Color {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color))
		if row.Done {
			style = style.Strikethrough(true)
		}
		line = style.Render(line)
	}
	fmt.Fprintln(w, line)
}

// FormatList writes the header and every row in order.
func (r Renderer) FormatList(w io.Writer, rows []order.Row, mode service.EditMode) {
	FormatHeader(w, r.Locale, len(rows))
	for i, row := range rows {
		r.FormatRow(w, i+1, row, mode)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
