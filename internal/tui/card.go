package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simp-lee/advocates/internal/view"
)

// cardWidth is the inner width of a card. Tags are at most
// view.MaxTagLength runes, so one tag always fits on a line.
const cardWidth = 40

// RenderCard draws one advocate. Hidden specialties appear once expanded is
// set; until then the card ends its tag list with the "+N more" label.
func RenderCard(c view.Card, expanded, selected bool, s Styles) string {
	var b strings.Builder

	b.WriteString(s.Avatar.Render(c.Initials))
	b.WriteString(" ")
	b.WriteString(s.Name.Render(c.FullName))
	b.WriteString("\n")
	b.WriteString(s.Meta.Render(c.Degree + " · " + c.City))
	b.WriteString("\n")
	b.WriteString(s.Meta.Render(c.Experience + " experience"))
	b.WriteString("\n")

	for _, t := range c.Tags(expanded) {
		b.WriteString("• ")
		b.WriteString(s.Tag.Render(t.Display))
		b.WriteString("\n")
	}
	if !expanded && c.MoreCount() > 0 {
		b.WriteString(s.More.Render(c.MoreLabel()))
		b.WriteString("\n")
	}

	b.WriteString("Contact " + c.Phone)

	style := s.Card
	if selected {
		style = s.Selected
	}
	return style.Render(b.String())
}

// renderGrid lays cards out in as many columns as width allows.
func renderGrid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	cols := 1
	if width > 0 {
		// Card border and padding add four columns.
		cols = max(1, width/(cardWidth+4))
	}

	rows := make([]string, 0, (len(cards)+cols-1)/cols)
	for i := 0; i < len(cards); i += cols {
		end := min(i+cols, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
