// Package tui is the terminal front end of the directory: a search box, a
// grid of advocate cards and paging keys, driven by directory.Controller.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#2F6F5E")
	muted  = lipgloss.Color("#6B7280")
	border = lipgloss.Color("#D1D5DB")
	tagBg  = lipgloss.Color("#E6F0ED")
)

// Styles groups the lipgloss styles used by the views.
type Styles struct {
	Title    lipgloss.Style
	Summary  lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Avatar   lipgloss.Style
	Name     lipgloss.Style
	Meta     lipgloss.Style
	Tag      lipgloss.Style
	More     lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the directory palette.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Summary:  lipgloss.NewStyle().Foreground(muted),
		Card:     card,
		Selected: card.BorderForeground(accent),
		Avatar:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1),
		Name:     lipgloss.NewStyle().Bold(true),
		Meta:     lipgloss.NewStyle().Foreground(muted),
		Tag:      lipgloss.NewStyle().Background(tagBg).Foreground(accent),
		More:     lipgloss.NewStyle().Foreground(accent).Underline(true),
		Empty:    lipgloss.NewStyle().Foreground(muted).Padding(1, 2),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
