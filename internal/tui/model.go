package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simp-lee/advocates/internal/directory"
	"github.com/simp-lee/advocates/internal/view"
)

// Controller is the part of directory.Controller the model drives.
type Controller interface {
	Mount()
	SetSearch(term string)
	Reset()
	Next() bool
	Prev() bool
}

// StateMsg delivers a controller snapshot to the program.
type StateMsg directory.State

// Feed forwards controller notifications into the bubbletea loop. Only the
// newest undelivered state is kept.
type Feed struct {
	ch chan directory.State
}

// NewFeed returns an empty Feed. Pass Push to directory.WithNotify.
func NewFeed() *Feed {
	return &Feed{ch: make(chan directory.State, 1)}
}

// Push queues s, replacing a state the program has not read yet.
func (f *Feed) Push(s directory.State) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// Wait returns a command that blocks for the next state.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		return StateMsg(<-f.ch)
	}
}

// Model is the bubbletea model of the directory browser.
type Model struct {
	ctrl    Controller
	feed    *Feed
	styles  Styles
	input   textinput.Model
	spinner spinner.Model

	state    directory.State
	cards    []view.Card
	expanded map[uint]bool
	selected int
	width    int
}

// New builds the browser model. feed may be nil when states are delivered
// with StateMsg directly, as in tests.
func New(ctrl Controller, feed *Feed) Model {
	in := textinput.New()
	in.Placeholder = "Search by name, city, degree, specialty or years"
	in.Prompt = "Search: "
	in.CharLimit = 100
	in.Width = 50
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:     ctrl,
		feed:     feed,
		styles:   DefaultStyles(),
		input:    in,
		spinner:  sp,
		expanded: map[uint]bool{},
	}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.mount}
	if m.feed != nil {
		cmds = append(cmds, m.feed.Wait())
	}
	return tea.Batch(cmds...)
}

func (m Model) mount() tea.Msg {
	m.ctrl.Mount()
	return nil
}

// Update handles keys, controller states and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case StateMsg:
		m.apply(directory.State(msg))
		if m.feed != nil {
			return m, m.feed.Wait()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.input.SetValue("")
			m.ctrl.Reset()
			return m, nil
		case "pgdown", "ctrl+n":
			m.ctrl.Next()
			return m, nil
		case "pgup", "ctrl+p":
			m.ctrl.Prev()
			return m, nil
		case "down", "tab":
			if m.selected < len(m.cards)-1 {
				m.selected++
			}
			return m, nil
		case "up", "shift+tab":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "enter":
			// Expanding is one way; there is no collapse.
			if m.selected < len(m.cards) {
				m.expanded[m.cards[m.selected].ID] = true
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.ctrl.SetSearch(after)
		}
		return m, cmd
	}

	return m, nil
}

// apply takes a controller snapshot. Records are swapped only when a fetch
// has finished, so the old cards stay on screen while loading.
func (m *Model) apply(s directory.State) {
	if s.Version < m.state.Version {
		return
	}
	replaced := s.Loaded != m.state.Loaded
	m.state = s
	if s.Loading {
		return
	}
	m.cards = view.NewCards(s.Records)
	if replaced {
		m.expanded = map[uint]bool{}
		m.selected = 0
	}
	if m.selected >= len(m.cards) {
		m.selected = max(0, len(m.cards)-1)
	}
}

// View renders the search box, status line, cards and pager.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Solace Advocates"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.state.Loading {
		b.WriteString(m.spinner.View() + " Loading...")
		b.WriteString("\n")
	}

	switch {
	case m.state.Empty():
		b.WriteString(m.styles.Empty.Render("No advocates found. Press ctrl+r to reset search."))
		b.WriteString("\n")
	case len(m.cards) > 0:
		b.WriteString(m.styles.Summary.Render(summary(m.state)))
		b.WriteString("\n")
		rendered := make([]string, 0, len(m.cards))
		for i, c := range m.cards {
			rendered = append(rendered, RenderCard(c, m.expanded[c.ID], i == m.selected, m.styles))
		}
		b.WriteString(renderGrid(rendered, m.width))
		b.WriteString("\n")
		if p := m.state.Pagination; p.TotalPages > 1 {
			b.WriteString(fmt.Sprintf("Page %d of %d", p.CurrentPage, p.TotalPages))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.styles.Help.Render("type to search • ↑/↓ select • enter show all • pgup/pgdn page • ctrl+r reset • esc quit"))
	return b.String()
}

func summary(s directory.State) string {
	word := "advocates"
	if s.Pagination.Total == 1 {
		word = "advocate"
	}
	text := fmt.Sprintf("%d %s", s.Pagination.Total, word)
	if s.Search != "" {
		text += fmt.Sprintf(" matching %q", s.Search)
	}
	return text
}
