// Package tui is the rich-menu presentation layer, a Bubble Tea model
// presenting the power mode table as a selectable list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charlie0129/nvpsel/pkg/modes"
	"github.com/charlie0129/nvpsel/pkg/nvpmodel"
)

type menuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc/q", "quit"),
		),
	}
}

// Menu is a single-shot selection model: the driving loop runs it once per
// iteration so the current mode is re-queried before every render.
type Menu struct {
	items     []modes.Record
	current   string
	cursor    int
	choice    string
	cancelled bool
	keys      menuKeyMap
}

// NewMenu builds a menu over the mode table with the current mode
// pre-selected. current may be nvpmodel.ModeUnknown.
func NewMenu(table modes.Table, current string) Menu {
	m := Menu{
		items:   table.Records(),
		current: current,
		keys:    defaultMenuKeyMap(),
	}
	for i, rec := range m.items {
		if rec.ID == current {
			m.cursor = i
			break
		}
	}
	return m
}

// Choice returns the selected mode ID, empty when cancelled.
func (m Menu) Choice() string {
	return m.choice
}

// Cancelled reports whether the operator backed out of the menu.
func (m Menu) Cancelled() bool {
	return m.cancelled
}

func (m Menu) Init() tea.Cmd {
	return nil
}

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if len(m.items) > 0 {
			m.choice = m.items[m.cursor].ID
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Menu) View() string {
	if m.choice != "" || m.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Jetson Power Modes"))
	b.WriteString("\n\n")

	if name, ok := nameOf(m.items, m.current); ok {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Current mode: %s (%s)", m.current, name)))
	} else {
		b.WriteString(subtitleStyle.Render("Current mode: " + m.current))
	}
	b.WriteString("\n\n")

	for i, rec := range m.items {
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		marker := " "
		if rec.ID == m.current && m.current != nvpmodel.ModeUnknown {
			marker = "*"
		}
		line := fmt.Sprintf("%s%s [%s] %s", pointer, marker, rec.ID, rec.Name)
		if i == m.cursor {
			line = activeStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("up/k down/j move | enter switch mode | esc/q cancel"))
	b.WriteString("\n")

	return b.String()
}

func nameOf(items []modes.Record, id string) (string, bool) {
	for _, rec := range items {
		if rec.ID == id {
			return rec.Name, true
		}
	}
	return "", false
}
