package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/HomenShum/paper-diagram-gen/internal/config"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DemoListModel - Interactive demo gallery selection
// =============================================================================

// DemoListModel is the bubbletea model for the demo picker.
type DemoListModel struct {
	Demos    []config.Demo
	Cursor   int
	Selected *config.Demo
	Height   int
	Offset   int
}

// NewDemoListModel creates a new demo list model.
func NewDemoListModel(demos []config.Demo) DemoListModel {
	return DemoListModel{
		Demos:  demos,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m DemoListModel) Init() tea.Cmd {
	return nil
}

func (m DemoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Demos)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Demos) == 0 {
				return m, tea.Quit
			}
			demo := m.Demos[m.Cursor]
			m.Selected = &demo
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DemoListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Demo Gallery"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ compile  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Demos) {
		end = len(m.Demos)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Demos[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor + d.Name, d.Style, truncate(d.Description, 48)})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 && row < len(rows) && m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		}).
		Rows(rows...)

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Cursor < len(m.Demos) {
		purpose := m.Demos[m.Cursor].Purpose
		if purpose != "" {
			b.WriteString(listDimStyle.Render(purpose))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
