package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nugetbridge/pkg/archive"
	"github.com/matzehuels/nugetbridge/pkg/framework"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FrameworkPickerModel - Interactive framework selection
// =============================================================================

// FrameworkPickerModel is the bubbletea model for choosing a target
// framework among the framework directories of an archive. Directories that
// do not parse as a framework are shown but cannot be selected.
type FrameworkPickerModel struct {
	Candidates []archive.Candidate
	Cursor     int
	Selected   *framework.Version
	Height     int
	Offset     int
}

// NewFrameworkPickerModel creates a picker with the cursor on the first
// usable candidate.
func NewFrameworkPickerModel(candidates []archive.Candidate) FrameworkPickerModel {
	m := FrameworkPickerModel{Candidates: candidates, Height: 15}
	for i, c := range candidates {
		if _, ok := framework.Parse(c.Framework); ok {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m FrameworkPickerModel) Init() tea.Cmd {
	return nil
}

func (m FrameworkPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Candidates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Candidates) == 0 {
				return m, nil
			}
			v, ok := framework.Parse(m.Candidates[m.Cursor].Framework)
			if !ok {
				return m, nil
			}
			m.Selected = &v
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

func (m FrameworkPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Target Framework"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Candidates))
	for i := m.Offset; i < end; i++ {
		c := m.Candidates[i]
		label := fmt.Sprintf("%-6s %s", c.Location, c.Framework)

		v, ok := framework.Parse(c.Framework)
		if ok {
			label += listDimStyle.Render("  " + v.VersionedFullName())
		}

		switch {
		case i == m.Cursor && ok:
			b.WriteString(listSelectedStyle.Render(iconPick+" ") + listSelectedStyle.Render(label))
		case !ok:
			b.WriteString("  " + listDimStyle.Render(label))
		default:
			b.WriteString("  " + listNormalStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if len(m.Candidates) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Candidates))))
	}
	return b.String()
}

// =============================================================================
// Candidate Table
// =============================================================================

// renderCandidates renders the framework directories of an archive as a
// table. The row matching selected (a path relative to the archive root) is
// highlighted; compatibility is judged against desired.
func renderCandidates(candidates []archive.Candidate, name, selected string, desired framework.Version) string {
	rows := make([][]string, 0, len(candidates))
	selectedRow := -1
	for i, c := range candidates {
		mark := ""
		if c.Location+"/"+c.Framework+"/"+name == selected {
			mark = iconPick
			selectedRow = i
		}

		compat := "-"
		if v, ok := framework.Parse(c.Framework); ok {
			compat = "no"
			if v.IsDownwardsCompatible(desired) {
				compat = "yes"
			}
		}
		rows = append(rows, []string{mark, c.Location, c.Framework, compat})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Location", "Framework", "Usable for "+desired.VersionedShortName()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == selectedRow:
				return styleSelected
			case row >= 0 && row < len(rows) && rows[row][3] == "yes":
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
		})

	return t.Render()
}
