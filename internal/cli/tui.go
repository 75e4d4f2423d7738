package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lazorkit/lazor/pkg/board"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BoardListModel - Interactive board selection
// =============================================================================

// boardEntry is one parsed .bff file in the picker.
type boardEntry struct {
	Path  string
	Board *board.Board
	Err   error
}

// BoardSelection holds the result of the board selection.
type BoardSelection struct {
	Entry *boardEntry
}

// BoardListModel is the bubbletea model for interactive board selection.
type BoardListModel struct {
	Boards   []boardEntry
	Cursor   int
	Selected *BoardSelection
	Height   int
	Offset   int
}

// NewBoardListModel creates a new board list model.
func NewBoardListModel(boards []boardEntry) BoardListModel {
	return BoardListModel{
		Boards: boards,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m BoardListModel) Init() tea.Cmd {
	return nil
}

func (m BoardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Boards)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Boards[m.Cursor]
			if entry.Err != nil {
				return m, nil
			}
			m.Selected = &BoardSelection{Entry: &entry}
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

func (m BoardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Board"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Boards) {
		end = len(m.Boards)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Boards[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		size := "—"
		lasers := "—"
		targets := "—"
		stock := "parse error"
		if e.Err == nil {
			size = fmt.Sprintf("%dx%d", e.Board.Width, e.Board.Height)
			lasers = fmt.Sprintf("%d", len(e.Board.Lasers))
			targets = fmt.Sprintf("%d", len(e.Board.Targets))
			stock = formatStock(e.Board.Stock)
		}

		rows = append(rows, []string{cursor, filepath.Base(e.Path), size, lasers, targets, stock})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Board", "Size", "Lasers", "Targets", "Stock").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Boards) {
				return lipgloss.NewStyle()
			}
			e := m.Boards[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if e.Err != nil {
				if isCurrent {
					return base.Foreground(colorDim).Bold(true)
				}
				return base.Foreground(colorDim)
			}
			if isCurrent {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Boards))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// formatStock renders an inventory as "A=2 B=1" skipping empty types.
func formatStock(inv board.Inventory) string {
	var parts []string
	for bt := board.BlockType(0); bt < board.NumBlockTypes; bt++ {
		if n := inv.Count(bt); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", bt, n))
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " ")
}
