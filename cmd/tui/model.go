package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NERSC/lustre-design-analysis/app"
	"github.com/NERSC/lustre-design-analysis/models"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	inputStyle = lipgloss.NewStyle().
			Margin(1, 0, 1, 0)
	tableStyle = lipgloss.NewStyle().
			Margin(0, 0, 1, 0)
	conventionStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("57")).
			Foreground(lipgloss.Color("229")).
			Padding(0, 1)
)

type model struct {
	capacityInput textinput.Model
	table         table.Model
	dist          *app.MassDistribution
	projection    *app.Projection
	convention    app.Convention
	err           error
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	var enter = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "rescale"),
	)
	var toggleFocus = key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "toggle focus"),
	)
	var cycleConvention = key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "cycle convention"),
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, enter):
			if m.capacityInput.Focused() {
				raw := m.capacityInput.Value()
				capacity, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					m.err = fmt.Errorf("invalid capacity %q", raw)
					return m, nil
				}
				projection, err := app.Rescale(m.dist, capacity)
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.projection = projection
				m.updateTable()
				m.capacityInput.Blur()
				m.table.Focus()
			}
			return m, nil
		case key.Matches(msg, toggleFocus):
			if m.capacityInput.Focused() {
				m.capacityInput.Blur()
				m.table.Focus()
			} else {
				m.table.Blur()
				m.capacityInput.Focus()
			}
			return m, nil
		case key.Matches(msg, cycleConvention):
			conventions := app.Conventions()
			for i, c := range conventions {
				if c == m.convention {
					m.convention = conventions[(i+1)%len(conventions)]
					break
				}
			}
			m.updateTable()
			return m, nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			return m, tea.Quit
		}

		if m.capacityInput.Focused() {
			m.capacityInput, cmd = m.capacityInput.Update(msg)
			return m, cmd
		}
		if m.table.Focused() {
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
		var tiCmd, tCmd tea.Cmd
		m.capacityInput, tiCmd = m.capacityInput.Update(msg)
		m.table, tCmd = m.table.Update(msg)
		return m, tea.Batch(tiCmd, tCmd)

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 9)
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(inputStyle.Render(m.capacityInput.View()))
	b.WriteString("\n")
	b.WriteString("Convention: ")
	b.WriteString(conventionStyle.Render(m.convention.String()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("Error: %v\n", m.err))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\nPress Enter to rescale, Tab to toggle focus, Ctrl+T to cycle convention, Esc to quit.\n")

	return baseStyle.Render(b.String())
}

// updateTable renders either the projected counts (when a target is set)
// or the reference distribution.
func (m *model) updateTable() {
	rows := []table.Row{}
	index := m.dist.Index
	for i := 0; i < index.Len(); i++ {
		binSize := formatSize(float64(index.Bin(i).ExtentMax))
		prob := fmt.Sprintf("%.6f", m.dist.Probability[m.convention][i])
		if m.projection != nil {
			rows = append(rows, table.Row{
				binSize,
				fmt.Sprintf("%.1f", m.projection.FileCounts[m.convention][i]),
				formatSize(m.projection.Mass[m.convention][i]),
				prob,
			})
		} else {
			rows = append(rows, table.Row{
				binSize,
				strconv.FormatInt(m.dist.Histogram.Count(models.TypeFile, i), 10),
				formatSize(m.dist.FileMass[m.convention][i]),
				prob,
			})
		}
	}
	m.table.SetRows(rows)
}
