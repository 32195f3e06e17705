package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/NERSC/lustre-design-analysis/app"
)

func main() {
	configPath := flag.String("config", "analysis.yaml", "Path to analysis configuration file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The reference distribution is fixed for the session; only the
	// target capacity and convention change interactively.
	h, _, err := app.LoadHistogram(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build histogram: %v\n", err)
		os.Exit(1)
	}
	dist, err := app.ComputeMassDistribution(h, cfg.FloorPerInodeBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compute mass distribution: %v\n", err)
		os.Exit(1)
	}

	fd := os.Stdout.Fd()
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 100 // fallback
	}

	binCol := 12
	countCol := 14
	massCol := 16
	probCol := width - binCol - countCol - massCol - 8
	if probCol < 12 {
		probCol = 12
	}

	ti := textinput.New()
	ti.Placeholder = "Target capacity in bytes (e.g. 35e15)..."
	if cfg.Projection.TargetCapacityBytes > 0 {
		ti.SetValue(strconv.FormatFloat(cfg.Projection.TargetCapacityBytes, 'g', -1, 64))
	}
	ti.Focus()
	ti.Width = 50

	columns := []table.Column{
		{Title: "Bin size", Width: binCol},
		{Title: "Files", Width: countCol},
		{Title: "Mass", Width: massCol},
		{Title: "Probability", Width: probCol},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithHeight(20),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	m := model{
		capacityInput: ti,
		table:         t,
		dist:          dist,
		convention:    app.Average,
	}
	if cfg.Projection.TargetCapacityBytes > 0 {
		m.projection, m.err = app.Rescale(dist, cfg.Projection.TargetCapacityBytes)
	}
	m.updateTable()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting program: %v\n", err)
		os.Exit(1)
	}
}
