package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-jyotish/internal/state"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// HousesModel lists the twelve bhavas with their cusps and occupants.
type HousesModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
}

// NewHousesModel creates a new houses view.
func NewHousesModel() HousesModel {
	return HousesModel{}
}

// SetSize updates the viewport size.
func (m HousesModel) SetSize(width, height int) HousesModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m HousesModel) UpdateData(snapshot state.Snapshot) HousesModel {
	m.snapshot = snapshot
	return m
}

// Update handles messages.
func (m HousesModel) Update(msg tea.Msg) (HousesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			m.cursor = (m.cursor + 11) % 12
		case "down", "j":
			m.cursor = (m.cursor + 1) % 12
		case "home":
			m.cursor = 0
		case "end":
			m.cursor = 11
		}
	}
	return m, nil
}

// SelectedHouse returns the 1-based house under the cursor.
func (m HousesModel) SelectedHouse() int {
	return m.cursor + 1
}

// View renders the house table.
func (m HousesModel) View() string {
	var b strings.Builder

	c := m.snapshot.Chart
	if c == nil {
		b.WriteString("Waiting for chart...\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s houses", c.Houses.Name)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("   ASC %s   MC %s",
		zodiac.FormatSignPosition(c.Houses.Ascendant), zodiac.FormatSignPosition(c.Houses.Midheaven))))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-6s %-14s %-12s %s", "House", "Cusp", "Sign", "Occupants")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for n := 1; n <= 12; n++ {
		cusp := c.Houses.Cusp(n)
		var names []string
		for _, p := range c.PlanetsInHouse(n) {
			names = append(names, p.String())
		}
		occupants := strings.Join(names, ", ")
		if occupants == "" {
			occupants = "-"
		}
		row := fmt.Sprintf("%-6d %-14s %-12s %s",
			n, zodiac.FormatDMS(zodiac.PositionInSign(cusp)), zodiac.SignIndex(cusp), occupants)
		if n-1 == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}
