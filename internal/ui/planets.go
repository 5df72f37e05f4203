package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jyotish/internal/state"
	"github.com/litescript/ls-jyotish/internal/vedic"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// dignityColors tints the dignity column.
var dignityColors = map[vedic.Dignity]lipgloss.Color{
	vedic.Exalted:      lipgloss.Color("46"),
	vedic.MoolaTrikona: lipgloss.Color("114"),
	vedic.OwnSign:      lipgloss.Color("39"),
	vedic.Debilitated:  lipgloss.Color("203"),
}

// PlanetsModel is the planet table view.
type PlanetsModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
}

// NewPlanetsModel creates a new planets view.
func NewPlanetsModel() PlanetsModel {
	return PlanetsModel{}
}

// SetSize updates the viewport size.
func (m PlanetsModel) SetSize(width, height int) PlanetsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m PlanetsModel) UpdateData(snapshot state.Snapshot) PlanetsModel {
	m.snapshot = snapshot
	if n := len(m.rows()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m
}

// Update handles messages.
func (m PlanetsModel) Update(msg tea.Msg) (PlanetsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := len(m.rows())
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}
	return m, nil
}

func (m PlanetsModel) rows() []vedic.VedicPlanetInfo {
	if m.snapshot.Chart == nil {
		return nil
	}
	return m.snapshot.Chart.All()
}

// Selected returns the planet under the cursor.
func (m PlanetsModel) Selected() (vedic.VedicPlanetInfo, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return vedic.VedicPlanetInfo{}, false
	}
	return rows[m.cursor], true
}

// View renders the planet table.
func (m PlanetsModel) View() string {
	var b strings.Builder

	c := m.snapshot.Chart
	if c == nil {
		b.WriteString("Waiting for chart...\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Lagna %s", zodiac.FormatSignPosition(c.Ascendant()))))
	if nak, pada, ok := c.MoonNakshatra(); ok {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("   Moon in %s pada %d (lord %s)", nak, pada, nak.Lord())))
	}
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-8s %-12s %-10s %-20s %-5s %-14s %-9s %-5s",
		"Planet", "Position", "Sign", "Nakshatra", "House", "Dignity", "Speed", "Flags")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, info := range m.rows() {
		pp := info.Position
		row := fmt.Sprintf("%-8s %-12s %-10s %-20s %-5d %s %-9s %-5s",
			pp.Planet,
			zodiac.FormatDMS(pp.DegreeInSign()),
			pp.Sign(),
			truncate(fmt.Sprintf("%s %d", pp.Nakshatra(), pp.Pada()), 20),
			info.House,
			m.renderDignity(info.Dignity, 14),
			fmt.Sprintf("%+.3f", pp.LongitudeSpeed),
			flags(pp.IsRetrograde, info.IsCombust),
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	if info, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(info))
	}
	return b.String()
}

func (m PlanetsModel) renderDignity(d vedic.Dignity, width int) string {
	text := fmt.Sprintf("%-*s", width, d)
	if color, ok := dignityColors[d]; ok {
		return lipgloss.NewStyle().Foreground(color).Render(text)
	}
	return text
}

// renderDetail shows the selected planet's exaltation points and combustion
// orb.
func (m PlanetsModel) renderDetail(info vedic.VedicPlanetInfo) string {
	pp := info.Position
	parts := []string{fmt.Sprintf("%s %s", pp.Planet, zodiac.FormatDMS(pp.Longitude))}
	if info.ExaltationDegree != nil {
		parts = append(parts, "exalted at "+zodiac.FormatSignPosition(*info.ExaltationDegree))
	}
	if info.DebilitationDegree != nil {
		parts = append(parts, "debilitated at "+zodiac.FormatSignPosition(*info.DebilitationDegree))
	}
	if pp.Planet != vedic.Sun && !pp.Planet.IsNode() {
		parts = append(parts, fmt.Sprintf("combust within %.0f°", vedic.CombustionThreshold(pp.Planet)))
	}
	return "  " + mutedStyle.Render(strings.Join(parts, " · "))
}

func flags(retro, combust bool) string {
	var f []string
	if retro {
		f = append(f, "R")
	}
	if combust {
		f = append(f, "C")
	}
	return strings.Join(f, " ")
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
