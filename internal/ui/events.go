package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jyotish/internal/state"
)

var eventColors = map[state.EventType]lipgloss.Color{
	state.EventSignIngress:       lipgloss.Color("205"),
	state.EventNakshatraChange:   lipgloss.Color("141"),
	state.EventStationRetrograde: lipgloss.Color("203"),
	state.EventStationDirect:     lipgloss.Color("46"),
	state.EventCombustBegin:      lipgloss.Color("214"),
	state.EventCombustEnd:        lipgloss.Color("229"),
	state.EventHouseChange:       lipgloss.Color("39"),
}

// EventsModel lists transit events, newest first.
type EventsModel struct {
	width    int
	height   int
	offset   int
	snapshot state.Snapshot
}

// NewEventsModel creates a new events view.
func NewEventsModel() EventsModel {
	return EventsModel{}
}

// SetSize updates the viewport size.
func (m EventsModel) SetSize(width, height int) EventsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m EventsModel) UpdateData(snapshot state.Snapshot) EventsModel {
	m.snapshot = snapshot
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	return m
}

// Update handles messages.
func (m EventsModel) Update(msg tea.Msg) (EventsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case "home":
			m.offset = 0
		}
	}
	return m, nil
}

func (m EventsModel) visibleRows() int {
	rows := m.height - 4
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m EventsModel) maxOffset() int {
	n := len(m.snapshot.Events) - m.visibleRows()
	if n < 0 {
		return 0
	}
	return n
}

// View renders the event log.
func (m EventsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Transit Events"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-20s %-19s %-8s %s", "Time (UTC)", "Event", "Planet", "Change")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  No events yet. Step through time with +/-\n")
		return b.String()
	}

	// Newest first
	end := len(events) - m.offset
	start := end - m.visibleRows()
	if start < 0 {
		start = 0
	}
	for i := end - 1; i >= start; i-- {
		e := events[i]
		kind := fmt.Sprintf("%-19s", e.Type)
		if color, ok := eventColors[e.Type]; ok {
			kind = lipgloss.NewStyle().Foreground(color).Render(kind)
		}
		row := fmt.Sprintf("%-20s %s %-8s %s",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), kind, e.Planet, describeChange(e))
		b.WriteString(rowStyle.Render(row))
		b.WriteString("\n")
	}

	if len(events) > m.visibleRows() {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d events", m.offset+1, m.offset+end-start, len(events)))
	}
	return b.String()
}

func describeChange(e state.Event) string {
	switch {
	case e.From != "" && e.To != "":
		return e.From + " → " + e.To
	case e.To != "":
		return e.To
	}
	return e.From
}
