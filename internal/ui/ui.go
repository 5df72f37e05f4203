// Package ui implements the terminal chart viewer using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jyotish/internal/state"
	"github.com/litescript/ls-jyotish/internal/vedic"
	"github.com/litescript/ls-jyotish/internal/version"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// ViewMode represents the current view.
type ViewMode int

const (
	ViewPlanets ViewMode = iota
	ViewHouses
	ViewEvents
	viewCount
)

// computeTimeout bounds a single chart computation started by the viewer.
const computeTimeout = 30 * time.Second

// liveInterval is how far the wall clock may run ahead of the displayed
// chart before a live viewer recomputes.
const liveInterval = time.Minute

// stepSizes are the selectable time steps, smallest first.
var stepSizes = []time.Duration{
	time.Minute,
	10 * time.Minute,
	time.Hour,
	6 * time.Hour,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// TickMsg is sent periodically to follow the wall clock in live mode.
type TickMsg time.Time

// ChartMsg carries the result of an asynchronous chart computation.
type ChartMsg struct {
	At       time.Time
	Chart    *vedic.VedicChart
	Duration time.Duration
	Err      error
}

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	calc  *vedic.Calculator
	req   vedic.ChartRequest
	now   func() time.Time

	at        time.Time // instant being displayed or computed
	live      bool      // follow the wall clock
	computing bool

	viewMode ViewMode
	width    int
	height   int
	ready    bool

	statusMsg string

	planets PlanetsModel
	houses  HousesModel
	events  EventsModel

	snapshot state.Snapshot
}

// New creates a viewer for req. A zero req.Time starts in live mode at the
// current instant.
func New(stateMgr *state.Manager, calc *vedic.Calculator, req vedic.ChartRequest) Model {
	m := Model{
		state:   stateMgr,
		calc:    calc,
		req:     req,
		now:     time.Now,
		planets: NewPlanetsModel(),
		houses:  NewHousesModel(),
		events:  NewEventsModel(),
	}
	if req.Time.IsZero() {
		m.live = true
		m.at = m.now().UTC().Truncate(time.Second)
	} else {
		m.at = req.Time.UTC()
	}
	if stateMgr.Step() <= 0 {
		stateMgr.SetStep(time.Hour)
	}
	// Init starts the first computation.
	m.computing = true
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(computeCmd(m.calc, m.requestAt(m.at)), tickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.viewMode = ViewPlanets
		case "2":
			m.viewMode = ViewHouses
		case "3":
			m.viewMode = ViewEvents
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount
		case "+", "=", "right":
			m.live = false
			cmds = append(cmds, m.moveTo(m.at.Add(m.state.Step())))
		case "-", "left":
			m.live = false
			cmds = append(cmds, m.moveTo(m.at.Add(-m.state.Step())))
		case "]":
			m.state.SetStep(nextStep(m.state.Step(), 1))
			m.statusMsg = "step " + formatStep(m.state.Step())
		case "[":
			m.state.SetStep(nextStep(m.state.Step(), -1))
			m.statusMsg = "step " + formatStep(m.state.Step())
		case "n":
			m.live = true
			cmds = append(cmds, m.moveTo(m.now().UTC().Truncate(time.Second)))
		case "c":
			m.state.ClearEvents()
			m.refreshSnapshot()
			m.statusMsg = "events cleared"
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 8
		m.planets = m.planets.SetSize(msg.Width, contentHeight)
		m.houses = m.houses.SetSize(msg.Width, contentHeight)
		m.events = m.events.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.live && time.Time(msg).Sub(m.at) >= liveInterval {
			cmds = append(cmds, m.moveTo(time.Time(msg).UTC().Truncate(time.Second)))
		}

	case ChartMsg:
		m.computing = false
		if !msg.At.Equal(m.at) {
			// A newer instant was requested while this one was in flight.
			cmds = append(cmds, m.startCompute())
			break
		}
		m.state.Update(msg.Chart, msg.Duration, msg.Err)
		m.refreshSnapshot()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// moveTo sets the displayed instant and starts a computation unless one is
// already running; the running one restarts on completion.
func (m *Model) moveTo(t time.Time) tea.Cmd {
	m.at = t
	m.statusMsg = ""
	if m.computing {
		return nil
	}
	return m.startCompute()
}

func (m *Model) startCompute() tea.Cmd {
	m.computing = true
	return computeCmd(m.calc, m.requestAt(m.at))
}

func (m Model) requestAt(t time.Time) vedic.ChartRequest {
	req := m.req
	req.Time = t
	return req
}

func (m *Model) refreshSnapshot() {
	m.snapshot = m.state.Snapshot()
	m.planets = m.planets.UpdateData(m.snapshot)
	m.houses = m.houses.UpdateData(m.snapshot)
	m.events = m.events.UpdateData(m.snapshot)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewPlanets:
		m.planets, cmd = m.planets.Update(msg)
	case ViewHouses:
		m.houses, cmd = m.houses.Update(msg)
	case ViewEvents:
		m.events, cmd = m.events.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewPlanets:
		content = m.planets.View()
	case ViewHouses:
		content = m.houses.View()
	case ViewEvents:
		content = m.events.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(renderGradient("ls-jyotish"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  v%s  sidereal chart viewer", version.Version)))
	b.WriteString("\n")

	mode := "fixed"
	if m.live {
		mode = "live"
	}
	line := fmt.Sprintf("  %s  %s  step %s  [%s]",
		m.at.Format("2006-01-02 15:04:05 MST"), m.req.Location, formatStep(m.state.Step()), mode)
	if c := m.snapshot.Chart; c != nil {
		line += fmt.Sprintf("  %s %s", c.AyanamsaMode, zodiac.FormatDMS(c.AyanamsaValue))
	}
	b.WriteString(mutedStyle.Render(line))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Planets", "[2] Houses", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, mutedStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.computing:
		status = accentStyle.Render("computing...")
	case m.snapshot.Chart != nil:
		status = mutedStyle.Render("computed in " + m.snapshot.ComputeDuration.Round(time.Millisecond).String())
	default:
		status = mutedStyle.Render("waiting for chart...")
	}

	var help string
	switch m.viewMode {
	case ViewEvents:
		help = "↑↓: scroll | c: clear | +/-: step | [/]: step size | n: now"
	default:
		help = "↑↓: select | +/-: step | [/]: step size | n: now | tab: view | q: quit"
	}

	footer := "  " + status + "  " + mutedStyle.Render("|") + "  " + mutedStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + mutedStyle.Render(m.statusMsg)
	}
	return footer
}

// renderGradient renders text with a horizontal blue to pink gradient.
func renderGradient(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, len(runes))))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for position col of width along
// blue (#3B82F6) -> purple (#8B5CF6) -> pink (#EC4899).
func gradientColor(col, width int) string {
	if width <= 1 {
		return "#3B82F6"
	}
	t := float64(col) / float64(width-1)

	var r, g, b float64
	if t < 0.5 {
		u := t / 0.5
		r = 59 + u*(139-59)
		g = 130 + u*(92-130)
		b = 246
	} else {
		u := (t - 0.5) / 0.5
		r = 139 + u*(236-139)
		g = 92 + u*(72-92)
		b = 246 + u*(153-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

// nextStep moves dir positions through stepSizes from the size closest to
// cur, clamping at both ends.
func nextStep(cur time.Duration, dir int) time.Duration {
	idx := 0
	for i, s := range stepSizes {
		if s <= cur {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(stepSizes) {
		idx = len(stepSizes) - 1
	}
	return stepSizes[idx]
}

// formatStep renders a step as 1m, 6h, 7d and so on.
func formatStep(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// computeCmd computes the chart for req off the UI goroutine.
func computeCmd(calc *vedic.Calculator, req vedic.ChartRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
		defer cancel()

		start := time.Now()
		chart, err := calc.Compute(ctx, req)
		return ChartMsg{At: req.Time, Chart: chart, Duration: time.Since(start), Err: err}
	}
}
