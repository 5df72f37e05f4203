// Package state provides thread-safe session state: the current chart, a
// bounded chart history and a log of transit events between charts.
package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/litescript/ls-jyotish/internal/vedic"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// EventType represents the type of chart change event.
type EventType string

const (
	EventSignIngress       EventType = "SIGN_INGRESS"
	EventNakshatraChange   EventType = "NAKSHATRA_CHANGE"
	EventStationRetrograde EventType = "STATION_RETROGRADE"
	EventStationDirect     EventType = "STATION_DIRECT"
	EventCombustBegin      EventType = "COMBUST_BEGIN"
	EventCombustEnd        EventType = "COMBUST_END"
	EventHouseChange       EventType = "HOUSE_CHANGE"
)

// Event represents a change in one planet between consecutive charts.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Planet    string    `json:"planet"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
}

// HistoryEntry represents a single chart in the history buffer.
type HistoryEntry struct {
	Timestamp time.Time
	Chart     *vedic.VedicChart
}

// PlanetHistory tracks sidereal longitude and speed for one planet.
type PlanetHistory struct {
	Planet           vedic.Planet
	LongitudeHistory []TimeSeries
	SpeedHistory     []TimeSeries
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current         *vedic.VedicChart
	lastUpdate      time.Time
	lastError       error
	computeDuration time.Duration

	// Previous planet records for event detection
	prev map[vedic.Planet]vedic.VedicPlanetInfo

	// History buffers
	history       []HistoryEntry
	maxHistoryLen int
	planetHistory map[vedic.Planet]*PlanetHistory
	maxPlanetHist int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Time step used by transit scans and the viewer
	step time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxPlanetHist int
	MaxEvents     int
	Step          time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxPlanetHist: 120,
		MaxEvents:     50, // Last 50 events
		Step:          time.Hour,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen: cfg.MaxHistoryLen,
		maxPlanetHist: cfg.MaxPlanetHist,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		step:          cfg.Step,
		planetHistory: make(map[vedic.Planet]*PlanetHistory),
		prev:          make(map[vedic.Planet]vedic.VedicPlanetInfo),
	}
}

// Update atomically records a newly computed chart. A nil chart only
// records the error and duration.
func (m *Manager) Update(chart *vedic.VedicChart, computeDuration time.Duration, err error) {
	m.record(chart, computeDuration, err)
}

// record applies one chart and returns the events it produced.
func (m *Manager) record(chart *vedic.VedicChart, computeDuration time.Duration, err error) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if chart == nil {
		return nil
	}

	// Detect events before updating current state
	events := m.detectEvents(chart)
	for _, e := range events {
		m.addEvent(e)
	}

	m.current = chart

	m.history = append(m.history, HistoryEntry{Timestamp: chart.Time, Chart: chart})
	if m.maxHistoryLen > 0 && len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	m.updatePlanetHistory(chart)

	m.prev = make(map[vedic.Planet]vedic.VedicPlanetInfo)
	for _, info := range chart.All() {
		m.prev[info.Position.Planet] = info
	}
	return events
}

// detectEvents compares the new chart with the previous one. The first
// chart produces no events.
func (m *Manager) detectEvents(chart *vedic.VedicChart) []Event {
	ts := chart.Time
	var events []Event

	for _, info := range chart.All() {
		p := info.Position.Planet
		old, ok := m.prev[p]
		if !ok {
			continue
		}
		name := p.String()
		cur, was := info.Position, old.Position

		if s1, s2 := was.Sign(), cur.Sign(); s1 != s2 {
			events = append(events, Event{Type: EventSignIngress, Timestamp: ts, Planet: name, From: s1.String(), To: s2.String()})
		}
		if n1, n2 := was.Nakshatra(), cur.Nakshatra(); n1 != n2 {
			events = append(events, Event{Type: EventNakshatraChange, Timestamp: ts, Planet: name, From: n1.String(), To: n2.String()})
		}
		if !was.IsRetrograde && cur.IsRetrograde {
			events = append(events, Event{Type: EventStationRetrograde, Timestamp: ts, Planet: name})
		} else if was.IsRetrograde && !cur.IsRetrograde {
			events = append(events, Event{Type: EventStationDirect, Timestamp: ts, Planet: name})
		}
		if !old.IsCombust && info.IsCombust {
			events = append(events, Event{Type: EventCombustBegin, Timestamp: ts, Planet: name})
		} else if old.IsCombust && !info.IsCombust {
			events = append(events, Event{Type: EventCombustEnd, Timestamp: ts, Planet: name})
		}
		if old.House != info.House {
			events = append(events, Event{
				Type:      EventHouseChange,
				Timestamp: ts,
				Planet:    name,
				From:      strconv.Itoa(old.House),
				To:        strconv.Itoa(info.House),
			})
		}
	}
	return events
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

func (m *Manager) updatePlanetHistory(chart *vedic.VedicChart) {
	if m.maxPlanetHist <= 0 {
		return
	}
	for _, info := range chart.All() {
		p := info.Position.Planet
		hist, ok := m.planetHistory[p]
		if !ok {
			hist = &PlanetHistory{
				Planet:           p,
				LongitudeHistory: make([]TimeSeries, 0, m.maxPlanetHist),
				SpeedHistory:     make([]TimeSeries, 0, m.maxPlanetHist),
			}
			m.planetHistory[p] = hist
		}

		ts := chart.Time
		hist.LongitudeHistory = append(hist.LongitudeHistory, TimeSeries{Timestamp: ts, Value: info.Position.Longitude})
		if len(hist.LongitudeHistory) > m.maxPlanetHist {
			hist.LongitudeHistory = hist.LongitudeHistory[1:]
		}
		hist.SpeedHistory = append(hist.SpeedHistory, TimeSeries{Timestamp: ts, Value: info.Position.LongitudeSpeed})
		if len(hist.SpeedHistory) > m.maxPlanetHist {
			hist.SpeedHistory = hist.SpeedHistory[1:]
		}
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Chart           *vedic.VedicChart
	LastUpdate      time.Time
	LastError       error
	ComputeDuration time.Duration
	History         []HistoryEntry
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state. Charts are
// immutable and shared; slices are copied.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]HistoryEntry, len(m.history))
	copy(hist, m.history)

	return Snapshot{
		Chart:           m.current,
		LastUpdate:      m.lastUpdate,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		History:         hist,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events, or nil when n <= 0.
func (m *Manager) RecentEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// ClearEvents empties the event log.
func (m *Manager) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = m.events[:0]
	m.eventWriteAt = 0
}

// GetPlanetHistory returns a copy of the history for a planet, or nil.
func (m *Manager) GetPlanetHistory(p vedic.Planet) *PlanetHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.planetHistory[p]
	if !ok {
		return nil
	}

	copyHist := &PlanetHistory{
		Planet:           hist.Planet,
		LongitudeHistory: make([]TimeSeries, len(hist.LongitudeHistory)),
		SpeedHistory:     make([]TimeSeries, len(hist.SpeedHistory)),
	}
	copy(copyHist.LongitudeHistory, hist.LongitudeHistory)
	copy(copyHist.SpeedHistory, hist.SpeedHistory)
	return copyHist
}

// EstimateSpeed returns the mean daily motion of a planet between its last
// two recorded charts, in degrees/day. Zero if fewer than two points exist.
func (m *Manager) EstimateSpeed(p vedic.Planet) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist, ok := m.planetHistory[p]
	if !ok || len(hist.LongitudeHistory) < 2 {
		return 0
	}

	n := len(hist.LongitudeHistory)
	p1 := hist.LongitudeHistory[n-2]
	p2 := hist.LongitudeHistory[n-1]

	days := p2.Timestamp.Sub(p1.Timestamp).Hours() / 24
	if days == 0 {
		return 0
	}
	return zodiac.AngularDistance(p2.Value, p1.Value) / days
}

// Step returns the configured time step.
func (m *Manager) Step() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.step
}

// SetStep updates the time step.
func (m *Manager) SetStep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = d
}

// HasData returns true if at least one chart has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
