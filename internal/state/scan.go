package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-jyotish/internal/vedic"
)

// ChartSource computes a chart for a request. *vedic.Calculator satisfies it.
type ChartSource interface {
	Compute(ctx context.Context, req vedic.ChartRequest) (*vedic.VedicChart, error)
}

// ErrInvalidScan is returned for a non-positive span or step.
var ErrInvalidScan = errors.New("invalid scan range")

// Scan computes charts from req.Time to req.Time+span at the manager's step
// and records each one. It returns every event found, which may be more than
// the event log retains. The first failed computation stops the scan.
func (m *Manager) Scan(ctx context.Context, src ChartSource, req vedic.ChartRequest, span time.Duration) ([]Event, error) {
	step := m.Step()
	if step <= 0 || span <= 0 {
		return nil, fmt.Errorf("%w: span %s step %s", ErrInvalidScan, span, step)
	}

	var found []Event
	from := req.Time
	for at := from; !at.After(from.Add(span)); at = at.Add(step) {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		r := req
		r.Time = at

		start := time.Now()
		chart, err := src.Compute(ctx, r)
		found = append(found, m.record(chart, time.Since(start), err)...)
		if err != nil {
			return found, fmt.Errorf("scan at %s: %w", at.Format(time.RFC3339), err)
		}
	}
	return found, nil
}

// WriteEvents writes up to limit of the newest events as a text table,
// oldest first. A limit of zero or less writes them all.
func WriteEvents(w io.Writer, events []Event, limit int) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	fmt.Fprintf(w, "%-20s %-19s %-8s %s\n", "Time (UTC)", "Event", "Planet", "Change")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, e := range events {
		change := e.To
		if e.From != "" && e.To != "" {
			change = e.From + " -> " + e.To
		}
		fmt.Fprintf(w, "%-20s %-19s %-8s %s\n",
			e.Timestamp.UTC().Format("2006-01-02 15:04"), e.Type, e.Planet, change)
	}
}
