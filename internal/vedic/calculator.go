package vedic

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/logging"
)

// ReferenceHouseCode is the house system always requested from the provider.
// The caller's nominal system is recorded on the chart but not forwarded.
const ReferenceHouseCode = ephem.HousePlacidus

// sampleFlags are the flags used for every planet sample.
const sampleFlags = ephem.FlagSpeed

// ChartRequest describes one chart computation.
type ChartRequest struct {
	Time         time.Time
	Location     astro.Observer
	Planets      []Planet // nil selects the classical seven
	IncludeOuter bool     // append Uranus, Neptune, Pluto
	HouseSystem  ephem.HouseCode
	Ayanamsa     ephem.AyanamsaMode
}

// planetSet returns the requested planets without duplicates or nodes, in
// request order.
func (r ChartRequest) planetSet() ([]Planet, error) {
	in := r.Planets
	if in == nil {
		in = ClassicalPlanets()
	}
	if r.IncludeOuter {
		in = append(append([]Planet(nil), in...), OuterPlanets()...)
	}
	seen := make(map[Planet]bool, len(in))
	out := make([]Planet, 0, len(in))
	for _, p := range in {
		if p.IsNode() {
			continue
		}
		if _, ok := p.Body(); !ok {
			return nil, validationError("planets", "unsupported planet %d", int(p))
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// ChartRecorder observes chart outcomes.
type ChartRecorder interface {
	ObserveChart(d time.Duration, err error)
}

// Calculator assembles charts from an injected provider.
type Calculator struct {
	provider ephem.Provider
	log      *logging.Logger
	recorder ChartRecorder
}

// NewCalculator creates a calculator. A nil logger discards output.
func NewCalculator(p ephem.Provider, log *logging.Logger) *Calculator {
	if log == nil {
		log = logging.Discard()
	}
	return &Calculator{provider: p, log: log}
}

// SetRecorder installs a chart outcome recorder.
func (c *Calculator) SetRecorder(r ChartRecorder) {
	c.recorder = r
}

// Provider returns the underlying provider.
func (c *Calculator) Provider() ephem.Provider {
	return c.provider
}

// Compute builds a chart. Any provider failure aborts the chart; nothing is
// retried here.
func (c *Calculator) Compute(ctx context.Context, req ChartRequest) (*VedicChart, error) {
	start := time.Now()
	chart, err := c.compute(ctx, req)
	if c != nil && c.recorder != nil {
		c.recorder.ObserveChart(time.Since(start), err)
	}
	return chart, err
}

func (c *Calculator) compute(ctx context.Context, req ChartRequest) (*VedicChart, error) {
	if c == nil || c.provider == nil {
		return nil, &Error{Kind: KindNotInitialized, Op: "chart", Err: ephem.ErrNotReady}
	}
	if err := req.Location.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Op: "request", Subject: "location", Err: err}
	}
	if req.Time.IsZero() {
		return nil, validationError("time", "instant is required")
	}
	nominal := req.HouseSystem
	if nominal == 0 {
		nominal = ReferenceHouseCode
	}
	if !nominal.Valid() {
		return nil, &Error{Kind: KindValidation, Op: "request", Subject: "house system",
			Err: fmt.Errorf("%w: %q", ephem.ErrUnknownHouseSystem, string(rune(nominal)))}
	}
	if req.Ayanamsa.String() == "Unknown" {
		return nil, &Error{Kind: KindValidation, Op: "request", Subject: "ayanamsa",
			Err: fmt.Errorf("%w: %d", ephem.ErrUnknownAyanamsa, int(req.Ayanamsa))}
	}
	planets, err := req.planetSet()
	if err != nil {
		return nil, err
	}

	// The Sun is always sampled for combustion, and Rahu for the nodes.
	fetch := append([]Planet(nil), planets...)
	if !slices.Contains(fetch, Sun) {
		fetch = append(fetch, Sun)
	}
	fetch = append(fetch, Rahu)

	jd := astro.JulianDay(req.Time)
	loc := req.Location

	var (
		houses   ephem.HouseData
		ayanamsa float64
		samples  = make([]ephem.RawSample, len(fetch))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hd, err := c.provider.Houses(gctx, jd, loc.LatDeg, loc.LonDeg, ReferenceHouseCode)
		if err != nil {
			return providerError("houses", ReferenceHouseCode.String(), err)
		}
		houses = hd
		return nil
	})
	g.Go(func() error {
		a, err := c.provider.Ayanamsa(gctx, jd, req.Ayanamsa)
		if err != nil {
			return providerError("ayanamsa", req.Ayanamsa.String(), err)
		}
		ayanamsa = a
		return nil
	})
	for i, p := range fetch {
		body, _ := p.Body()
		g.Go(func() error {
			s, err := c.provider.SamplePlanet(gctx, body, jd, sampleFlags)
			if err != nil {
				return providerError("sample", p.String(), err)
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hs := NewHouseSystem(ReferenceHouseCode.String(), nominal, houses, ayanamsa)
	c.log.Debug("chart frame",
		"jd", jd, "ayanamsa", ayanamsa, "mode", req.Ayanamsa.String(),
		"houses", hs.Name, "requested", nominal.String())

	positions := make(map[Planet]PlanetPosition, len(fetch))
	for i, p := range fetch {
		positions[p] = NewPlanetPosition(p, jd, samples[i], ayanamsa)
	}
	sunLon := positions[Sun].Longitude

	chart := &VedicChart{
		Time:          req.Time.UTC(),
		JulianDay:     jd,
		Location:      loc,
		Houses:        hs,
		AyanamsaMode:  req.Ayanamsa,
		AyanamsaValue: ayanamsa,
		Provider:      c.provider.Name(),
		order:         planets,
		planets:       make(map[Planet]VedicPlanetInfo, len(planets)),
	}
	for _, p := range planets {
		chart.planets[p] = newPlanetInfo(positions[p].WithCombustionCheck(sunLon), hs)
	}
	rahu := positions[Rahu].WithCombustionCheck(sunLon)
	chart.rahu = newPlanetInfo(rahu, hs)
	chart.ketu = KetuFrom(rahu)

	c.log.Debug("chart computed", "jd", jd, "planets", len(planets)+2,
		"lagna", chart.AscendantSign().String())
	return chart, nil
}

// providerError maps a provider failure into the chart error taxonomy.
func providerError(op, subject string, err error) error {
	kind := KindCalculation
	if errors.Is(err, ephem.ErrNotReady) {
		kind = KindNotInitialized
	}
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}
