// Package ephemtest provides a deterministic ephemeris provider for tests.
package ephemtest

import (
	"context"
	"sync"
	"time"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// EpochTime is the instant at which the default samples apply.
var EpochTime = time.Date(1994, 7, 28, 5, 5, 0, 0, time.UTC)

// Epoch is EpochTime as a Julian Day.
var Epoch = astro.JulianDay(EpochTime)

// Provider serves fixed samples that move linearly with their longitude
// speed away from Epoch. Houses and ayanamsa are constant.
type Provider struct {
	mu       sync.Mutex
	epoch    float64
	samples  map[ephem.Body]ephem.RawSample
	ayanamsa float64
	houses   ephem.HouseData
	err      error
	calls    int
}

// New returns a provider with a fixed layout. With the ayanamsa of 24° the
// sidereal lagna is 100° with equal houses, Sun 100, Moon 106 (combust),
// Mars 298, Mercury 86, Jupiter 230, Venus 340, Saturn 310 (retrograde) and
// Rahu 200.
func New() *Provider {
	p := &Provider{
		epoch:    Epoch,
		ayanamsa: 24,
		samples: map[ephem.Body]ephem.RawSample{
			ephem.Sun:      {Longitude: 124, Distance: 1.015, LongitudeSpeed: 0.955},
			ephem.Moon:     {Longitude: 130, Latitude: 2.1, Distance: 0.0026, LongitudeSpeed: 13.2},
			ephem.Mars:     {Longitude: 322, Latitude: -1.2, Distance: 1.4, LongitudeSpeed: 0.6},
			ephem.Mercury:  {Longitude: 110, Latitude: 0.5, Distance: 0.9, LongitudeSpeed: 1.3},
			ephem.Jupiter:  {Longitude: 254, Latitude: 1.0, Distance: 5.2, LongitudeSpeed: 0.1},
			ephem.Venus:    {Longitude: 4, Latitude: -0.3, Distance: 0.7, LongitudeSpeed: 1.1},
			ephem.Saturn:   {Longitude: 334, Latitude: -1.9, Distance: 9.1, LongitudeSpeed: -0.05},
			ephem.Uranus:   {Longitude: 294, Distance: 19.0, LongitudeSpeed: -0.03},
			ephem.Neptune:  {Longitude: 292, Distance: 29.5, LongitudeSpeed: -0.02},
			ephem.Pluto:    {Longitude: 235, Latitude: 14.0, Distance: 30.1, LongitudeSpeed: 0.01},
			ephem.MeanNode: {Longitude: 224, Distance: 0.00257, LongitudeSpeed: -0.053},
		},
	}
	for i := range p.houses.Cusps {
		p.houses.Cusps[i] = zodiac.NormalizeDegrees(124 + 30*float64(i))
	}
	p.houses.Ascendant = 124
	p.houses.Midheaven = 34
	return p
}

// Name implements ephem.Provider.
func (p *Provider) Name() string { return "ephemtest" }

// SamplePlanet implements ephem.Provider.
func (p *Provider) SamplePlanet(ctx context.Context, body ephem.Body, jd float64, _ ephem.Flags) (ephem.RawSample, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err := p.check(ctx); err != nil {
		return ephem.RawSample{}, err
	}
	s, ok := p.samples[body]
	if !ok {
		return ephem.RawSample{}, ephem.ErrUnsupportedBody
	}
	s.Longitude = zodiac.NormalizeDegrees(s.Longitude + s.LongitudeSpeed*(jd-p.epoch))
	return s, nil
}

// Ayanamsa implements ephem.Provider.
func (p *Provider) Ayanamsa(ctx context.Context, _ float64, _ ephem.AyanamsaMode) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err := p.check(ctx); err != nil {
		return 0, err
	}
	return p.ayanamsa, nil
}

// Houses implements ephem.Provider.
func (p *Provider) Houses(ctx context.Context, _, _, _ float64, _ ephem.HouseCode) (ephem.HouseData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if err := p.check(ctx); err != nil {
		return ephem.HouseData{}, err
	}
	return p.houses, nil
}

func (p *Provider) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.err
}

// SetSample replaces the sample for a body at Epoch.
func (p *Provider) SetSample(body ephem.Body, s ephem.RawSample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples[body] = s
}

// SetErr makes every subsequent call fail with err; nil clears it.
func (p *Provider) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Calls returns the number of provider calls made so far.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
