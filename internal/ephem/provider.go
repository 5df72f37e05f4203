// Package ephem provides the ephemeris boundary for chart calculation: raw
// tropical planet samples, ayanamsa values and house cusps.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/litescript/ls-jyotish/internal/logging"
)

// Provider failures the chart layer distinguishes with errors.Is.
var (
	ErrNotReady           = errors.New("ephemeris provider not ready")
	ErrUnsupportedBody    = errors.New("unsupported body")
	ErrUnknownAyanamsa    = errors.New("unknown ayanamsa mode")
	ErrUnknownHouseSystem = errors.New("unknown house system")
	ErrPolarLatitude      = errors.New("house system undefined at polar latitude")
	ErrUnsupportedFlags   = errors.New("unsupported calculation flags")
)

// Flags select what a planet sample contains.
type Flags uint

const (
	// FlagSpeed includes daily rates of change.
	FlagSpeed Flags = 1 << iota
	// FlagTopocentric measures from the observer site instead of Earth's centre.
	FlagTopocentric
	// FlagEquatorial returns right ascension/declination instead of
	// ecliptic longitude/latitude.
	FlagEquatorial
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

func (f Flags) String() string {
	var parts []string
	if f.Has(FlagSpeed) {
		parts = append(parts, "speed")
	}
	if f.Has(FlagTopocentric) {
		parts = append(parts, "topo")
	}
	if f.Has(FlagEquatorial) {
		parts = append(parts, "equatorial")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// RawSample holds the six tropical values for one body at one instant.
// With FlagEquatorial, Longitude/Latitude are RA/Dec.
type RawSample struct {
	Longitude      float64 // degrees [0,360)
	Latitude       float64 // degrees [-90,90]
	Distance       float64 // AU
	LongitudeSpeed float64 // degrees/day
	LatitudeSpeed  float64 // degrees/day
	DistanceSpeed  float64 // AU/day
}

// HouseData is the tropical output of a house calculation.
type HouseData struct {
	Cusps     [12]float64 // cusp longitudes, index 0 = house 1
	Ascendant float64
	Midheaven float64
}

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// SamplePlanet returns the tropical sample for a body at a Julian Day (UT).
	SamplePlanet(ctx context.Context, body Body, jd float64, flags Flags) (RawSample, error)

	// Ayanamsa returns the sidereal offset in degrees for an instant.
	Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error)

	// Houses returns tropical cusps, ascendant and midheaven for a site.
	Houses(ctx context.Context, jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeAnalytic Mode = iota // Built-in series (default, offline)
	ModeHorizons             // JPL Horizons API for planet samples
	ModeAuto                 // Try Horizons, fall back to analytic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAnalytic:
		return "analytic"
	case ModeHorizons:
		return "horizons"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "analytic":
		return ModeAnalytic, nil
	case "horizons":
		return ModeHorizons, nil
	case "auto":
		return ModeAuto, nil
	default:
		return ModeAnalytic, fmt.Errorf("unknown ephemeris mode %q", s)
	}
}

// New builds the provider for a mode. Horizons-backed modes use the analytic
// provider for the quantities Horizons does not serve.
func New(mode Mode, cfg HorizonsConfig, log *logging.Logger) (Provider, error) {
	analytic := NewAnalyticProvider()
	switch mode {
	case ModeAnalytic:
		return analytic, nil
	case ModeHorizons:
		return NewHorizonsProvider(cfg, analytic), nil
	case ModeAuto:
		return NewFallbackProvider(NewHorizonsProvider(cfg, analytic), analytic, log), nil
	default:
		return nil, fmt.Errorf("unknown ephemeris mode %d", int(mode))
	}
}
