package ephem

import (
	"context"
	"fmt"
	"math"

	"github.com/litescript/ls-jyotish/internal/astro"
)

// speedStep is the half-width in days of the central difference used for
// rates of change.
const speedStep = 0.25

// AnalyticProvider computes samples from built-in series and mean orbital
// elements. It needs no data files and is always ready.
type AnalyticProvider struct{}

// NewAnalyticProvider creates the built-in provider.
func NewAnalyticProvider() *AnalyticProvider {
	return &AnalyticProvider{}
}

// Name implements Provider.
func (p *AnalyticProvider) Name() string {
	return "analytic"
}

// SamplePlanet implements Provider.
func (p *AnalyticProvider) SamplePlanet(ctx context.Context, body Body, jd float64, flags Flags) (RawSample, error) {
	if err := ctx.Err(); err != nil {
		return RawSample{}, err
	}
	if flags.Has(FlagTopocentric) {
		return RawSample{}, fmt.Errorf("%w: analytic provider is geocentric only", ErrUnsupportedFlags)
	}
	if _, ok := body.Info(); !ok {
		return RawSample{}, fmt.Errorf("%w: %d", ErrUnsupportedBody, int(body))
	}

	equatorial := flags.Has(FlagEquatorial)
	lon, lat, dist := analyticPosition(body, jd, equatorial)
	s := RawSample{Longitude: lon, Latitude: lat, Distance: dist}

	if flags.Has(FlagSpeed) {
		lon0, lat0, dist0 := analyticPosition(body, jd-speedStep, equatorial)
		lon1, lat1, dist1 := analyticPosition(body, jd+speedStep, equatorial)
		s.LongitudeSpeed = wrapDelta(lon1-lon0) / (2 * speedStep)
		s.LatitudeSpeed = (lat1 - lat0) / (2 * speedStep)
		s.DistanceSpeed = (dist1 - dist0) / (2 * speedStep)
	}
	return s, nil
}

// Ayanamsa implements Provider.
func (p *AnalyticProvider) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return ComputeAyanamsa(jd, mode)
}

// Houses implements Provider.
func (p *AnalyticProvider) Houses(ctx context.Context, jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error) {
	if err := ctx.Err(); err != nil {
		return HouseData{}, err
	}
	return ComputeHouses(jd, latDeg, lonDeg, code)
}

// analyticPosition dispatches to the per-body theory. Callers have already
// checked that body is known.
func analyticPosition(body Body, jd float64, equatorial bool) (lon, lat, dist float64) {
	switch body {
	case Sun:
		sun := astro.SunPosition(jd)
		lon, lat, dist = sun.LonDeg, sun.LatDeg, sun.DistAU
	case Moon:
		lon, lat, dist = moonPosition(jd)
	case MeanNode:
		lon, lat, dist = meanNode(jd), 0, meanLunarDistanceAU
	default:
		lon, lat, dist, _ = planetGeocentric(body, jd)
	}

	if equatorial {
		eps := astro.MeanObliquity(astro.CenturiesSinceJ2000(jd))
		lon, lat = astro.EclipticToRADec(lon, lat, eps)
	}
	return lon, lat, dist
}

// wrapDelta maps an angle difference into (-180, 180].
func wrapDelta(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
