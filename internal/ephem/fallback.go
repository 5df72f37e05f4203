package ephem

import (
	"context"
	"errors"

	"github.com/litescript/ls-jyotish/internal/logging"
)

// FallbackProvider tries a primary provider and repeats a failed call once
// on a secondary. Context cancellation is never retried.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	log       *logging.Logger
}

// NewFallbackProvider wraps primary with secondary as the fallback.
func NewFallbackProvider(primary, secondary Provider, log *logging.Logger) *FallbackProvider {
	if log == nil {
		log = logging.Discard()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, log: log}
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.secondary.Name()
}

// SamplePlanet implements Provider.
func (p *FallbackProvider) SamplePlanet(ctx context.Context, body Body, jd float64, flags Flags) (RawSample, error) {
	s, err := p.primary.SamplePlanet(ctx, body, jd, flags)
	if err == nil || !p.shouldFallback(ctx, err) {
		return s, err
	}
	p.log.Warn("primary ephemeris failed, using fallback",
		"op", "sample", "body", body.String(), "primary", p.primary.Name(), "err", err)
	return p.secondary.SamplePlanet(ctx, body, jd, flags)
}

// Ayanamsa implements Provider.
func (p *FallbackProvider) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	v, err := p.primary.Ayanamsa(ctx, jd, mode)
	if err == nil || !p.shouldFallback(ctx, err) {
		return v, err
	}
	p.log.Warn("primary ephemeris failed, using fallback",
		"op", "ayanamsa", "primary", p.primary.Name(), "err", err)
	return p.secondary.Ayanamsa(ctx, jd, mode)
}

// Houses implements Provider.
func (p *FallbackProvider) Houses(ctx context.Context, jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error) {
	hd, err := p.primary.Houses(ctx, jd, latDeg, lonDeg, code)
	if err == nil || !p.shouldFallback(ctx, err) {
		return hd, err
	}
	p.log.Warn("primary ephemeris failed, using fallback",
		"op", "houses", "primary", p.primary.Name(), "err", err)
	return p.secondary.Houses(ctx, jd, latDeg, lonDeg, code)
}

// shouldFallback excludes failures the secondary would reproduce: caller
// cancellation and input the engines reject by definition.
func (p *FallbackProvider) shouldFallback(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrUnknownAyanamsa), errors.Is(err, ErrUnknownHouseSystem), errors.Is(err, ErrPolarLatitude):
		return false
	}
	return true
}
