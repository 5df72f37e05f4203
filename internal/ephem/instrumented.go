package ephem

import (
	"context"
	"time"
)

// Operation labels reported to a CallRecorder.
const (
	OpSample   = "sample"
	OpAyanamsa = "ayanamsa"
	OpHouses   = "houses"
)

// CallRecorder receives one observation per provider call.
type CallRecorder interface {
	ObserveProviderCall(op string, d time.Duration, err error)
}

// InstrumentedProvider reports the duration and outcome of every call made
// to the wrapped provider.
type InstrumentedProvider struct {
	next Provider
	rec  CallRecorder
	now  func() time.Time
}

// NewInstrumentedProvider decorates next. A nil recorder returns next as is.
func NewInstrumentedProvider(next Provider, rec CallRecorder) Provider {
	if rec == nil {
		return next
	}
	return &InstrumentedProvider{next: next, rec: rec, now: time.Now}
}

// Name implements Provider.
func (p *InstrumentedProvider) Name() string {
	return p.next.Name()
}

// SamplePlanet implements Provider.
func (p *InstrumentedProvider) SamplePlanet(ctx context.Context, body Body, jd float64, flags Flags) (RawSample, error) {
	start := p.now()
	s, err := p.next.SamplePlanet(ctx, body, jd, flags)
	p.rec.ObserveProviderCall(OpSample, p.now().Sub(start), err)
	return s, err
}

// Ayanamsa implements Provider.
func (p *InstrumentedProvider) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	start := p.now()
	v, err := p.next.Ayanamsa(ctx, jd, mode)
	p.rec.ObserveProviderCall(OpAyanamsa, p.now().Sub(start), err)
	return v, err
}

// Houses implements Provider.
func (p *InstrumentedProvider) Houses(ctx context.Context, jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error) {
	start := p.now()
	hd, err := p.next.Houses(ctx, jd, latDeg, lonDeg, code)
	p.rec.ObserveProviderCall(OpHouses, p.now().Sub(start), err)
	return hd, err
}
