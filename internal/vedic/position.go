package vedic

import (
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// PlanetPosition is a sidereal position derived from one raw sample.
// Values are immutable; WithCombustionCheck returns a modified copy.
type PlanetPosition struct {
	Planet         Planet
	JulianDay      float64
	Longitude      float64 // sidereal, [0,360)
	Latitude       float64
	Distance       float64 // AU
	LongitudeSpeed float64 // degrees/day
	LatitudeSpeed  float64
	DistanceSpeed  float64
	IsRetrograde   bool
	IsCombust      bool
}

// NewPlanetPosition applies the ayanamsa to a tropical sample.
func NewPlanetPosition(p Planet, jd float64, raw ephem.RawSample, ayanamsa float64) PlanetPosition {
	return PlanetPosition{
		Planet:         p,
		JulianDay:      jd,
		Longitude:      zodiac.ToSidereal(raw.Longitude, ayanamsa),
		Latitude:       raw.Latitude,
		Distance:       raw.Distance,
		LongitudeSpeed: raw.LongitudeSpeed,
		LatitudeSpeed:  raw.LatitudeSpeed,
		DistanceSpeed:  raw.DistanceSpeed,
		IsRetrograde:   raw.LongitudeSpeed < 0,
	}
}

// WithCombustionCheck returns a copy with IsCombust recomputed against the
// Sun's sidereal longitude. The nodes are never combust.
func (pp PlanetPosition) WithCombustionCheck(sunLongitude float64) PlanetPosition {
	if pp.Planet.IsNode() {
		pp.IsCombust = false
		return pp
	}
	pp.IsCombust = IsCombust(pp.Planet, pp.Longitude, sunLongitude)
	return pp
}

// Sign returns the sidereal sign.
func (pp PlanetPosition) Sign() zodiac.Sign {
	return zodiac.SignIndex(pp.Longitude)
}

// DegreeInSign returns degrees elapsed in the sign.
func (pp PlanetPosition) DegreeInSign() float64 {
	return zodiac.PositionInSign(pp.Longitude)
}

// Nakshatra returns the lunar mansion.
func (pp PlanetPosition) Nakshatra() zodiac.Nakshatra {
	return zodiac.NakshatraIndex(pp.Longitude)
}

// Pada returns the nakshatra quarter, 1-4.
func (pp PlanetPosition) Pada() int {
	return zodiac.Pada(pp.Longitude)
}
