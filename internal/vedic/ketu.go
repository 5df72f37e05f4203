package vedic

import "github.com/litescript/ls-jyotish/internal/zodiac"

// KetuPosition is the south lunar node, a view over Rahu's position.
// It stores nothing of its own.
type KetuPosition struct {
	rahu PlanetPosition
}

// KetuFrom derives Ketu from Rahu.
func KetuFrom(rahu PlanetPosition) KetuPosition {
	return KetuPosition{rahu: rahu}
}

// Longitude is exactly opposite Rahu.
func (k KetuPosition) Longitude() float64 {
	return zodiac.NormalizeDegrees(k.rahu.Longitude + 180)
}

// Latitude mirrors Rahu's.
func (k KetuPosition) Latitude() float64 { return -k.rahu.Latitude }

// Distance equals Rahu's.
func (k KetuPosition) Distance() float64 { return k.rahu.Distance }

// LongitudeSpeed is Rahu's speed negated.
func (k KetuPosition) LongitudeSpeed() float64 { return -k.rahu.LongitudeSpeed }

// IsRetrograde is always true for the nodes.
func (k KetuPosition) IsRetrograde() bool { return true }

// Rahu returns the position this view is derived from.
func (k KetuPosition) Rahu() PlanetPosition { return k.rahu }

// Position materializes the view as a PlanetPosition for display and
// classification.
func (k KetuPosition) Position() PlanetPosition {
	return PlanetPosition{
		Planet:         Ketu,
		JulianDay:      k.rahu.JulianDay,
		Longitude:      k.Longitude(),
		Latitude:       k.Latitude(),
		Distance:       k.Distance(),
		LongitudeSpeed: k.LongitudeSpeed(),
		LatitudeSpeed:  -k.rahu.LatitudeSpeed,
		DistanceSpeed:  k.rahu.DistanceSpeed,
		IsRetrograde:   true,
	}
}
