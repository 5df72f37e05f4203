package vedic

import (
	"math"

	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// DefaultCombustionThreshold applies to planets without a listed orb.
const DefaultCombustionThreshold = 10.0

// combustionThresholds are the orbs (degrees) within which a planet is combust.
var combustionThresholds = map[Planet]float64{
	Moon:    12.0,
	Mercury: 14.0,
	Venus:   10.0,
	Mars:    17.0,
	Jupiter: 11.0,
	Saturn:  15.0,
}

// CombustionThreshold returns the combustion orb for p.
func CombustionThreshold(p Planet) float64 {
	if t, ok := combustionThresholds[p]; ok {
		return t
	}
	return DefaultCombustionThreshold
}

// IsCombust reports whether a planet at lon is strictly within its orb of
// the Sun at sunLon. The Sun itself is never combust; callers exempt the
// nodes.
func IsCombust(p Planet, lon, sunLon float64) bool {
	if p == Sun {
		return false
	}
	sep := math.Abs(zodiac.AngularDistance(lon, sunLon))
	return sep < CombustionThreshold(p)
}
