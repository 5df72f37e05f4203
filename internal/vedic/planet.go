// Package vedic derives sidereal Vedic charts from raw ephemeris samples:
// positions, houses, dignity, combustion and the lunar nodes.
package vedic

import (
	"strings"

	"github.com/litescript/ls-jyotish/internal/ephem"
)

// Planet enumerates the grahas and the optional outer planets.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
	Uranus
	Neptune
	Pluto
)

var planetNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mars:    "Mars",
	Mercury: "Mercury",
	Jupiter: "Jupiter",
	Venus:   "Venus",
	Saturn:  "Saturn",
	Rahu:    "Rahu",
	Ketu:    "Ketu",
	Uranus:  "Uranus",
	Neptune: "Neptune",
	Pluto:   "Pluto",
}

// planetBodies maps planets to provider bodies. Ketu has no body of its own.
var planetBodies = map[Planet]ephem.Body{
	Sun:     ephem.Sun,
	Moon:    ephem.Moon,
	Mars:    ephem.Mars,
	Mercury: ephem.Mercury,
	Jupiter: ephem.Jupiter,
	Venus:   ephem.Venus,
	Saturn:  ephem.Saturn,
	Rahu:    ephem.MeanNode,
	Uranus:  ephem.Uranus,
	Neptune: ephem.Neptune,
	Pluto:   ephem.Pluto,
}

// String returns the planet name.
func (p Planet) String() string {
	if p < 0 || int(p) >= len(planetNames) {
		return "Unknown"
	}
	return planetNames[p]
}

// Body returns the provider body sampled for p.
func (p Planet) Body() (ephem.Body, bool) {
	b, ok := planetBodies[p]
	return b, ok
}

// IsNode reports whether p is Rahu or Ketu.
func (p Planet) IsNode() bool {
	return p == Rahu || p == Ketu
}

// ClassicalPlanets returns the seven visible grahas, the default chart set.
func ClassicalPlanets() []Planet {
	return []Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}
}

// OuterPlanets returns the optional modern planets.
func OuterPlanets() []Planet {
	return []Planet{Uranus, Neptune, Pluto}
}

// ParsePlanet looks up a planet by English name, case-insensitively.
func ParsePlanet(s string) (Planet, bool) {
	s = strings.TrimSpace(s)
	for i, n := range planetNames {
		if strings.EqualFold(n, s) {
			return Planet(i), true
		}
	}
	return 0, false
}
