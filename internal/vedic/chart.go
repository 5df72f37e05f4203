package vedic

import (
	"time"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// VedicPlanetInfo is a classified planet in a chart.
type VedicPlanetInfo struct {
	Position           PlanetPosition
	House              int // 1-12
	Dignity            Dignity
	IsCombust          bool
	ExaltationDegree   *float64
	DebilitationDegree *float64
}

// newPlanetInfo classifies a position against the chart's houses.
func newPlanetInfo(pp PlanetPosition, hs HouseSystem) VedicPlanetInfo {
	info := VedicPlanetInfo{
		Position:  pp,
		House:     hs.HouseFor(pp.Longitude),
		Dignity:   ClassifyDignity(pp.Planet, pp.Sign()),
		IsCombust: pp.IsCombust,
	}
	if d, ok := ExaltationDegree(pp.Planet); ok {
		info.ExaltationDegree = &d
	}
	if d, ok := DebilitationDegree(pp.Planet); ok {
		info.DebilitationDegree = &d
	}
	return info
}

// VedicChart is an immutable chart snapshot. Planet records are only
// reachable through accessors, which return copies.
type VedicChart struct {
	Time          time.Time
	JulianDay     float64
	Location      astro.Observer
	Houses        HouseSystem
	AyanamsaMode  ephem.AyanamsaMode
	AyanamsaValue float64
	Provider      string

	order   []Planet
	planets map[Planet]VedicPlanetInfo
	rahu    VedicPlanetInfo
	ketu    KetuPosition
}

// Planet returns the record for p. Rahu and Ketu are always present.
func (c *VedicChart) Planet(p Planet) (VedicPlanetInfo, bool) {
	switch p {
	case Rahu:
		return c.rahu, true
	case Ketu:
		return c.KetuInfo(), true
	}
	info, ok := c.planets[p]
	return info, ok
}

// Planets returns the requested planets in request order, without the nodes.
func (c *VedicChart) Planets() []Planet {
	return append([]Planet(nil), c.order...)
}

// All returns every record: requested planets, then Rahu and Ketu.
func (c *VedicChart) All() []VedicPlanetInfo {
	out := make([]VedicPlanetInfo, 0, len(c.order)+2)
	for _, p := range c.order {
		out = append(out, c.planets[p])
	}
	return append(out, c.rahu, c.KetuInfo())
}

// Rahu returns the north node record.
func (c *VedicChart) Rahu() VedicPlanetInfo {
	return c.rahu
}

// Ketu returns the south node view.
func (c *VedicChart) Ketu() KetuPosition {
	return c.ketu
}

// KetuInfo classifies Ketu on demand. Ketu has no dignity rules and is never
// combust.
func (c *VedicChart) KetuInfo() VedicPlanetInfo {
	pp := c.ketu.Position()
	return VedicPlanetInfo{
		Position: pp,
		House:    c.Houses.HouseFor(pp.Longitude),
		Dignity:  NeutralSign,
	}
}

func (c *VedicChart) filter(keep func(VedicPlanetInfo) bool) []Planet {
	var out []Planet
	for _, info := range c.All() {
		if keep(info) {
			out = append(out, info.Position.Planet)
		}
	}
	return out
}

// PlanetsInHouse lists planets (nodes included) in house n.
func (c *VedicChart) PlanetsInHouse(n int) []Planet {
	return c.filter(func(i VedicPlanetInfo) bool { return i.House == n })
}

// PlanetsWithDignity lists planets with dignity d.
func (c *VedicChart) PlanetsWithDignity(d Dignity) []Planet {
	return c.filter(func(i VedicPlanetInfo) bool { return i.Dignity == d })
}

// RetrogradePlanets lists retrograde planets. The nodes always appear.
func (c *VedicChart) RetrogradePlanets() []Planet {
	return c.filter(func(i VedicPlanetInfo) bool { return i.Position.IsRetrograde })
}

// CombustPlanets lists combust planets.
func (c *VedicChart) CombustPlanets() []Planet {
	return c.filter(func(i VedicPlanetInfo) bool { return i.IsCombust })
}

// Ascendant returns the sidereal lagna longitude.
func (c *VedicChart) Ascendant() float64 {
	return c.Houses.Ascendant
}

// AscendantSign returns the lagna sign.
func (c *VedicChart) AscendantSign() zodiac.Sign {
	return zodiac.SignIndex(c.Houses.Ascendant)
}

// MoonNakshatra returns the Moon's nakshatra and pada, if the Moon was
// requested.
func (c *VedicChart) MoonNakshatra() (zodiac.Nakshatra, int, bool) {
	info, ok := c.planets[Moon]
	if !ok {
		return 0, 0, false
	}
	return info.Position.Nakshatra(), info.Position.Pada(), true
}
