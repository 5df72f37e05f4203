package ephem

import (
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-jyotish/internal/astro"
)

// HouseCode is the single-letter house system identifier.
type HouseCode byte

const (
	HousePlacidus  HouseCode = 'P'
	HousePorphyry  HouseCode = 'O'
	HouseEqual     HouseCode = 'E'
	HouseWholeSign HouseCode = 'W'
)

var houseNames = map[HouseCode]string{
	HousePlacidus:  "Placidus",
	HousePorphyry:  "Porphyry",
	HouseEqual:     "Equal",
	HouseWholeSign: "Whole Sign",
}

// String returns the house system name, or the raw code if unknown.
func (c HouseCode) String() string {
	if n, ok := houseNames[c]; ok {
		return n
	}
	return string(rune(c))
}

// Valid reports whether the engine implements the code.
func (c HouseCode) Valid() bool {
	_, ok := houseNames[c]
	return ok
}

// ParseHouseCode accepts a single-letter code or a system name.
func ParseHouseCode(s string) (HouseCode, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := HouseCode(strings.ToUpper(s)[0])
		if c.Valid() {
			return c, nil
		}
	}
	for c, n := range houseNames {
		if normalizeName(n) == normalizeName(s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, s)
}

// maxPlacidusIter bounds the semi-arc iteration; it converges in a handful
// of steps outside the polar circles.
const maxPlacidusIter = 50

// ComputeHouses returns tropical cusps, ascendant and midheaven.
func ComputeHouses(jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error) {
	if !code.Valid() {
		return HouseData{}, fmt.Errorf("%w: %q", ErrUnknownHouseSystem, string(rune(code)))
	}

	eps := astro.MeanObliquity(astro.CenturiesSinceJ2000(jd))
	ramc := astro.LocalSiderealTime(jd, lonDeg)
	asc, mc := ascMC(ramc, latDeg, eps)

	hd := HouseData{Ascendant: asc, Midheaven: mc}

	switch code {
	case HousePlacidus:
		if math.Abs(latDeg) >= 90-eps {
			return HouseData{}, fmt.Errorf("%w: latitude %.4f", ErrPolarLatitude, latDeg)
		}
		hd.Cusps[0] = asc
		hd.Cusps[9] = mc
		hd.Cusps[10] = placidusCusp(ramc, latDeg, eps, 1.0/3, true)
		hd.Cusps[11] = placidusCusp(ramc, latDeg, eps, 2.0/3, true)
		hd.Cusps[1] = placidusCusp(ramc, latDeg, eps, 2.0/3, false)
		hd.Cusps[2] = placidusCusp(ramc, latDeg, eps, 1.0/3, false)
		fillOpposites(&hd.Cusps)

	case HousePorphyry:
		upper := norm360(asc - mc)
		lower := norm360(mc + 180 - asc)
		hd.Cusps[0] = asc
		hd.Cusps[9] = mc
		hd.Cusps[10] = norm360(mc + upper/3)
		hd.Cusps[11] = norm360(mc + 2*upper/3)
		hd.Cusps[1] = norm360(asc + lower/3)
		hd.Cusps[2] = norm360(asc + 2*lower/3)
		fillOpposites(&hd.Cusps)

	case HouseEqual:
		for i := range hd.Cusps {
			hd.Cusps[i] = norm360(asc + 30*float64(i))
		}

	case HouseWholeSign:
		start := math.Floor(asc/30) * 30
		for i := range hd.Cusps {
			hd.Cusps[i] = norm360(start + 30*float64(i))
		}
	}

	return hd, nil
}

// ascMC derives the ascendant and midheaven from the sidereal time (RAMC),
// geographic latitude and obliquity, all in degrees.
func ascMC(ramc, latDeg, eps float64) (asc, mc float64) {
	r := deg2rad(ramc)
	e := deg2rad(eps)
	phi := deg2rad(latDeg)

	mc = norm360(rad2deg(math.Atan2(math.Sin(r), math.Cos(r)*math.Cos(e))))
	asc = norm360(rad2deg(math.Atan2(math.Cos(r), -(math.Sin(r)*math.Cos(e) + math.Tan(phi)*math.Sin(e)))))
	return asc, mc
}

// placidusCusp finds the ecliptic point whose hour angle is the given
// fraction of its own semi-arc. Upper cusps (11, 12) trisect the diurnal
// arc east of the MC; lower cusps (2, 3) trisect the nocturnal arc below the
// ascendant.
func placidusCusp(ramc, latDeg, eps, frac float64, upper bool) float64 {
	tanPhi := math.Tan(deg2rad(latDeg))
	sinE, cosE := math.Sin(deg2rad(eps)), math.Cos(deg2rad(eps))

	ra := ramc + 90*frac
	if !upper {
		ra = ramc + 180 - 90*frac
	}
	lon := 0.0
	for i := 0; i < maxPlacidusIter; i++ {
		rr := deg2rad(ra)
		lon = math.Atan2(math.Sin(rr), math.Cos(rr)*cosE)
		dec := math.Asin(sinE * math.Sin(lon))
		ad := rad2deg(math.Asin(clamp(tanPhi*math.Tan(dec), -1, 1)))

		var next float64
		if upper {
			next = ramc + frac*(90+ad)
		} else {
			next = ramc + 180 - frac*(90-ad)
		}
		if math.Abs(next-ra) < 1e-9 {
			ra = next
			break
		}
		ra = next
	}
	rr := deg2rad(ra)
	lon = math.Atan2(math.Sin(rr), math.Cos(rr)*cosE)
	return norm360(rad2deg(lon))
}

// fillOpposites sets cusps 4-9 opposite cusps 10-12 and 1-3.
func fillOpposites(c *[12]float64) {
	for i := 0; i < 3; i++ {
		c[i+3] = norm360(c[i+9] + 180)
		c[i+6] = norm360(c[i] + 180)
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func norm360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
