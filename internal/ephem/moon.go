package ephem

import (
	"math"

	"github.com/litescript/ls-jyotish/internal/astro"
)

// moonPosition returns the Moon's geocentric ecliptic longitude/latitude of
// date (degrees) and distance (AU) from a truncated lunar series. Longitude
// is good to ~0.3 degrees.
func moonPosition(jd float64) (lon, lat, dist float64) {
	d := jd - astro.J2000

	// Mean longitude, Sun and Moon mean anomalies, mean elongation and
	// argument of latitude.
	Lp := 218.3164477 + 13.17639648*d
	M := deg2rad(357.5291092 + 0.98560028*d)
	Mm := deg2rad(134.9633964 + 13.06499295*d)
	D := deg2rad(297.8501921 + 12.19074912*d)
	F := deg2rad(93.2720950 + 13.22935024*d)

	lon = Lp +
		6.289*math.Sin(Mm) +
		1.274*math.Sin(2*D-Mm) +
		0.658*math.Sin(2*D) +
		0.214*math.Sin(2*Mm) -
		0.186*math.Sin(M) -
		0.114*math.Sin(2*F)

	lat = 5.128*math.Sin(F) +
		0.280*math.Sin(Mm+F) +
		0.277*math.Sin(Mm-F) +
		0.173*math.Sin(2*D-F)

	km := 385000.56 -
		20905.355*math.Cos(Mm) -
		3699.111*math.Cos(2*D-Mm) -
		2955.968*math.Cos(2*D) -
		569.925*math.Cos(2*Mm)

	lon += nutationLongitude(astro.CenturiesSinceJ2000(jd))
	return norm360(lon), lat, astro.KmToAU(km)
}

// meanLunarDistanceAU is used as the distance of the lunar nodes.
const meanLunarDistanceAU = 0.0025695552

// meanNode returns the longitude of the Moon's mean ascending node (Rahu).
func meanNode(jd float64) float64 {
	T := astro.CenturiesSinceJ2000(jd)
	omega := 125.0445479 - 1934.1362891*T + 0.0020754*T*T + T*T*T/467441 - T*T*T*T/60616000
	return norm360(omega)
}
