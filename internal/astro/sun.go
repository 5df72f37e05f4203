package astro

import (
	"math"
)

// SunEcliptic is the Sun's apparent geocentric position in the tropical
// ecliptic of date.
type SunEcliptic struct {
	LonDeg float64 // Apparent longitude, degrees
	LatDeg float64 // Always within a few arcseconds of zero; reported as 0
	DistAU float64 // Radius vector in AU
}

// SunPosition calculates the Sun's apparent ecliptic longitude and distance
// for a Julian Day. Uses a simplified solar ephemeris based on the
// Astronomical Almanac; accuracy is ~0.01 degrees.
func SunPosition(jd float64) SunEcliptic {
	T := CenturiesSinceJ2000(jd)

	// Mean longitude of the Sun (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	trueLon := L0 + C
	v := degToRad(M + C)

	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T
	R := (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(v))

	// Aberration and nutation in longitude
	omega := 125.04 - 1934.136*T
	apparent := trueLon - 0.00569 - 0.00478*math.Sin(degToRad(omega))

	return SunEcliptic{
		LonDeg: normalizeAngle360(apparent),
		DistAU: R,
	}
}

// SunRADec returns the Sun's apparent right ascension and declination in
// degrees, using the obliquity corrected for nutation.
func SunRADec(jd float64) (raDeg, decDeg float64) {
	T := CenturiesSinceJ2000(jd)
	omega := 125.04 - 1934.136*T
	eps := MeanObliquity(T) + 0.00256*math.Cos(degToRad(omega))

	sun := SunPosition(jd)
	return EclipticToRADec(sun.LonDeg, 0, eps)
}
