package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// SphericalToVec builds a vector from longitude/latitude in degrees and a
// radius in any unit.
func SphericalToVec(lonDeg, latDeg, r float64) Vec3 {
	lon, lat := degToRad(lonDeg), degToRad(latDeg)
	return Vec3{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}

// EclipticLatitude returns the ecliptic latitude in degrees for a vector.
func EclipticLatitude(v Vec3) float64 {
	r := v.Norm()
	if r == 0 {
		return 0
	}
	return radToDeg(math.Asin(v.Z / r))
}

// EclipticLongitude returns the ecliptic longitude in degrees for a vector.
func EclipticLongitude(v Vec3) float64 {
	return normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees for
// T Julian centuries since J2000 (IAU 1980 polynomial).
func MeanObliquity(T float64) float64 {
	return 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
}

// GeneralPrecession returns the accumulated general precession in longitude,
// in arcseconds, for T Julian centuries since J2000.
func GeneralPrecession(T float64) float64 {
	return 5028.796195*T + 1.1054348*T*T + 0.00007964*T*T*T - 0.000023857*T*T*T*T
}

// EquatorialToEcliptic rotates equatorial XYZ into ecliptic XYZ for an
// obliquity in degrees. Units are preserved.
func EquatorialToEcliptic(eq Vec3, oblDeg float64) Vec3 {
	cosE := math.Cos(degToRad(oblDeg))
	sinE := math.Sin(degToRad(oblDeg))

	return Vec3{
		X: eq.X,
		Y: eq.Y*cosE + eq.Z*sinE,
		Z: -eq.Y*sinE + eq.Z*cosE,
	}
}

// EclipticToEquatorial rotates ecliptic XYZ into equatorial XYZ.
func EclipticToEquatorial(ecl Vec3, oblDeg float64) Vec3 {
	cosE := math.Cos(degToRad(oblDeg))
	sinE := math.Sin(degToRad(oblDeg))

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// EclipticToRADec converts ecliptic longitude/latitude to right ascension and
// declination, all in degrees.
func EclipticToRADec(lonDeg, latDeg, oblDeg float64) (raDeg, decDeg float64) {
	eq := EclipticToEquatorial(SphericalToVec(lonDeg, latDeg, 1), oblDeg)
	return EclipticLongitude(eq), EclipticLatitude(eq)
}

// LightTimeFromAU returns the one-way light time in seconds for a distance in AU.
func LightTimeFromAU(au float64) float64 {
	// Light travels 1 AU in ~499.005 seconds
	return au * 499.005
}
