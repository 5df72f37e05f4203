// Package astro provides time scales, sidereal time and ecliptic frame math
// shared by the ephemeris and chart packages.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/joshuaferrara/go-satellite"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// DaysPerCentury is the length of a Julian century in days.
const DaysPerCentury = 36525.0

// ErrInvalidLocation is returned when observer coordinates are out of range.
var ErrInvalidLocation = errors.New("invalid observer location")

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	AltM   float64 // Altitude above sea level in meters
	Name   string  // Optional name for the site
}

// Validate checks that the observer coordinates are finite and in range.
func (o Observer) Validate() error {
	switch {
	case math.IsNaN(o.LatDeg) || math.IsNaN(o.LonDeg) || math.IsNaN(o.AltM):
		return fmt.Errorf("%w: NaN coordinate", ErrInvalidLocation)
	case o.LatDeg < -90 || o.LatDeg > 90:
		return fmt.Errorf("%w: latitude %.4f outside [-90, 90]", ErrInvalidLocation, o.LatDeg)
	case o.LonDeg < -180 || o.LonDeg > 180:
		return fmt.Errorf("%w: longitude %.4f outside [-180, 180]", ErrInvalidLocation, o.LonDeg)
	case math.IsInf(o.AltM, 0):
		return fmt.Errorf("%w: altitude not finite", ErrInvalidLocation)
	}
	return nil
}

// String formats the observer for logs and table headers.
func (o Observer) String() string {
	ns, ew := "N", "E"
	lat, lon := o.LatDeg, o.LonDeg
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	s := fmt.Sprintf("%.4f°%s %.4f°%s", lat, ns, lon, ew)
	if o.Name != "" {
		s = o.Name + " (" + s + ")"
	}
	return s
}

// JulianDay returns the Julian Day (UT) for a time. Whole seconds go through
// the SGP4 library's calendar routine; the sub-second part is added here.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	jd := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	return jd + float64(t.Nanosecond())/86400e9
}

// TimeFromJulianDay converts a Julian Day back to a UTC time, rounded to the
// nearest millisecond.
func TimeFromJulianDay(jd float64) time.Time {
	// Unix epoch is JD 2440587.5
	ms := math.Round((jd - 2440587.5) * 86400e3)
	return time.UnixMilli(int64(ms)).UTC()
}

// CenturiesSinceJ2000 returns Julian centuries elapsed since J2000.0.
func CenturiesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// GreenwichMeanSiderealTime returns GMST in degrees for a Julian Day.
func GreenwichMeanSiderealTime(jd float64) float64 {
	return normalizeAngle360(radToDeg(satellite.ThetaG_JD(jd)))
}

// LocalSiderealTime returns the local sidereal time in degrees for a Julian
// Day and an east-positive longitude. This is also the RAMC used by the
// house engine.
func LocalSiderealTime(jd, lonDeg float64) float64 {
	return normalizeAngle360(GreenwichMeanSiderealTime(jd) + lonDeg)
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
