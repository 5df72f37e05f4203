// Package zodiac provides angle normalization and sidereal zodiac lookups:
// signs, nakshatras (lunar mansions) and padas.
package zodiac

import (
	"fmt"
	"math"
)

const (
	// SignSpan is the width of one zodiac sign in degrees.
	SignSpan = 30.0

	// NakshatraSpan is the width of one nakshatra (13°20′).
	NakshatraSpan = 360.0 / 27.0

	// PadaSpan is the width of one pada, a quarter nakshatra (3°20′).
	PadaSpan = NakshatraSpan / 4.0
)

// NormalizeDegrees wraps any angle into [0, 360).
func NormalizeDegrees(x float64) float64 {
	n := math.Mod(x, 360)
	if n < 0 {
		n += 360
	}
	// Adding 360 can round a tiny negative input up to exactly 360.
	if n >= 360 {
		n = 0
	}
	return n
}

// ToSidereal converts a tropical longitude to sidereal by subtracting the
// ayanamsa, wrapping into [0, 360).
func ToSidereal(tropicalLongitude, ayanamsa float64) float64 {
	return NormalizeDegrees(tropicalLongitude - ayanamsa)
}

// AngularDistance returns the signed shortest separation a-b in (-180, 180].
func AngularDistance(a, b float64) float64 {
	d := math.Mod(a-b+540, 360)
	if d < 0 {
		d += 360
	}
	d -= 180
	if d == -180 {
		d = 180
	}
	return d
}

// Sign is a zodiac sign index, 0 = Aries through 11 = Pisces.
type Sign int

// Zodiac signs in order.
const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// NoSign marks the absence of a sign in lookup tables.
const NoSign Sign = -1

// SignNames lists the sign names in zodiac order.
var SignNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// signAbbrev holds three-letter abbreviations used in compact tables.
var signAbbrev = [12]string{
	"Ari", "Tau", "Gem", "Can", "Leo", "Vir",
	"Lib", "Sco", "Sag", "Cap", "Aqu", "Pis",
}

// String returns the sign name.
func (s Sign) String() string {
	if s < 0 || s > 11 {
		return "Unknown"
	}
	return SignNames[s]
}

// Abbrev returns a three-letter abbreviation.
func (s Sign) Abbrev() string {
	if s < 0 || s > 11 {
		return "???"
	}
	return signAbbrev[s]
}

// SignIndex maps a longitude to its sign: floor(lon/30) mod 12.
func SignIndex(longitude float64) Sign {
	return Sign(int(math.Floor(NormalizeDegrees(longitude)/SignSpan)) % 12)
}

// PositionInSign returns the degrees elapsed within the longitude's sign.
func PositionInSign(longitude float64) float64 {
	return math.Mod(NormalizeDegrees(longitude), SignSpan)
}

// Nakshatra is a lunar mansion index, 0 = Ashwini through 26 = Revati.
type Nakshatra int

// NakshatraNames lists the 27 nakshatras in order from 0° sidereal Aries.
var NakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// nakshatraLords repeats the Vimshottari ruler sequence across the 27 mansions.
var nakshatraLords = [9]string{
	"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury",
}

// String returns the nakshatra name.
func (n Nakshatra) String() string {
	if n < 0 || n > 26 {
		return "Unknown"
	}
	return NakshatraNames[n]
}

// Lord returns the name of the nakshatra's ruling planet.
func (n Nakshatra) Lord() string {
	if n < 0 || n > 26 {
		return ""
	}
	return nakshatraLords[int(n)%9]
}

// NakshatraIndex maps a longitude to its nakshatra: floor(lon/(360/27)) mod 27.
func NakshatraIndex(longitude float64) Nakshatra {
	return Nakshatra(int(math.Floor(NormalizeDegrees(longitude)/NakshatraSpan)) % 27)
}

// Pada returns the quarter (1-4) of the nakshatra containing the longitude.
func Pada(longitude float64) int {
	within := math.Mod(NormalizeDegrees(longitude), NakshatraSpan)
	p := int(math.Floor(within/PadaSpan)) + 1
	// Floating point can land a hair past the last boundary.
	if p > 4 {
		p = 4
	}
	if p < 1 {
		p = 1
	}
	return p
}

// FormatDMS renders an angle as degrees, minutes and seconds, e.g. 12°34'56".
func FormatDMS(deg float64) string {
	sign := ""
	if deg < 0 {
		sign = "-"
		deg = -deg
	}
	totalSec := int(math.Round(deg * 3600))
	d := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%s%d°%02d'%02d\"", sign, d, m, s)
}

// FormatSignPosition renders a longitude as its in-sign DMS plus sign
// abbreviation, e.g. 5°12'00" Can.
func FormatSignPosition(longitude float64) string {
	return FormatDMS(PositionInSign(longitude)) + " " + SignIndex(longitude).Abbrev()
}
