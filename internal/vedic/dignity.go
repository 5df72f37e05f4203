package vedic

import (
	"slices"
	"strings"

	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// Dignity classifies a planet's strength by sign.
type Dignity int

const (
	NeutralSign Dignity = iota
	Exalted
	Debilitated
	OwnSign
	MoolaTrikona
)

func (d Dignity) String() string {
	switch d {
	case Exalted:
		return "Exalted"
	case Debilitated:
		return "Debilitated"
	case OwnSign:
		return "Own Sign"
	case MoolaTrikona:
		return "Moola Trikona"
	default:
		return "Neutral"
	}
}

// ParseDignity parses a dignity name, ignoring case and spaces.
func ParseDignity(s string) (Dignity, bool) {
	switch strings.ReplaceAll(strings.ToLower(s), " ", "") {
	case "exalted":
		return Exalted, true
	case "debilitated":
		return Debilitated, true
	case "ownsign", "own":
		return OwnSign, true
	case "moolatrikona", "mooltrikona":
		return MoolaTrikona, true
	case "neutral", "neutralsign":
		return NeutralSign, true
	}
	return NeutralSign, false
}

// DignityTable holds sign rules per planet. Planets missing from a map never
// match that rule.
type DignityTable struct {
	Exaltation   map[Planet]zodiac.Sign
	Debilitation map[Planet]zodiac.Sign
	Own          map[Planet][]zodiac.Sign
	MoolaTrikona map[Planet]zodiac.Sign
}

// Classify returns the first matching dignity in the order exalted,
// debilitated, own sign, moola trikona, neutral.
func (t DignityTable) Classify(p Planet, s zodiac.Sign) Dignity {
	if e, ok := t.Exaltation[p]; ok && e == s {
		return Exalted
	}
	if d, ok := t.Debilitation[p]; ok && d == s {
		return Debilitated
	}
	if slices.Contains(t.Own[p], s) {
		return OwnSign
	}
	if m, ok := t.MoolaTrikona[p]; ok && m == s {
		return MoolaTrikona
	}
	return NeutralSign
}

// ClassicalDignities is the Parashari rule set. Rahu has exaltation and
// debilitation only; Ketu and the outer planets have no entries.
var ClassicalDignities = DignityTable{
	Exaltation: map[Planet]zodiac.Sign{
		Sun:     zodiac.Aries,
		Moon:    zodiac.Taurus,
		Mercury: zodiac.Virgo,
		Venus:   zodiac.Pisces,
		Mars:    zodiac.Capricorn,
		Jupiter: zodiac.Cancer,
		Saturn:  zodiac.Libra,
		Rahu:    zodiac.Gemini,
	},
	Debilitation: map[Planet]zodiac.Sign{
		Sun:     zodiac.Libra,
		Moon:    zodiac.Scorpio,
		Mercury: zodiac.Pisces,
		Venus:   zodiac.Virgo,
		Mars:    zodiac.Cancer,
		Jupiter: zodiac.Capricorn,
		Saturn:  zodiac.Aries,
		Rahu:    zodiac.Sagittarius,
	},
	Own: map[Planet][]zodiac.Sign{
		Sun:     {zodiac.Leo},
		Moon:    {zodiac.Cancer},
		Mercury: {zodiac.Gemini, zodiac.Virgo},
		Venus:   {zodiac.Taurus, zodiac.Libra},
		Mars:    {zodiac.Aries, zodiac.Scorpio},
		Jupiter: {zodiac.Sagittarius, zodiac.Pisces},
		Saturn:  {zodiac.Capricorn, zodiac.Aquarius},
	},
	MoolaTrikona: map[Planet]zodiac.Sign{
		Sun:     zodiac.Leo,
		Moon:    zodiac.Taurus,
		Mercury: zodiac.Virgo,
		Venus:   zodiac.Libra,
		Mars:    zodiac.Aries,
		Jupiter: zodiac.Sagittarius,
		Saturn:  zodiac.Aquarius,
	},
}

// ClassifyDignity applies the classical table.
func ClassifyDignity(p Planet, s zodiac.Sign) Dignity {
	return ClassicalDignities.Classify(p, s)
}

// exaltationDegrees are the sidereal longitudes of deepest exaltation.
var exaltationDegrees = map[Planet]float64{
	Sun:     10,  // Aries 10
	Moon:    33,  // Taurus 3
	Mars:    298, // Capricorn 28
	Mercury: 165, // Virgo 15
	Jupiter: 95,  // Cancer 5
	Venus:   357, // Pisces 27
	Saturn:  200, // Libra 20
	Rahu:    80,  // Gemini 20
}

// ExaltationDegree returns the exact exaltation longitude, if p has one.
func ExaltationDegree(p Planet) (float64, bool) {
	d, ok := exaltationDegrees[p]
	return d, ok
}

// DebilitationDegree is opposite the exaltation point.
func DebilitationDegree(p Planet) (float64, bool) {
	d, ok := exaltationDegrees[p]
	if !ok {
		return 0, false
	}
	return zodiac.NormalizeDegrees(d + 180), true
}
