package ephem

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-jyotish/internal/astro"
)

// AyanamsaMode names a sidereal reference system.
type AyanamsaMode int

const (
	AyanamsaLahiri AyanamsaMode = iota
	AyanamsaFaganBradley
	AyanamsaRaman
	AyanamsaKrishnamurti
	AyanamsaYukteshwar
	AyanamsaJNBhasin
	AyanamsaDeLuce
	AyanamsaUshashashi
	AyanamsaDjwhalKhul
	AyanamsaBabylonianKugler1
	AyanamsaBabylonianKugler2
	AyanamsaBabylonianKugler3
	AyanamsaBabylonianHuber
	AyanamsaHipparchos
	AyanamsaSassanian
	AyanamsaJ2000
	AyanamsaJ1900
	AyanamsaB1950
)

// ayanamsaDef fixes a mode by its value at a reference epoch. The value at
// any other instant adds the general precession accumulated since then.
type ayanamsaDef struct {
	name    string
	epochJD float64
	offset  float64 // degrees at epochJD
	aliases []string
}

var ayanamsaDefs = map[AyanamsaMode]ayanamsaDef{
	AyanamsaLahiri:            {"Lahiri", 2435553.5, 23.250182778 - 0.004658035, []string{"chitrapaksha"}},
	AyanamsaFaganBradley:      {"Fagan/Bradley", 2433282.42346, 24.042044444, []string{"fagan", "faganbradley", "western"}},
	AyanamsaRaman:             {"Raman", 2415020.0, 22.410791, nil},
	AyanamsaKrishnamurti:      {"Krishnamurti", 2415020.0, 22.363889, []string{"kp"}},
	AyanamsaYukteshwar:        {"Yukteshwar", 2415020.0, 22.478803, nil},
	AyanamsaJNBhasin:          {"JN Bhasin", 2415020.0, 22.762137, []string{"bhasin"}},
	AyanamsaDeLuce:            {"De Luce", 2415020.0, 27.815753, nil},
	AyanamsaUshashashi:        {"Ushashashi", 2415020.0, 20.057541, nil},
	AyanamsaDjwhalKhul:        {"Djwhal Khul", 2415020.0, 28.359679, nil},
	AyanamsaBabylonianKugler1: {"Babylonian/Kugler 1", 1684532.5, -5.66667, []string{"kugler1"}},
	AyanamsaBabylonianKugler2: {"Babylonian/Kugler 2", 1684532.5, -4.26667, []string{"kugler2"}},
	AyanamsaBabylonianKugler3: {"Babylonian/Kugler 3", 1684532.5, -3.41667, []string{"kugler3"}},
	AyanamsaBabylonianHuber:   {"Babylonian/Huber", 1684532.5, -4.46667, []string{"huber"}},
	AyanamsaHipparchos:        {"Hipparchos", 1674484.0, -9.33333, []string{"hipparchus"}},
	AyanamsaSassanian:         {"Sassanian", 1927135.8747793, 0, nil},
	AyanamsaJ2000:             {"J2000", astro.J2000, 0, nil},
	AyanamsaJ1900:             {"J1900", 2415020.0, 0, nil},
	AyanamsaB1950:             {"B1950", 2433282.42346, 0, nil},
}

// String returns the display name of the mode.
func (m AyanamsaMode) String() string {
	if d, ok := ayanamsaDefs[m]; ok {
		return d.name
	}
	return "Unknown"
}

// AyanamsaModes lists every supported mode in declaration order.
func AyanamsaModes() []AyanamsaMode {
	modes := make([]AyanamsaMode, 0, len(ayanamsaDefs))
	for m := AyanamsaLahiri; m <= AyanamsaB1950; m++ {
		modes = append(modes, m)
	}
	return modes
}

var ayanamsaByName = func() map[string]AyanamsaMode {
	m := make(map[string]AyanamsaMode, len(ayanamsaDefs)*2)
	for mode, d := range ayanamsaDefs {
		m[normalizeName(strings.ReplaceAll(d.name, "/", ""))] = mode
		for _, a := range d.aliases {
			m[normalizeName(a)] = mode
		}
	}
	return m
}()

// ParseAyanamsaMode resolves a mode name case-insensitively. An empty name
// selects Lahiri.
func ParseAyanamsaMode(s string) (AyanamsaMode, error) {
	if strings.TrimSpace(s) == "" {
		return AyanamsaLahiri, nil
	}
	if m, ok := ayanamsaByName[normalizeName(strings.ReplaceAll(s, "/", ""))]; ok {
		return m, nil
	}
	return AyanamsaLahiri, fmt.Errorf("%w: %q", ErrUnknownAyanamsa, s)
}

// ComputeAyanamsa returns the ayanamsa in degrees for a Julian Day.
func ComputeAyanamsa(jd float64, mode AyanamsaMode) (float64, error) {
	d, ok := ayanamsaDefs[mode]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAyanamsa, int(mode))
	}
	p := astro.GeneralPrecession(astro.CenturiesSinceJ2000(jd))
	p0 := astro.GeneralPrecession(astro.CenturiesSinceJ2000(d.epochJD))
	return d.offset + (p-p0)/3600, nil
}
