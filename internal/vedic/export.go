package vedic

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// ChartExport is the JSON-serializable representation of a chart.
type ChartExport struct {
	Time        time.Time      `json:"time"`
	JulianDay   float64        `json:"julian_day"`
	Location    LocationExport `json:"location"`
	Ayanamsa    AyanamsaExport `json:"ayanamsa"`
	Provider    string         `json:"provider,omitempty"`
	Houses      HousesExport   `json:"houses"`
	Planets     []PlanetExport `json:"planets"`
	Retrograde  []string       `json:"retrograde"`
	Combust     []string       `json:"combust"`
	MoonNaksh   string         `json:"moon_nakshatra,omitempty"`
	MoonPada    int            `json:"moon_pada,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// LocationExport is the observer site.
type LocationExport struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude_m"`
}

// AyanamsaExport names the sidereal frame used.
type AyanamsaExport struct {
	Mode  string  `json:"mode"`
	Value float64 `json:"value"`
}

// HousesExport is the house frame in sidereal degrees.
type HousesExport struct {
	System        string      `json:"system"`
	Requested     string      `json:"requested"`
	Ascendant     float64     `json:"ascendant"`
	AscendantSign string      `json:"ascendant_sign"`
	Midheaven     float64     `json:"midheaven"`
	Cusps         [12]float64 `json:"cusps"`
}

// PlanetExport is a JSON-friendly planet record.
type PlanetExport struct {
	Planet             string   `json:"planet"`
	Longitude          float64  `json:"longitude"`
	Latitude           float64  `json:"latitude"`
	Distance           float64  `json:"distance_au"`
	Speed              float64  `json:"speed"`
	Sign               string   `json:"sign"`
	DegreeInSign       float64  `json:"degree_in_sign"`
	Nakshatra          string   `json:"nakshatra"`
	Pada               int      `json:"pada"`
	House              int      `json:"house"`
	Dignity            string   `json:"dignity"`
	Retrograde         bool     `json:"retrograde"`
	Combust            bool     `json:"combust"`
	ExaltationDegree   *float64 `json:"exaltation_degree,omitempty"`
	DebilitationDegree *float64 `json:"debilitation_degree,omitempty"`
}

// ExportChart converts a chart to its exportable form.
func ExportChart(c *VedicChart, generatedAt time.Time) *ChartExport {
	if c == nil {
		return &ChartExport{GeneratedAt: generatedAt}
	}

	export := &ChartExport{
		Time:      c.Time,
		JulianDay: c.JulianDay,
		Location: LocationExport{
			Name:      c.Location.Name,
			Latitude:  c.Location.LatDeg,
			Longitude: c.Location.LonDeg,
			Altitude:  c.Location.AltM,
		},
		Ayanamsa: AyanamsaExport{Mode: c.AyanamsaMode.String(), Value: c.AyanamsaValue},
		Provider: c.Provider,
		Houses: HousesExport{
			System:        c.Houses.Name,
			Requested:     c.Houses.Requested.String(),
			Ascendant:     c.Houses.Ascendant,
			AscendantSign: c.AscendantSign().String(),
			Midheaven:     c.Houses.Midheaven,
			Cusps:         c.Houses.Cusps,
		},
		Retrograde:  planetNamesOf(c.RetrogradePlanets()),
		Combust:     planetNamesOf(c.CombustPlanets()),
		GeneratedAt: generatedAt,
	}
	if n, pada, ok := c.MoonNakshatra(); ok {
		export.MoonNaksh = n.String()
		export.MoonPada = pada
	}

	for _, info := range c.All() {
		pp := info.Position
		export.Planets = append(export.Planets, PlanetExport{
			Planet:             pp.Planet.String(),
			Longitude:          pp.Longitude,
			Latitude:           pp.Latitude,
			Distance:           pp.Distance,
			Speed:              pp.LongitudeSpeed,
			Sign:               pp.Sign().String(),
			DegreeInSign:       pp.DegreeInSign(),
			Nakshatra:          pp.Nakshatra().String(),
			Pada:               pp.Pada(),
			House:              info.House,
			Dignity:            info.Dignity.String(),
			Retrograde:         pp.IsRetrograde,
			Combust:            info.IsCombust,
			ExaltationDegree:   info.ExaltationDegree,
			DebilitationDegree: info.DebilitationDegree,
		})
	}
	return export
}

// WriteJSON writes the chart as indented JSON.
func (e *ChartExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteSummaryTable writes a text table of the chart.
func WriteSummaryTable(w io.Writer, c *VedicChart) {
	if c == nil {
		fmt.Fprintln(w, "No chart")
		return
	}

	fmt.Fprintf(w, "Chart @ %s  %s\n", c.Time.Format(time.RFC3339), c.Location)
	fmt.Fprintf(w, "Ayanamsa %s %s  Houses %s  Lagna %s\n",
		c.AyanamsaMode, zodiac.FormatDMS(c.AyanamsaValue),
		c.Houses.Name, zodiac.FormatSignPosition(c.Houses.Ascendant))
	fmt.Fprintln(w, strings.Repeat("─", 90))

	// Header
	fmt.Fprintf(w, "%-8s %-12s %-12s %-18s %-4s %-5s %-14s %s\n",
		"Planet", "Longitude", "Sign", "Nakshatra", "Pada", "House", "Dignity", "Flags")
	fmt.Fprintln(w, strings.Repeat("─", 90))

	// Rows
	for _, info := range c.All() {
		pp := info.Position
		fmt.Fprintf(w, "%-8s %-12s %-12s %-18s %-4d %-5d %-14s %s\n",
			pp.Planet,
			zodiac.FormatDMS(pp.Longitude),
			pp.Sign(),
			truncateStr(pp.Nakshatra().String(), 18),
			pp.Pada(),
			info.House,
			info.Dignity,
			flagString(pp.IsRetrograde, info.IsCombust),
		)
	}

	fmt.Fprintln(w, strings.Repeat("─", 90))
	for n := 1; n <= 12; n++ {
		fmt.Fprintf(w, "H%-2d %s  %s\n", n,
			zodiac.FormatSignPosition(c.Houses.Cusp(n)),
			strings.Join(planetNamesOf(c.PlanetsInHouse(n)), " "))
	}
}

func flagString(retro, combust bool) string {
	var f []string
	if retro {
		f = append(f, "R")
	}
	if combust {
		f = append(f, "C")
	}
	return strings.Join(f, " ")
}

func planetNamesOf(ps []Planet) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.String())
	}
	return out
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
