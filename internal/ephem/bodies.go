package ephem

import "strings"

// Body identifies a solar-system body or computed point known to providers.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	MeanNode
)

// BodyInfo contains naming and lookup data for a body.
type BodyInfo struct {
	Body     Body
	Name     string
	HorizCmd string   // Horizons COMMAND value; empty if not a Horizons target
	Aliases  []string // Alternative names accepted by ParseBody
}

// Bodies is the canonical list of supported bodies.
// Horizons commands are NAIF IDs of the body centres.
var Bodies = []BodyInfo{
	{Sun, "Sun", "10", []string{"surya"}},
	{Moon, "Moon", "301", []string{"chandra", "luna"}},
	{Mercury, "Mercury", "199", []string{"budha"}},
	{Venus, "Venus", "299", []string{"shukra"}},
	{Mars, "Mars", "499", []string{"mangala"}},
	{Jupiter, "Jupiter", "599", []string{"guru", "brihaspati"}},
	{Saturn, "Saturn", "699", []string{"shani"}},
	{Uranus, "Uranus", "799", nil},
	{Neptune, "Neptune", "899", nil},
	{Pluto, "Pluto", "999", nil},
	{MeanNode, "Mean Node", "", []string{"rahu", "node", "meannode"}},
}

// BodiesByName maps lowercase names and aliases to bodies.
var BodiesByName = func() map[string]BodyInfo {
	m := make(map[string]BodyInfo, len(Bodies)*3)
	for _, b := range Bodies {
		m[normalizeName(b.Name)] = b
		for _, alias := range b.Aliases {
			m[normalizeName(alias)] = b
		}
	}
	return m
}()

// Info returns the BodyInfo for b. Unknown bodies return ok=false.
func (b Body) Info() (BodyInfo, bool) {
	if b < 0 || int(b) >= len(Bodies) {
		return BodyInfo{}, false
	}
	return Bodies[b], true
}

// String returns the body name.
func (b Body) String() string {
	if info, ok := b.Info(); ok {
		return info.Name
	}
	return "Unknown"
}

// ParseBody looks up a body by name or alias, case-insensitively.
func ParseBody(name string) (Body, bool) {
	info, ok := BodiesByName[normalizeName(name)]
	return info.Body, ok
}

// normalizeName lowercases and strips spaces, dashes and underscores.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
