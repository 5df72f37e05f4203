package vedic

import (
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// HouseOf returns the 1-based house containing lon. House i spans
// [cusps[i], cusps[i+1]) with the span across 0° handled as a wrap. If no
// house matches, house 1 is returned.
func HouseOf(cusps [12]float64, lon float64) int {
	for i := 0; i < 12; i++ {
		cur := cusps[i]
		next := cusps[(i+1)%12]
		if next > cur {
			if lon >= cur && lon < next {
				return i + 1
			}
		} else if lon >= cur || lon < next {
			return i + 1
		}
	}
	return 1
}

// HouseSystem holds sidereal cusps and angles for one chart.
type HouseSystem struct {
	Name      string          // system actually computed
	Requested ephem.HouseCode // caller's nominal system
	Cusps     [12]float64     // sidereal, index 0 = house 1
	Ascendant float64
	Midheaven float64
}

// NewHouseSystem converts tropical house data with one ayanamsa value.
func NewHouseSystem(name string, requested ephem.HouseCode, hd ephem.HouseData, ayanamsa float64) HouseSystem {
	hs := HouseSystem{
		Name:      name,
		Requested: requested,
		Ascendant: zodiac.ToSidereal(hd.Ascendant, ayanamsa),
		Midheaven: zodiac.ToSidereal(hd.Midheaven, ayanamsa),
	}
	for i, c := range hd.Cusps {
		hs.Cusps[i] = zodiac.ToSidereal(c, ayanamsa)
	}
	return hs
}

// HouseFor returns the house containing a sidereal longitude.
func (hs HouseSystem) HouseFor(lon float64) int {
	return HouseOf(hs.Cusps, lon)
}

// Cusp returns the sidereal cusp of house n (1-12).
func (hs HouseSystem) Cusp(n int) float64 {
	return hs.Cusps[((n-1)%12+12)%12]
}
