package zodiac

import (
	"math"
	"testing"
)

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"zero", 0, 0},
		{"in range", 123.5, 123.5},
		{"exactly 360", 360, 0},
		{"negative", -30, 330},
		{"large negative", -1090, 350},
		{"many revolutions", 3610, 10},
		{"just below zero", -0.25, 359.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDegrees(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDegrees_RangeAndCongruence(t *testing.T) {
	for x := -5000.0; x <= 5000.0; x += 17.37 {
		got := NormalizeDegrees(x)
		if got < 0 || got >= 360 {
			t.Fatalf("NormalizeDegrees(%v) = %v, out of [0,360)", x, got)
		}
		// got ≡ x (mod 360)
		k := (x - got) / 360
		if math.Abs(k-math.Round(k)) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, not congruent mod 360", x, got)
		}
	}
}

func TestNormalizeDegrees_InRangeUnchanged(t *testing.T) {
	for _, x := range []float64{PadaSpan, NakshatraSpan, 2 * PadaSpan, 26 * NakshatraSpan, 359.9999999} {
		if got := NormalizeDegrees(x); got != x {
			t.Errorf("NormalizeDegrees(%v) = %v, want input unchanged", x, got)
		}
	}
	if got := NormalizeDegrees(-1e-15); got != 0 && (got < 0 || got >= 360) {
		t.Errorf("NormalizeDegrees(-1e-15) = %v, out of [0,360)", got)
	}
}

func TestNakshatraIndex_ExactBoundary(t *testing.T) {
	if got := NakshatraIndex(NakshatraSpan); got != 1 {
		t.Errorf("NakshatraIndex(NakshatraSpan) = %v, want Bharani", got)
	}
	if got := Pada(NakshatraSpan); got != 1 {
		t.Errorf("Pada(NakshatraSpan) = %d, want 1", got)
	}
	if got := Pada(PadaSpan); got != 2 {
		t.Errorf("Pada(PadaSpan) = %d, want 2", got)
	}
}

func TestToSidereal(t *testing.T) {
	tests := []struct {
		tropical, ayanamsa, want float64
	}{
		{125.0, 23.75, 101.25},
		{10.0, 24.0, 346.0},
		{0.0, 0.0, 0.0},
		{359.9, -0.2, 0.1},
	}
	for _, tt := range tests {
		got := ToSidereal(tt.tropical, tt.ayanamsa)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToSidereal(%v, %v) = %v, want %v", tt.tropical, tt.ayanamsa, got, tt.want)
		}
	}
}

func TestSignIndex(t *testing.T) {
	tests := []struct {
		lon  float64
		want Sign
	}{
		{0, Aries},
		{29.999, Aries},
		{30, Taurus},
		{95.5, Cancer},
		{180, Libra},
		{359.999, Pisces},
		{360, Aries},
		{-1, Pisces},
	}
	for _, tt := range tests {
		got := SignIndex(tt.lon)
		if got != tt.want {
			t.Errorf("SignIndex(%v) = %v, want %v", tt.lon, got, tt.want)
		}
	}

	for lon := -720.0; lon < 720; lon += 0.731 {
		if s := SignIndex(lon); s < 0 || s > 11 {
			t.Fatalf("SignIndex(%v) = %d, out of range", lon, s)
		}
	}
}

func TestSignString(t *testing.T) {
	if Aries.String() != "Aries" || Pisces.String() != "Pisces" {
		t.Errorf("sign names wrong: %q %q", Aries.String(), Pisces.String())
	}
	if Sign(12).String() != "Unknown" || NoSign.String() != "Unknown" {
		t.Error("out of range sign should be Unknown")
	}
	if Capricorn.Abbrev() != "Cap" {
		t.Errorf("Capricorn.Abbrev() = %q, want Cap", Capricorn.Abbrev())
	}
}

func TestPositionInSign(t *testing.T) {
	if got := PositionInSign(95.5); math.Abs(got-5.5) > 1e-9 {
		t.Errorf("PositionInSign(95.5) = %v, want 5.5", got)
	}
	if got := PositionInSign(-0.5); math.Abs(got-29.5) > 1e-9 {
		t.Errorf("PositionInSign(-0.5) = %v, want 29.5", got)
	}
}

func TestNakshatraIndex_RoundTrip(t *testing.T) {
	for i := 0; i < 27; i++ {
		lon := float64(i)*NakshatraSpan + NakshatraSpan/2
		if got := NakshatraIndex(lon); int(got) != i {
			t.Errorf("NakshatraIndex(%v) = %d, want %d", lon, got, i)
		}
	}
}

func TestNakshatraNamesAndLords(t *testing.T) {
	if Nakshatra(0).String() != "Ashwini" {
		t.Errorf("Nakshatra(0) = %q, want Ashwini", Nakshatra(0).String())
	}
	if Nakshatra(26).String() != "Revati" {
		t.Errorf("Nakshatra(26) = %q, want Revati", Nakshatra(26).String())
	}
	if Nakshatra(27).String() != "Unknown" {
		t.Error("Nakshatra(27) should be Unknown")
	}

	tests := []struct {
		n    Nakshatra
		want string
	}{
		{0, "Ketu"},     // Ashwini
		{3, "Moon"},     // Rohini
		{8, "Mercury"},  // Ashlesha
		{9, "Ketu"},     // Magha
		{26, "Mercury"}, // Revati
	}
	for _, tt := range tests {
		if got := tt.n.Lord(); got != tt.want {
			t.Errorf("%s.Lord() = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPada(t *testing.T) {
	tests := []struct {
		lon  float64
		want int
	}{
		{0, 1},
		{PadaSpan - 0.0001, 1},
		{PadaSpan, 2},
		{2 * PadaSpan, 3},
		{NakshatraSpan - 0.0001, 4},
		{NakshatraSpan, 1},
		{359.9999, 4},
	}
	for _, tt := range tests {
		if got := Pada(tt.lon); got != tt.want {
			t.Errorf("Pada(%v) = %d, want %d", tt.lon, got, tt.want)
		}
	}

	for lon := -400.0; lon < 800; lon += 0.113 {
		p := Pada(lon)
		if p < 1 || p > 4 {
			t.Fatalf("Pada(%v) = %d, out of 1..4", lon, p)
		}
	}
}

func TestAngularDistance(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 350, 20},
		{350, 10, -20},
		{0, 180, 180},
		{180, 0, 180},
		{90, 90, 0},
	}
	for _, tt := range tests {
		got := AngularDistance(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngularDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFormatDMS(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, `0°00'00"`},
		{12.5, `12°30'00"`},
		{5.2575, `5°15'27"`},
		{-1.5, `-1°30'00"`},
	}
	for _, tt := range tests {
		if got := FormatDMS(tt.deg); got != tt.want {
			t.Errorf("FormatDMS(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
	if got := FormatSignPosition(95.5); got != `5°30'00" Can` {
		t.Errorf("FormatSignPosition(95.5) = %q", got)
	}
}
