package ephem

import (
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"analytic", ModeAnalytic, false},
		{"horizons", ModeHorizons, false},
		{"auto", ModeAuto, false},
		{"HORIZONS", ModeHorizons, false},
		{"", ModeAnalytic, false},       // default
		{"invalid", ModeAnalytic, true}, // default for unknown
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseMode(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeAnalytic, "analytic"},
		{ModeHorizons, "horizons"},
		{ModeAuto, "auto"},
		{Mode(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			got := tc.mode.String()
			if got != tc.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.expected)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	f := FlagSpeed | FlagEquatorial
	if !f.Has(FlagSpeed) || !f.Has(FlagEquatorial) {
		t.Errorf("%v should have speed and equatorial", f)
	}
	if f.Has(FlagTopocentric) {
		t.Errorf("%v should not have topocentric", f)
	}
	if f.String() != "speed|equatorial" {
		t.Errorf("String() = %q", f.String())
	}
	if Flags(0).String() != "none" {
		t.Errorf("Flags(0).String() = %q", Flags(0).String())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode     Mode
		wantName string
	}{
		{ModeAnalytic, "analytic"},
		{ModeHorizons, "horizons"},
		{ModeAuto, "horizons+analytic"},
	}
	for _, tc := range tests {
		p, err := New(tc.mode, HorizonsConfig{}, nil)
		if err != nil {
			t.Fatalf("New(%v) error: %v", tc.mode, err)
		}
		if p.Name() != tc.wantName {
			t.Errorf("New(%v).Name() = %q, want %q", tc.mode, p.Name(), tc.wantName)
		}
	}

	if _, err := New(Mode(42), HorizonsConfig{}, nil); err == nil {
		t.Error("New with unknown mode should fail")
	}
}
