package ephem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/litescript/ls-jyotish/internal/astro"
)

// fakeHorizons serves canned observer tables and records the last query.
type fakeHorizons struct {
	calls   atomic.Int32
	lastURL atomic.Value
	status  int
	result  string
}

func (f *fakeHorizons) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.lastURL.Store(r.URL.RawQuery)
	if f.status != 0 && f.status != http.StatusOK {
		http.Error(w, "service unavailable", f.status)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"signature": map[string]string{"version": "1.2", "source": "test"},
		"result":    f.result,
	})
}

func eclipticTable(jd float64) string {
	return fmt.Sprintf(`*******************************************************************************
 Date_________JDUT     delta      deldot    ObsEcLon    ObsEcLat
***************************************************************
$$SOE
 %.9f *  1.93560000  -10.000000  76.6000000  -0.0800000
 %.9f *  1.93520000  -10.000000  76.9000000  -0.0900000
 %.9f *  1.93480000  -10.000000  77.2000000  -0.1000000
$$EOE
*******************************************************************************`, jd-speedStep, jd, jd+speedStep)
}

func TestHorizonsProvider_SamplePlanet(t *testing.T) {
	fake := &fakeHorizons{result: eclipticTable(kathmanduJD)}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL}, NewAnalyticProvider())
	s, err := p.SamplePlanet(context.Background(), Mars, kathmanduJD, FlagSpeed)
	if err != nil {
		t.Fatalf("SamplePlanet() error: %v", err)
	}

	if s.Longitude != 76.9 {
		t.Errorf("Longitude = %v, want 76.9", s.Longitude)
	}
	if s.Latitude != -0.09 {
		t.Errorf("Latitude = %v, want -0.09", s.Latitude)
	}
	if s.Distance != 1.9352 {
		t.Errorf("Distance = %v, want 1.9352", s.Distance)
	}
	if math.Abs(s.LongitudeSpeed-1.2) > 1e-6 {
		t.Errorf("LongitudeSpeed = %v, want 1.2", s.LongitudeSpeed)
	}
	if math.Abs(s.LatitudeSpeed+0.04) > 1e-6 {
		t.Errorf("LatitudeSpeed = %v, want -0.04", s.LatitudeSpeed)
	}
	wantRate := -10 * 86400 / astro.AU
	if math.Abs(s.DistanceSpeed-wantRate) > 1e-12 {
		t.Errorf("DistanceSpeed = %v, want %v", s.DistanceSpeed, wantRate)
	}

	q, _ := fake.lastURL.Load().(string)
	for _, want := range []string{"COMMAND=%27499%27", "CENTER=%27500%40399%27", "QUANTITIES=%2720%2C31%27"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %s", q, want)
		}
	}

	// Second call is served from cache
	if _, err := p.SamplePlanet(context.Background(), Mars, kathmanduJD, FlagSpeed); err != nil {
		t.Fatal(err)
	}
	if n := fake.calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
	p.InvalidateCache()
	if _, err := p.SamplePlanet(context.Background(), Mars, kathmanduJD, FlagSpeed); err != nil {
		t.Fatal(err)
	}
	if n := fake.calls.Load(); n != 2 {
		t.Errorf("server called %d times after invalidation, want 2", n)
	}
}

func TestHorizonsProvider_DelegatesToFallback(t *testing.T) {
	fake := &fakeHorizons{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	analytic := NewAnalyticProvider()
	p := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL}, analytic)
	ctx := context.Background()

	node, err := p.SamplePlanet(ctx, MeanNode, kathmanduJD, FlagSpeed)
	if err != nil {
		t.Fatalf("mean node error: %v", err)
	}
	want, _ := analytic.SamplePlanet(ctx, MeanNode, kathmanduJD, FlagSpeed)
	if node != want {
		t.Errorf("mean node = %+v, want %+v", node, want)
	}

	if _, err := p.Ayanamsa(ctx, kathmanduJD, AyanamsaLahiri); err != nil {
		t.Errorf("Ayanamsa error: %v", err)
	}
	if _, err := p.Houses(ctx, kathmanduJD, 27.7, 85.3, HousePlacidus); err != nil {
		t.Errorf("Houses error: %v", err)
	}
	if fake.calls.Load() != 0 {
		t.Errorf("delegated calls reached Horizons %d times", fake.calls.Load())
	}
}

func TestHorizonsProvider_NoFallback(t *testing.T) {
	p := NewHorizonsProvider(HorizonsConfig{BaseURL: "http://127.0.0.1:0"}, nil)
	ctx := context.Background()

	if _, err := p.SamplePlanet(ctx, MeanNode, kathmanduJD, 0); !errors.Is(err, ErrUnsupportedBody) {
		t.Errorf("mean node without fallback = %v, want ErrUnsupportedBody", err)
	}
	if _, err := p.Ayanamsa(ctx, kathmanduJD, AyanamsaLahiri); !errors.Is(err, ErrNotReady) {
		t.Errorf("ayanamsa without fallback = %v, want ErrNotReady", err)
	}
	if _, err := p.Houses(ctx, kathmanduJD, 0, 0, HousePlacidus); !errors.Is(err, ErrNotReady) {
		t.Errorf("houses without fallback = %v, want ErrNotReady", err)
	}
}

func TestHorizonsProvider_Topocentric(t *testing.T) {
	fake := &fakeHorizons{result: eclipticTable(kathmanduJD)}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	noSite := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL}, nil)
	if _, err := noSite.SamplePlanet(context.Background(), Mars, kathmanduJD, FlagTopocentric|FlagSpeed); !errors.Is(err, ErrUnsupportedFlags) {
		t.Errorf("topocentric without site = %v, want ErrUnsupportedFlags", err)
	}

	site := &astro.Observer{LatDeg: 27.7172, LonDeg: 85.3240, AltM: 1400}
	p := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL, Site: site}, nil)
	if _, err := p.SamplePlanet(context.Background(), Mars, kathmanduJD, FlagTopocentric|FlagSpeed); err != nil {
		t.Fatalf("topocentric sample error: %v", err)
	}
	q, _ := fake.lastURL.Load().(string)
	if !strings.Contains(q, "SITE_COORD=%2785.3240%2C27.7172%2C1.4000%27") {
		t.Errorf("query %q missing site coordinates", q)
	}
}

func TestHorizonsProvider_HTTPError(t *testing.T) {
	fake := &fakeHorizons{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL}, nil)
	_, err := p.SamplePlanet(context.Background(), Venus, kathmanduJD, FlagSpeed)
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Errorf("error = %v, want status 503", err)
	}
}

func TestHorizonsProvider_RowCountMismatch(t *testing.T) {
	fake := &fakeHorizons{result: "$$SOE\n 2449561.7 * 1.0 0.0 10.0 0.0\n$$EOE"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p := NewHorizonsProvider(HorizonsConfig{BaseURL: srv.URL}, nil)
	if _, err := p.SamplePlanet(context.Background(), Venus, kathmanduJD, FlagSpeed); err == nil {
		t.Error("expected error for short table")
	}
}

func TestParseObserverLine(t *testing.T) {
	tests := []struct {
		line    string
		wantJD  float64
		want    []float64
		wantErr bool
	}{
		{
			line:   "2449561.711805556 *  1.01525000  0.1053000  124.9142000  -0.0001000",
			wantJD: 2449561.711805556,
			want:   []float64{1.01525, 0.1053, 124.9142, -0.0001},
		},
		{
			line:   "2460651.500000000 Cm  0.00257  -0.0123  9.5340  3.2980",
			wantJD: 2460651.5,
			want:   []float64{0.00257, -0.0123, 9.534, 3.298},
		},
		{
			line:    "2460651.5 * n.a. n.a.",
			wantErr: true,
		},
		{
			line:    "invalid",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		name := tc.line
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			row, err := parseObserverLine(tc.line)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if row.JD != tc.wantJD {
				t.Errorf("JD = %v, want %v", row.JD, tc.wantJD)
			}
			if len(row.Values) != len(tc.want) {
				t.Fatalf("Values = %v, want %v", row.Values, tc.want)
			}
			for i := range tc.want {
				if row.Values[i] != tc.want[i] {
					t.Errorf("Values[%d] = %v, want %v", i, row.Values[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseHorizonsResponse_Errors(t *testing.T) {
	if _, err := parseHorizonsResponse([]byte("not json")); err == nil {
		t.Error("expected JSON error")
	}
	if _, err := parseHorizonsResponse([]byte(`{"error":"Cannot interpret date"}`)); err == nil ||
		!strings.Contains(err.Error(), "Cannot interpret date") {
		t.Errorf("error = %v, want Horizons error text", err)
	}
	if _, err := parseHorizonsResponse([]byte(`{"result":"no markers here"}`)); err == nil {
		t.Error("expected missing marker error")
	}
}

func TestFormatTList(t *testing.T) {
	got := formatTList([]float64{2451545, 2451545.25})
	want := "'2451545.000000000' '2451545.250000000'"
	if got != want {
		t.Errorf("formatTList() = %q, want %q", got, want)
	}
}
