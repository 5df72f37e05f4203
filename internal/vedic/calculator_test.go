package vedic

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/zodiac"
)

// fakeProvider serves fixed tropical data. With ayanamsa 24 the sidereal
// layout is: lagna 100 with equal 30° houses, Sun 100, Moon 106, Mars 298,
// Mercury 86, Jupiter 230, Venus 340, Saturn 310 (retrograde), Rahu 200.
type fakeProvider struct {
	mu         sync.Mutex
	samples    map[ephem.Body]ephem.RawSample
	ayanamsa   float64
	houses     ephem.HouseData
	sampleErrs map[ephem.Body]error
	houseErr   error
	ayanErr    error

	ayanCalls  int
	houseCodes []ephem.HouseCode
	bodies     []ephem.Body
}

func newFakeProvider() *fakeProvider {
	f := &fakeProvider{
		ayanamsa: 24,
		samples: map[ephem.Body]ephem.RawSample{
			ephem.Sun:      {Longitude: 124, Distance: 1.015, LongitudeSpeed: 0.955},
			ephem.Moon:     {Longitude: 130, Latitude: 2.1, Distance: 0.0026, LongitudeSpeed: 13.2},
			ephem.Mars:     {Longitude: 322, Latitude: -1.2, Distance: 1.4, LongitudeSpeed: 0.6},
			ephem.Mercury:  {Longitude: 110, Latitude: 0.5, Distance: 0.9, LongitudeSpeed: 1.3},
			ephem.Jupiter:  {Longitude: 254, Latitude: 1.0, Distance: 5.2, LongitudeSpeed: 0.1},
			ephem.Venus:    {Longitude: 4, Latitude: -0.3, Distance: 0.7, LongitudeSpeed: 1.1},
			ephem.Saturn:   {Longitude: 334, Latitude: -1.9, Distance: 9.1, LongitudeSpeed: -0.05},
			ephem.Uranus:   {Longitude: 294, Distance: 19.0, LongitudeSpeed: -0.03},
			ephem.Neptune:  {Longitude: 292, Distance: 29.5, LongitudeSpeed: -0.02},
			ephem.Pluto:    {Longitude: 235, Latitude: 14.0, Distance: 30.1, LongitudeSpeed: 0.01},
			ephem.MeanNode: {Longitude: 224, Distance: 0.00257, LongitudeSpeed: -0.053},
		},
		sampleErrs: map[ephem.Body]error{},
	}
	for i := range f.houses.Cusps {
		f.houses.Cusps[i] = zodiac.NormalizeDegrees(124 + 30*float64(i))
	}
	f.houses.Ascendant = 124
	f.houses.Midheaven = 34
	return f
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) SamplePlanet(_ context.Context, body ephem.Body, _ float64, _ ephem.Flags) (ephem.RawSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	if err := f.sampleErrs[body]; err != nil {
		return ephem.RawSample{}, err
	}
	s, ok := f.samples[body]
	if !ok {
		return ephem.RawSample{}, ephem.ErrUnsupportedBody
	}
	return s, nil
}

func (f *fakeProvider) Ayanamsa(_ context.Context, _ float64, _ ephem.AyanamsaMode) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ayanCalls++
	return f.ayanamsa, f.ayanErr
}

func (f *fakeProvider) Houses(_ context.Context, _, _, _ float64, code ephem.HouseCode) (ephem.HouseData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.houseCodes = append(f.houseCodes, code)
	return f.houses, f.houseErr
}

var testRequest = ChartRequest{
	Time:     time.Date(1994, 7, 28, 5, 5, 0, 0, time.UTC),
	Location: astro.Observer{LatDeg: 27.7172, LonDeg: 85.3240, AltM: 1400, Name: "Kathmandu"},
}

func mustCompute(t *testing.T, p ephem.Provider, req ChartRequest) *VedicChart {
	t.Helper()
	c, err := NewCalculator(p, nil).Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return c
}

func TestCompute_Layout(t *testing.T) {
	chart := mustCompute(t, newFakeProvider(), testRequest)

	tests := []struct {
		planet  Planet
		lon     float64
		house   int
		dignity Dignity
		retro   bool
		combust bool
	}{
		{Sun, 100, 1, NeutralSign, false, false},
		{Moon, 106, 1, OwnSign, false, true},
		{Mars, 298, 7, Exalted, false, false},
		{Mercury, 86, 12, OwnSign, false, false},
		{Jupiter, 230, 5, NeutralSign, false, false},
		{Venus, 340, 9, Exalted, false, false},
		{Saturn, 310, 8, OwnSign, true, false},
		{Rahu, 200, 4, NeutralSign, true, false},
		{Ketu, 20, 10, NeutralSign, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.planet.String(), func(t *testing.T) {
			info, ok := chart.Planet(tt.planet)
			if !ok {
				t.Fatalf("Planet(%v) missing", tt.planet)
			}
			if math.Abs(info.Position.Longitude-tt.lon) > 1e-9 {
				t.Errorf("longitude = %v, want %v", info.Position.Longitude, tt.lon)
			}
			if info.House != tt.house {
				t.Errorf("house = %d, want %d", info.House, tt.house)
			}
			if info.Dignity != tt.dignity {
				t.Errorf("dignity = %v, want %v", info.Dignity, tt.dignity)
			}
			if info.Position.IsRetrograde != tt.retro {
				t.Errorf("retrograde = %v, want %v", info.Position.IsRetrograde, tt.retro)
			}
			if info.IsCombust != tt.combust {
				t.Errorf("combust = %v, want %v", info.IsCombust, tt.combust)
			}
		})
	}
}

func TestCompute_Queries(t *testing.T) {
	chart := mustCompute(t, newFakeProvider(), testRequest)

	if got, want := chart.Planets(), ClassicalPlanets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Planets() = %v, want %v", got, want)
	}
	if got, want := chart.PlanetsInHouse(1), []Planet{Sun, Moon}; !reflect.DeepEqual(got, want) {
		t.Errorf("PlanetsInHouse(1) = %v, want %v", got, want)
	}
	if got := chart.PlanetsInHouse(2); len(got) != 0 {
		t.Errorf("PlanetsInHouse(2) = %v, want empty", got)
	}
	if got, want := chart.PlanetsWithDignity(Exalted), []Planet{Mars, Venus}; !reflect.DeepEqual(got, want) {
		t.Errorf("PlanetsWithDignity(Exalted) = %v, want %v", got, want)
	}
	if got, want := chart.PlanetsWithDignity(OwnSign), []Planet{Moon, Mercury, Saturn}; !reflect.DeepEqual(got, want) {
		t.Errorf("PlanetsWithDignity(OwnSign) = %v, want %v", got, want)
	}
	if got, want := chart.RetrogradePlanets(), []Planet{Saturn, Rahu, Ketu}; !reflect.DeepEqual(got, want) {
		t.Errorf("RetrogradePlanets() = %v, want %v", got, want)
	}
	if got, want := chart.CombustPlanets(), []Planet{Moon}; !reflect.DeepEqual(got, want) {
		t.Errorf("CombustPlanets() = %v, want %v", got, want)
	}
	if chart.Ascendant() != 100 {
		t.Errorf("Ascendant() = %v, want 100", chart.Ascendant())
	}
	if chart.AscendantSign() != zodiac.Cancer {
		t.Errorf("AscendantSign() = %v, want Cancer", chart.AscendantSign())
	}
	n, pada, ok := chart.MoonNakshatra()
	if !ok || n != 7 || pada != 4 {
		t.Errorf("MoonNakshatra() = %v %d %v, want Pushya 4 true", n, pada, ok)
	}
	if chart.AyanamsaValue != 24 || chart.AyanamsaMode != ephem.AyanamsaLahiri {
		t.Errorf("ayanamsa = %v %v", chart.AyanamsaValue, chart.AyanamsaMode)
	}
	if chart.Provider != "fake" {
		t.Errorf("Provider = %q", chart.Provider)
	}
}

func TestCompute_HouseConsistency(t *testing.T) {
	chart := mustCompute(t, newFakeProvider(), testRequest)
	for _, info := range chart.All() {
		if want := HouseOf(chart.Houses.Cusps, info.Position.Longitude); info.House != want {
			t.Errorf("%v house = %d, want %d", info.Position.Planet, info.House, want)
		}
	}
}

func TestCompute_KetuOppositeRahu(t *testing.T) {
	chart := mustCompute(t, newFakeProvider(), testRequest)
	rahu := chart.Rahu().Position
	ketu := chart.Ketu()
	if ketu.Longitude() != zodiac.NormalizeDegrees(rahu.Longitude+180) {
		t.Errorf("Ketu = %v, Rahu = %v", ketu.Longitude(), rahu.Longitude)
	}
	if !ketu.IsRetrograde() {
		t.Error("Ketu should always be retrograde")
	}
	if chart.Rahu().IsCombust || chart.KetuInfo().IsCombust {
		t.Error("nodes should never be combust")
	}
}

func TestCompute_Idempotent(t *testing.T) {
	p := newFakeProvider()
	a := mustCompute(t, p, testRequest)
	b := mustCompute(t, p, testRequest)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical provider responses produced different charts")
	}
}

func TestCompute_AyanamsaOnce(t *testing.T) {
	p := newFakeProvider()
	req := testRequest
	req.IncludeOuter = true
	mustCompute(t, p, req)
	if p.ayanCalls != 1 {
		t.Errorf("ayanamsa calls = %d, want 1", p.ayanCalls)
	}
	// 10 planets + Rahu
	if len(p.bodies) != 11 {
		t.Errorf("sample calls = %d, want 11", len(p.bodies))
	}
}

func TestCompute_ReferenceHouseSystem(t *testing.T) {
	p := newFakeProvider()
	req := testRequest
	req.HouseSystem = ephem.HouseWholeSign
	chart := mustCompute(t, p, req)

	if len(p.houseCodes) != 1 || p.houseCodes[0] != ephem.HousePlacidus {
		t.Errorf("provider house codes = %v, want [P]", p.houseCodes)
	}
	if chart.Houses.Name != "Placidus" {
		t.Errorf("Houses.Name = %q, want Placidus", chart.Houses.Name)
	}
	if chart.Houses.Requested != ephem.HouseWholeSign {
		t.Errorf("Houses.Requested = %v, want Whole Sign", chart.Houses.Requested)
	}
}

func TestCompute_SunSampledWhenNotRequested(t *testing.T) {
	p := newFakeProvider()
	req := testRequest
	req.Planets = []Planet{Moon, Moon, Ketu}
	chart := mustCompute(t, p, req)

	if got, want := chart.Planets(), []Planet{Moon}; !reflect.DeepEqual(got, want) {
		t.Errorf("Planets() = %v, want %v", got, want)
	}
	if _, ok := chart.Planet(Sun); ok {
		t.Error("Sun should not be in the chart when not requested")
	}
	info, _ := chart.Planet(Moon)
	if !info.IsCombust {
		t.Error("Moon should be combust against the sampled Sun")
	}
}

func TestCompute_OuterPlanetsNeutral(t *testing.T) {
	req := testRequest
	req.IncludeOuter = true
	chart := mustCompute(t, newFakeProvider(), req)
	for _, p := range OuterPlanets() {
		info, ok := chart.Planet(p)
		if !ok {
			t.Fatalf("%v missing", p)
		}
		if info.Dignity != NeutralSign {
			t.Errorf("%v dignity = %v, want Neutral", p, info.Dignity)
		}
		if info.ExaltationDegree != nil {
			t.Errorf("%v should have no exaltation degree", p)
		}
	}
}

func TestCompute_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(*fakeProvider)
		kind  Kind
	}{
		{"planet", func(f *fakeProvider) { f.sampleErrs[ephem.Jupiter] = boom }, KindCalculation},
		{"rahu", func(f *fakeProvider) { f.sampleErrs[ephem.MeanNode] = boom }, KindCalculation},
		{"sun", func(f *fakeProvider) { f.sampleErrs[ephem.Sun] = boom }, KindCalculation},
		{"houses", func(f *fakeProvider) { f.houseErr = boom }, KindCalculation},
		{"ayanamsa", func(f *fakeProvider) { f.ayanErr = boom }, KindCalculation},
		{"not ready", func(f *fakeProvider) { f.houseErr = errors.Join(ephem.ErrNotReady, boom) }, KindNotInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeProvider()
			tt.setup(p)
			chart, err := NewCalculator(p, nil).Compute(context.Background(), testRequest)
			if err == nil {
				t.Fatal("expected error")
			}
			if chart != nil {
				t.Error("no partial chart may be returned")
			}
			if KindOf(err) != tt.kind {
				t.Errorf("KindOf = %v, want %v", KindOf(err), tt.kind)
			}
			if !errors.Is(err, boom) {
				t.Errorf("cause not attached: %v", err)
			}
		})
	}
}

func TestCompute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChartRequest)
	}{
		{"latitude", func(r *ChartRequest) { r.Location.LatDeg = 91 }},
		{"longitude", func(r *ChartRequest) { r.Location.LonDeg = -181 }},
		{"nan", func(r *ChartRequest) { r.Location.LatDeg = math.NaN() }},
		{"time", func(r *ChartRequest) { r.Time = time.Time{} }},
		{"house code", func(r *ChartRequest) { r.HouseSystem = 'Z' }},
		{"ayanamsa", func(r *ChartRequest) { r.Ayanamsa = ephem.AyanamsaMode(999) }},
		{"planet", func(r *ChartRequest) { r.Planets = []Planet{Planet(42)} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeProvider()
			req := testRequest
			tt.mutate(&req)
			_, err := NewCalculator(p, nil).Compute(context.Background(), req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want validation failure", err)
			}
			if len(p.bodies) != 0 || p.ayanCalls != 0 {
				t.Error("provider called for an invalid request")
			}
		})
	}
}

func TestCompute_NilProvider(t *testing.T) {
	_, err := NewCalculator(nil, nil).Compute(context.Background(), testRequest)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want not initialized", err)
	}
	var c *Calculator
	if _, err := c.Compute(context.Background(), testRequest); KindOf(err) != KindNotInitialized {
		t.Errorf("nil calculator err = %v", err)
	}
}

type countingRecorder struct {
	ok, failed int
}

func (r *countingRecorder) ObserveChart(_ time.Duration, err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func TestCompute_Recorder(t *testing.T) {
	p := newFakeProvider()
	rec := &countingRecorder{}
	calc := NewCalculator(p, nil)
	calc.SetRecorder(rec)

	if _, err := calc.Compute(context.Background(), testRequest); err != nil {
		t.Fatal(err)
	}
	p.ayanErr = errors.New("down")
	_, _ = calc.Compute(context.Background(), testRequest)

	if rec.ok != 1 || rec.failed != 1 {
		t.Errorf("recorder ok=%d failed=%d, want 1/1", rec.ok, rec.failed)
	}
}

func TestCompute_KathmanduSunInCancer(t *testing.T) {
	chart := mustCompute(t, ephem.NewAnalyticProvider(), testRequest)

	sun, ok := chart.Planet(Sun)
	if !ok {
		t.Fatal("Sun missing")
	}
	lon := sun.Position.Longitude
	if lon < 90 || lon >= 120 {
		t.Errorf("sidereal Sun = %.4f, want within Cancer [90,120)", lon)
	}
	if sun.Position.Sign() != zodiac.Cancer {
		t.Errorf("Sun sign = %v, want Cancer", sun.Position.Sign())
	}
	if chart.AyanamsaValue < 23.7 || chart.AyanamsaValue > 23.9 {
		t.Errorf("Lahiri ayanamsa = %.4f, want ~23.78", chart.AyanamsaValue)
	}
	if chart.AscendantSign() != zodiac.Virgo {
		t.Errorf("lagna = %v, want Virgo", chart.AscendantSign())
	}
}
