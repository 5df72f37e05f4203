package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-jyotish/internal/astro"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// SampleCacheTTL is how long a fetched sample is reused.
	SampleCacheTTL = 30 * time.Minute

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second

	// maxCachedSamples triggers a sweep of expired cache entries.
	maxCachedSamples = 4096
)

// HorizonsConfig configures a HorizonsProvider. Zero values pick defaults.
type HorizonsConfig struct {
	BaseURL  string
	Client   *http.Client
	Site     *astro.Observer // required for FlagTopocentric
	CacheTTL time.Duration
}

// HorizonsProvider queries JPL Horizons for apparent planet positions.
// Quantities Horizons does not produce (the mean node, ayanamsa, house
// cusps) come from the fallback provider.
type HorizonsProvider struct {
	baseURL  string
	client   *http.Client
	site     *astro.Observer
	ttl      time.Duration
	fallback Provider

	mu    sync.RWMutex
	cache map[sampleKey]*cachedSample
}

type sampleKey struct {
	body  Body
	jd    float64
	flags Flags
}

// cachedSample stores a fetched sample.
type cachedSample struct {
	sample    RawSample
	fetchedAt time.Time
}

// NewHorizonsProvider creates a new Horizons API client.
func NewHorizonsProvider(cfg HorizonsConfig, fallback Provider) *HorizonsProvider {
	p := &HorizonsProvider{
		baseURL:  cfg.BaseURL,
		client:   cfg.Client,
		site:     cfg.Site,
		ttl:      cfg.CacheTTL,
		fallback: fallback,
		cache:    make(map[sampleKey]*cachedSample),
	}
	if p.baseURL == "" {
		p.baseURL = HorizonsAPIURL
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: RequestTimeout}
	}
	if p.ttl <= 0 {
		p.ttl = SampleCacheTTL
	}
	return p
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "horizons"
}

// SamplePlanet implements Provider.
// Returns a cached sample if available, otherwise queries Horizons.
func (p *HorizonsProvider) SamplePlanet(ctx context.Context, body Body, jd float64, flags Flags) (RawSample, error) {
	info, ok := body.Info()
	if !ok {
		return RawSample{}, fmt.Errorf("%w: %d", ErrUnsupportedBody, int(body))
	}
	if info.HorizCmd == "" {
		if p.fallback == nil {
			return RawSample{}, fmt.Errorf("%w: %s has no Horizons target", ErrUnsupportedBody, info.Name)
		}
		return p.fallback.SamplePlanet(ctx, body, jd, flags)
	}
	if flags.Has(FlagTopocentric) && p.site == nil {
		return RawSample{}, fmt.Errorf("%w: topocentric sample without a site", ErrUnsupportedFlags)
	}

	key := sampleKey{body: body, jd: jd, flags: flags}
	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < p.ttl {
		return cached.sample, nil
	}

	jds := []float64{jd}
	if flags.Has(FlagSpeed) {
		jds = []float64{jd - speedStep, jd, jd + speedStep}
	}
	rows, err := p.queryObserverTable(ctx, info.HorizCmd, jds, flags)
	if err != nil {
		return RawSample{}, err
	}
	if len(rows) != len(jds) {
		return RawSample{}, fmt.Errorf("horizons returned %d rows for %s, want %d", len(rows), info.Name, len(jds))
	}
	sample := sampleFromRows(rows, flags)

	p.mu.Lock()
	p.storeLocked(key, sample)
	p.mu.Unlock()

	return sample, nil
}

// storeLocked caches a sample, sweeping expired entries when the map is full.
func (p *HorizonsProvider) storeLocked(key sampleKey, s RawSample) {
	now := time.Now()
	if len(p.cache) >= maxCachedSamples {
		for k, c := range p.cache {
			if now.Sub(c.fetchedAt) >= p.ttl {
				delete(p.cache, k)
			}
		}
	}
	p.cache[key] = &cachedSample{sample: s, fetchedAt: now}
}

// InvalidateCache drops every cached sample.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[sampleKey]*cachedSample)
	p.mu.Unlock()
}

// Ayanamsa implements Provider by delegating to the fallback.
func (p *HorizonsProvider) Ayanamsa(ctx context.Context, jd float64, mode AyanamsaMode) (float64, error) {
	if p.fallback == nil {
		return 0, fmt.Errorf("%w: horizons has no ayanamsa source", ErrNotReady)
	}
	return p.fallback.Ayanamsa(ctx, jd, mode)
}

// Houses implements Provider by delegating to the fallback.
func (p *HorizonsProvider) Houses(ctx context.Context, jd, latDeg, lonDeg float64, code HouseCode) (HouseData, error) {
	if p.fallback == nil {
		return HouseData{}, fmt.Errorf("%w: horizons has no house engine", ErrNotReady)
	}
	return p.fallback.Houses(ctx, jd, latDeg, lonDeg, code)
}

// horizonsRow is one parsed line of an observer table: the JD followed by
// the numeric quantity columns in Horizons order.
type horizonsRow struct {
	JD     float64
	Values []float64
}

// queryObserverTable makes a request to the Horizons API.
// Ecliptic requests ask for quantities 20 (range, range-rate) and 31
// (observer ecliptic lon/lat of date); equatorial ones for 2 (apparent
// RA/Dec) and 20.
func (p *HorizonsProvider) queryObserverTable(ctx context.Context, command string, jds []float64, flags Flags) ([]horizonsRow, error) {
	// Values must be quoted with single quotes
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", command))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	if flags.Has(FlagTopocentric) {
		params.Set("CENTER", "'coord@399'")
		params.Set("COORD_TYPE", "GEODETIC")
		params.Set("SITE_COORD", fmt.Sprintf("'%.4f,%.4f,%.4f'", p.site.LonDeg, p.site.LatDeg, p.site.AltM/1000))
	} else {
		params.Set("CENTER", "'500@399'")
	}
	params.Set("TLIST_TYPE", "JD")
	params.Set("TLIST", formatTList(jds))
	params.Set("CAL_FORMAT", "JD")
	params.Set("ANG_FORMAT", "DEG")
	params.Set("EXTRA_PREC", "YES")
	if flags.Has(FlagEquatorial) {
		params.Set("QUANTITIES", "'2,20'")
	} else {
		params.Set("QUANTITIES", "'20,31'")
	}

	reqURL := p.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build horizons request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("horizons request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("horizons returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseHorizonsResponse(body)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

// parseHorizonsResponse parses the Horizons JSON envelope and its table.
func parseHorizonsResponse(body []byte) ([]horizonsRow, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("horizons error: %s", resp.Error)
	}
	return parseObserverTable(resp.Result)
}

// parseObserverTable extracts rows between the $$SOE and $$EOE markers.
func parseObserverTable(result string) ([]horizonsRow, error) {
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find ephemeris data markers")
	}

	var rows []horizonsRow
	for _, line := range strings.Split(result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row, err := parseObserverLine(line)
		if err != nil {
			continue // Skip unparseable lines
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseObserverLine parses a single table line such as
//
//	2449561.711805556 *  1.01525   0.1053   124.9142  -0.0001
//
// The JD comes first; solar-presence and lunar flags are skipped.
func parseObserverLine(line string) (horizonsRow, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return horizonsRow{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	jd, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return horizonsRow{}, fmt.Errorf("bad JD %q: %w", fields[0], err)
	}

	row := horizonsRow{JD: jd}
	for _, f := range fields[1:] {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			row.Values = append(row.Values, v)
		}
	}
	if len(row.Values) < 4 {
		return horizonsRow{}, fmt.Errorf("expected 4 quantities, got %d", len(row.Values))
	}
	return row, nil
}

// sampleFromRows builds a sample from one row, or from three rows spaced
// speedStep apart when speeds were requested.
func sampleFromRows(rows []horizonsRow, flags Flags) RawSample {
	pick := func(r horizonsRow) (lon, lat, dist, distRate float64) {
		v := r.Values
		if flags.Has(FlagEquatorial) {
			return v[0], v[1], v[2], v[3]
		}
		return v[2], v[3], v[0], v[1]
	}

	mid := rows[len(rows)/2]
	lon, lat, dist, rate := pick(mid)
	s := RawSample{Longitude: norm360(lon), Latitude: lat, Distance: dist}
	if !flags.Has(FlagSpeed) {
		return s
	}

	lon0, lat0, _, _ := pick(rows[0])
	lon1, lat1, _, _ := pick(rows[len(rows)-1])
	span := rows[len(rows)-1].JD - rows[0].JD
	if span <= 0 {
		span = 2 * speedStep
	}
	s.LongitudeSpeed = wrapDelta(lon1-lon0) / span
	s.LatitudeSpeed = (lat1 - lat0) / span
	// deldot is km/s
	s.DistanceSpeed = astro.KmToAU(rate * 86400)
	return s
}

// formatTList formats Julian Days for the TLIST parameter.
func formatTList(jds []float64) string {
	parts := make([]string, len(jds))
	for i, jd := range jds {
		parts[i] = fmt.Sprintf("'%.9f'", jd)
	}
	return strings.Join(parts, " ")
}
