package config

import (
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/logging"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"JYOTISH_LOG_LEVEL", "JYOTISH_LOG_FORMAT", "JYOTISH_EPHEM", "JYOTISH_AYANAMSA",
		"JYOTISH_HOUSES", "JYOTISH_OUTER", "JYOTISH_HTTP_ADDR", "JYOTISH_REDIS_ADDR",
		"JYOTISH_CHART_CACHE_TTL", "JYOTISH_METRICS", "JYOTISH_EPHEM_CACHE_TTL", "JYOTISH_EPHEM_TIMEOUT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Log.Level != logging.LevelInfo || cfg.Log.Format != logging.FormatText {
		t.Errorf("log = %v/%v", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Ephemeris.Mode != ephem.ModeAnalytic {
		t.Errorf("Ephemeris.Mode = %v, want analytic", cfg.Ephemeris.Mode)
	}
	if cfg.Chart.Ayanamsa != ephem.AyanamsaLahiri {
		t.Errorf("Chart.Ayanamsa = %v, want Lahiri", cfg.Chart.Ayanamsa)
	}
	if cfg.Chart.HouseSystem != ephem.HousePlacidus {
		t.Errorf("Chart.HouseSystem = %v, want Placidus", cfg.Chart.HouseSystem)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.CacheTTL != time.Hour {
		t.Errorf("Redis = %q/%v", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should default to enabled")
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings = %v", cfg.Warnings)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JYOTISH_LOG_LEVEL", "debug")
	t.Setenv("JYOTISH_LOG_FORMAT", "json")
	t.Setenv("JYOTISH_EPHEM", "auto")
	t.Setenv("JYOTISH_AYANAMSA", "raman")
	t.Setenv("JYOTISH_HOUSES", "W")
	t.Setenv("JYOTISH_OUTER", "yes")
	t.Setenv("JYOTISH_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("JYOTISH_REDIS_ADDR", "localhost:6379")
	t.Setenv("JYOTISH_CHART_CACHE_TTL", "90")
	t.Setenv("JYOTISH_EPHEM_CACHE_TTL", "5m")
	t.Setenv("JYOTISH_METRICS", "off")

	cfg := Load()

	if cfg.Log.Level != logging.LevelDebug || cfg.Log.Format != logging.FormatJSON {
		t.Errorf("log = %v/%v", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Ephemeris.Mode != ephem.ModeAuto {
		t.Errorf("Ephemeris.Mode = %v, want auto", cfg.Ephemeris.Mode)
	}
	if cfg.Ephemeris.CacheTTL != 5*time.Minute {
		t.Errorf("Ephemeris.CacheTTL = %v", cfg.Ephemeris.CacheTTL)
	}
	if cfg.Chart.Ayanamsa != ephem.AyanamsaRaman {
		t.Errorf("Chart.Ayanamsa = %v, want Raman", cfg.Chart.Ayanamsa)
	}
	if cfg.Chart.HouseSystem != ephem.HouseWholeSign || !cfg.Chart.IncludeOuter {
		t.Errorf("Chart = %+v", cfg.Chart)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("addrs = %q %q", cfg.HTTP.Addr, cfg.Redis.Addr)
	}
	if cfg.Redis.CacheTTL != 90*time.Second {
		t.Errorf("Redis.CacheTTL = %v, want 90s", cfg.Redis.CacheTTL)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
}

func TestLoad_InvalidValuesWarn(t *testing.T) {
	t.Setenv("JYOTISH_EPHEM", "swiss")
	t.Setenv("JYOTISH_AYANAMSA", "galactic")
	t.Setenv("JYOTISH_HOUSES", "Koch")
	t.Setenv("JYOTISH_OUTER", "maybe")
	t.Setenv("JYOTISH_CHART_CACHE_TTL", "-5s")
	t.Setenv("JYOTISH_EPHEM_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Ephemeris.Mode != ephem.ModeAnalytic || cfg.Chart.Ayanamsa != ephem.AyanamsaLahiri {
		t.Errorf("invalid enums should fall back: %v %v", cfg.Ephemeris.Mode, cfg.Chart.Ayanamsa)
	}
	if cfg.Chart.HouseSystem != ephem.HousePlacidus || cfg.Chart.IncludeOuter {
		t.Errorf("Chart = %+v", cfg.Chart)
	}
	if cfg.Redis.CacheTTL != time.Hour || cfg.Ephemeris.Timeout != 30*time.Second {
		t.Errorf("durations = %v %v", cfg.Redis.CacheTTL, cfg.Ephemeris.Timeout)
	}

	want := []string{"JYOTISH_EPHEM", "JYOTISH_AYANAMSA", "JYOTISH_HOUSES", "JYOTISH_OUTER", "JYOTISH_CHART_CACHE_TTL", "JYOTISH_EPHEM_TIMEOUT"}
	joined := strings.Join(cfg.Warnings, "\n")
	for _, k := range want {
		if !strings.Contains(joined, k) {
			t.Errorf("missing warning for %s in %v", k, cfg.Warnings)
		}
	}
}
