// Package config loads runtime settings from JYOTISH_* environment
// variables with defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/logging"
)

// Config holds every runtime setting.
type Config struct {
	Log struct {
		Level  logging.Level
		Format logging.Format
	}
	Ephemeris struct {
		Mode        ephem.Mode
		HorizonsURL string
		CacheTTL    time.Duration
		Timeout     time.Duration
	}
	Chart struct {
		Ayanamsa     ephem.AyanamsaMode
		HouseSystem  ephem.HouseCode
		IncludeOuter bool
	}
	HTTP struct {
		Addr string
	}
	Redis struct {
		Addr     string
		CacheTTL time.Duration
	}
	Metrics struct {
		Enabled bool
	}

	// Warnings lists values that were present but invalid and replaced by
	// their defaults.
	Warnings []string
}

// Load reads the environment. Invalid values never fail the load; they are
// reported in Warnings.
func Load() Config {
	var cfg Config
	w := &cfg.Warnings

	cfg.Log.Level = logging.ParseLevel(envOrDefault("JYOTISH_LOG_LEVEL", "info"))
	cfg.Log.Format = logging.ParseFormat(envOrDefault("JYOTISH_LOG_FORMAT", "text"))

	mode, err := ephem.ParseMode(os.Getenv("JYOTISH_EPHEM"))
	if err != nil {
		warn(w, "JYOTISH_EPHEM", err)
	}
	cfg.Ephemeris.Mode = mode
	cfg.Ephemeris.HorizonsURL = envOrDefault("JYOTISH_HORIZONS_URL", "")
	cfg.Ephemeris.CacheTTL = envOrDefaultDuration(w, "JYOTISH_EPHEM_CACHE_TTL", 10*time.Minute)
	cfg.Ephemeris.Timeout = envOrDefaultDuration(w, "JYOTISH_EPHEM_TIMEOUT", 30*time.Second)

	cfg.Chart.Ayanamsa = ephem.AyanamsaLahiri
	if v := os.Getenv("JYOTISH_AYANAMSA"); v != "" {
		m, err := ephem.ParseAyanamsaMode(v)
		if err != nil {
			warn(w, "JYOTISH_AYANAMSA", err)
		} else {
			cfg.Chart.Ayanamsa = m
		}
	}
	cfg.Chart.HouseSystem = ephem.HousePlacidus
	if v := os.Getenv("JYOTISH_HOUSES"); v != "" {
		c, err := ephem.ParseHouseCode(v)
		if err != nil {
			warn(w, "JYOTISH_HOUSES", err)
		} else {
			cfg.Chart.HouseSystem = c
		}
	}
	cfg.Chart.IncludeOuter = envOrDefaultBool(w, "JYOTISH_OUTER", false)

	cfg.HTTP.Addr = envOrDefault("JYOTISH_HTTP_ADDR", ":8080")
	cfg.Redis.Addr = envOrDefault("JYOTISH_REDIS_ADDR", "")
	cfg.Redis.CacheTTL = envOrDefaultDuration(w, "JYOTISH_CHART_CACHE_TTL", time.Hour)
	cfg.Metrics.Enabled = envOrDefaultBool(w, "JYOTISH_METRICS", true)

	return cfg
}

func warn(w *[]string, key string, err error) {
	*w = append(*w, fmt.Sprintf("%s: %v; using default", key, err))
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(w *[]string, key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	warn(w, key, fmt.Errorf("invalid boolean %q", v))
	return def
}

func envOrDefaultDuration(w *[]string, key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare numbers are seconds.
		if n, nerr := strconv.Atoi(v); nerr == nil {
			return time.Duration(n) * time.Second
		}
		warn(w, key, err)
		return def
	}
	if d < 0 {
		warn(w, key, fmt.Errorf("negative duration %s", d))
		return def
	}
	return d
}
