// Command ls-jyotish computes sidereal (Vedic) birth and transit charts. It
// runs as a terminal viewer, a headless report tool or an HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"golang.org/x/term"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/config"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/httpapi"
	"github.com/litescript/ls-jyotish/internal/logging"
	"github.com/litescript/ls-jyotish/internal/metrics"
	"github.com/litescript/ls-jyotish/internal/state"
	"github.com/litescript/ls-jyotish/internal/ui"
	"github.com/litescript/ls-jyotish/internal/vedic"
	"github.com/litescript/ls-jyotish/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	jsonPath      string
	eventsMode    bool
	serveMode     bool
	watchInterval time.Duration
	scanSpan      time.Duration
	eventLimit    int
)

const (
	minWatch        = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	cfg := config.Load()

	timeStr := flag.String("time", "", "Chart time, RFC3339 (default: now)")
	lat := flag.Float64("lat", 0, "Latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Longitude in degrees, east positive")
	alt := flag.Float64("alt", 0, "Altitude in meters")
	name := flag.String("name", "", "Optional place name")
	ayanamsa := flag.String("ayanamsa", cfg.Chart.Ayanamsa.String(), "Ayanamsa (lahiri, raman, krishnamurti, ...)")
	houses := flag.String("houses", string(rune(cfg.Chart.HouseSystem)), "House system (P, O, E, W or a name)")
	outer := flag.Bool("outer", cfg.Chart.IncludeOuter, "Include Uranus, Neptune and Pluto")
	planets := flag.String("planets", "", "Comma-separated planets (default: classical seven)")
	ephemMode := flag.String("ephem", cfg.Ephemeris.Mode.String(), "Ephemeris source (analytic, horizons, auto)")
	logLevel := flag.String("log-level", cfg.Log.Level.String(), "Log level (debug, info, warn, error)")
	addr := flag.String("addr", cfg.HTTP.Addr, "Listen address for -serve")
	step := flag.Duration("step", time.Hour, "Time step for -events and the viewer")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export chart JSON to file (use - for stdout)")
	flag.BoolVar(&eventsMode, "events", false, "Scan forward from -time and print transit events")
	flag.DurationVar(&scanSpan, "span", 30*24*time.Hour, "Scan length for -events")
	flag.IntVar(&eventLimit, "limit", 0, "Maximum events to print (0: all)")
	flag.DurationVar(&watchInterval, "watch", 0, "Reprint the current chart at interval (e.g., 1m)")
	flag.BoolVar(&serveMode, "serve", false, "Serve the HTTP chart API")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-jyotish %s\n", version.Version)
		return
	}

	// Set up logging
	logger := logging.NewWithFormat(logging.ParseLevel(*logLevel), cfg.Log.Format, os.Stderr)
	for _, w := range cfg.Warnings {
		logger.Warn("config", "warning", w)
	}

	// Create context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := metrics.New(nil)
	if err != nil {
		fatal(err)
	}

	mode, err := ephem.ParseMode(*ephemMode)
	if err != nil {
		fatal(err)
	}
	provider, err := ephem.New(mode, ephem.HorizonsConfig{
		BaseURL:  cfg.Ephemeris.HorizonsURL,
		Client:   &http.Client{Timeout: cfg.Ephemeris.Timeout},
		CacheTTL: cfg.Ephemeris.CacheTTL,
	}, logger.With("component", "ephem"))
	if err != nil {
		fatal(err)
	}
	if cfg.Metrics.Enabled {
		provider = ephem.NewInstrumentedProvider(provider, collector)
	}

	calc := vedic.NewCalculator(provider, logger.With("component", "calculator"))
	if cfg.Metrics.Enabled {
		calc.SetRecorder(collector)
	}

	if serveMode {
		if !cfg.Metrics.Enabled {
			collector = nil
		}
		if err := runServer(ctx, calc, collector, cfg, *addr, logger); err != nil {
			fatal(err)
		}
		return
	}

	req, err := buildRequest(*timeStr, *lat, *lon, *alt, *name, *ayanamsa, *houses, *outer, *planets)
	if err != nil {
		fatal(err)
	}
	if !locationSet() {
		fatal(errors.New("-lat and -lon are required"))
	}

	stateCfg := state.DefaultConfig()
	stateCfg.Step = *step
	stateMgr := state.NewManager(stateCfg)

	headless := summaryMode || jsonPath != "" || eventsMode || watchInterval > 0 ||
		!term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		if err := runHeadless(ctx, calc, stateMgr, req); err != nil {
			fatal(err)
		}
		return
	}

	// The alternate screen owns the terminal.
	logger.SetOutput(io.Discard)

	p := tea.NewProgram(ui.New(stateMgr, calc, req), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// buildRequest turns flag values into a chart request. An empty timeStr
// leaves the time zero so the viewer follows the clock.
func buildRequest(timeStr string, lat, lon, alt float64, name, ayanamsa, houses string, outer bool, planets string) (vedic.ChartRequest, error) {
	req := vedic.ChartRequest{
		Location:     astro.Observer{LatDeg: lat, LonDeg: lon, AltM: alt, Name: name},
		IncludeOuter: outer,
	}
	if timeStr != "" {
		t, err := time.Parse(time.RFC3339, timeStr)
		if err != nil {
			return req, fmt.Errorf("parse -time: %w", err)
		}
		req.Time = t
	}

	mode, err := ephem.ParseAyanamsaMode(ayanamsa)
	if err != nil {
		return req, err
	}
	req.Ayanamsa = mode

	code, err := ephem.ParseHouseCode(houses)
	if err != nil {
		return req, err
	}
	req.HouseSystem = code

	if planets != "" {
		for _, s := range strings.Split(planets, ",") {
			p, ok := vedic.ParsePlanet(s)
			if !ok {
				return req, fmt.Errorf("unknown planet %q", s)
			}
			req.Planets = append(req.Planets, p)
		}
	}
	return req, nil
}

func locationSet() bool {
	var lat, lon bool
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			lat = true
		case "lon":
			lon = true
		}
	})
	return lat && lon
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, calc *vedic.Calculator, stateMgr *state.Manager, req vedic.ChartRequest) error {
	if req.Time.IsZero() {
		req.Time = time.Now().UTC().Truncate(time.Second)
	}

	if eventsMode {
		events, err := stateMgr.Scan(ctx, calc, req, scanSpan)
		state.WriteEvents(os.Stdout, events, eventLimit)
		return err
	}

	outputOnce := func(at time.Time) error {
		r := req
		r.Time = at
		start := time.Now()
		chart, err := calc.Compute(ctx, r)
		stateMgr.Update(chart, time.Since(start), err)
		if err != nil {
			return err
		}

		// Export JSON if requested
		if jsonPath != "" {
			if err := writeExport(chart); err != nil {
				return err
			}
		}

		if summaryMode || jsonPath == "" {
			vedic.WriteSummaryTable(os.Stdout, chart)
		}
		return nil
	}

	if watchInterval == 0 {
		return outputOnce(req.Time)
	}

	// Watch mode: follow the clock at interval
	if watchInterval < minWatch {
		watchInterval = minWatch
	}
	if err := outputOnce(req.Time); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			fmt.Println()
			if err := outputOnce(t.UTC().Truncate(time.Second)); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeExport(chart *vedic.VedicChart) error {
	export := vedic.ExportChart(chart, time.Now())
	if jsonPath == "-" {
		if err := export.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	if err := export.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// runServer serves the chart API until ctx is cancelled.
func runServer(ctx context.Context, calc *vedic.Calculator, collector *metrics.Collector, cfg config.Config, addr string, logger *logging.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	var cache httpapi.ChartCache
	if cfg.Redis.Addr != "" {
		client := httpapi.NewRedisClient(cfg.Redis.Addr)
		defer client.Close()
		rc := httpapi.NewRedisCache(client, "jyotish:chart:")
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable; serving uncached until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		cache = rc
	} else {
		cache = httpapi.NewMemoryCache()
	}

	srv := httpapi.NewServer(httpapi.ServerDeps{
		Calculator: calc,
		Cache:      cache,
		CacheTTL:   cfg.Redis.CacheTTL,
		Metrics:    collector,
		Log:        logger.With("component", "http"),
		Defaults: httpapi.Defaults{
			Ayanamsa:     cfg.Chart.Ayanamsa,
			HouseSystem:  cfg.Chart.HouseSystem,
			IncludeOuter: cfg.Chart.IncludeOuter,
		},
	}).HTTPServer(addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving chart API", "addr", addr, "provider", calc.Provider().Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down chart API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
