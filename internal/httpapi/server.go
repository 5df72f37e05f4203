// Package httpapi serves charts over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/logging"
	"github.com/litescript/ls-jyotish/internal/metrics"
	"github.com/litescript/ls-jyotish/internal/vedic"
	"github.com/litescript/ls-jyotish/internal/version"
)

// Defaults apply when a request omits a chart parameter.
type Defaults struct {
	Ayanamsa     ephem.AyanamsaMode
	HouseSystem  ephem.HouseCode
	IncludeOuter bool
}

// ServerDeps wires a Server. Cache and Metrics are optional.
type ServerDeps struct {
	Calculator *vedic.Calculator
	Cache      ChartCache
	CacheTTL   time.Duration
	Metrics    *metrics.Collector
	Log        *logging.Logger
	Defaults   Defaults
}

// Server handles the chart API.
type Server struct {
	calc     *vedic.Calculator
	cache    ChartCache
	cacheTTL time.Duration
	metrics  *metrics.Collector
	log      *logging.Logger
	defaults Defaults
	now      func() time.Time
}

// NewServer creates a server.
func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		calc:     deps.Calculator,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		metrics:  deps.Metrics,
		log:      log,
		defaults: deps.Defaults,
		now:      time.Now,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(recovery(s.log), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/v1/chart", s.handleChart)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

// HTTPServer returns an http.Server for addr with conservative timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	provider := ""
	if s.calc != nil && s.calc.Provider() != nil {
		provider = s.calc.Provider().Name()
	}
	writeJSON(c, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  version.Version,
		"provider": provider,
	})
}
