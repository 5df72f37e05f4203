package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-jyotish/internal/astro"
	"github.com/litescript/ls-jyotish/internal/ephem"
	"github.com/litescript/ls-jyotish/internal/metrics"
	"github.com/litescript/ls-jyotish/internal/vedic"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeChartError maps chart error kinds to status codes.
func writeChartError(c *gin.Context, err error) {
	switch vedic.KindOf(err) {
	case vedic.KindValidation:
		writeError(c, http.StatusBadRequest, err.Error())
	case vedic.KindNotInitialized:
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case vedic.KindCalculation:
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// parseChartRequest reads query parameters. Parse failures are returned as
// validation errors so they map to 400.
func (s *Server) parseChartRequest(c *gin.Context) (vedic.ChartRequest, error) {
	req := vedic.ChartRequest{
		Time:         s.now().UTC().Truncate(time.Second),
		Ayanamsa:     s.defaults.Ayanamsa,
		HouseSystem:  s.defaults.HouseSystem,
		IncludeOuter: s.defaults.IncludeOuter,
	}

	if v := c.Query("time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return req, badParam("time", err)
		}
		req.Time = t
	}

	lat, err := requiredFloat(c, "lat")
	if err != nil {
		return req, err
	}
	lon, err := requiredFloat(c, "lon")
	if err != nil {
		return req, err
	}
	req.Location = astro.Observer{LatDeg: lat, LonDeg: lon, Name: c.Query("name")}
	if v := c.Query("alt"); v != "" {
		alt, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, badParam("alt", err)
		}
		req.Location.AltM = alt
	}

	if v := c.Query("ayanamsa"); v != "" {
		m, err := ephem.ParseAyanamsaMode(v)
		if err != nil {
			return req, badParam("ayanamsa", err)
		}
		req.Ayanamsa = m
	}
	if v := c.Query("houses"); v != "" {
		h, err := ephem.ParseHouseCode(v)
		if err != nil {
			return req, badParam("houses", err)
		}
		req.HouseSystem = h
	}
	if v := c.Query("outer"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, badParam("outer", err)
		}
		req.IncludeOuter = b
	}
	if v := c.Query("planets"); v != "" {
		for _, name := range strings.Split(v, ",") {
			p, ok := vedic.ParsePlanet(name)
			if !ok {
				return req, badParam("planets", fmt.Errorf("unknown planet %q", name))
			}
			req.Planets = append(req.Planets, p)
		}
	}
	return req, nil
}

func requiredFloat(c *gin.Context, key string) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, badParam(key, errors.New("required"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badParam(key, err)
	}
	return f, nil
}

func badParam(key string, err error) error {
	return &vedic.Error{Kind: vedic.KindValidation, Op: "request", Subject: key, Err: err}
}

// cacheKey canonicalizes a request so equivalent queries share an entry.
func cacheKey(req vedic.ChartRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "chart:v1:%s:%.6f:%.6f:%.1f:%d:%c:%t",
		req.Time.UTC().Format(time.RFC3339Nano),
		req.Location.LatDeg, req.Location.LonDeg, req.Location.AltM,
		int(req.Ayanamsa), rune(req.HouseSystem), req.IncludeOuter)
	if req.Location.Name != "" {
		b.WriteString(":" + req.Location.Name)
	}
	for _, p := range req.Planets {
		b.WriteString(":" + p.String())
	}
	return b.String()
}

func (s *Server) handleChart(c *gin.Context) {
	req, err := s.parseChartRequest(c)
	if err != nil {
		writeChartError(c, err)
		return
	}
	ctx := c.Request.Context()
	key := cacheKey(req)

	if s.cache != nil {
		body, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("chart cache read failed", "key", key, "error", err)
			s.metrics.ObserveCache(metrics.CacheError)
		case ok:
			s.metrics.ObserveCache(metrics.CacheHit)
			c.Header("X-Cache", "hit")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		default:
			s.metrics.ObserveCache(metrics.CacheMiss)
		}
	}

	if s.calc == nil {
		writeChartError(c, vedic.ErrNotInitialized)
		return
	}
	chart, err := s.calc.Compute(ctx, req)
	if err != nil {
		s.log.Warn("chart failed", "error", err, "kind", vedic.KindOf(err).String())
		writeChartError(c, err)
		return
	}

	body, err := json.Marshal(vedic.ExportChart(chart, s.now().UTC()))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "encode chart")
		return
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, body, s.cacheTTL); err != nil {
			s.log.Warn("chart cache write failed", "key", key, "error", err)
		}
	}
	c.Header("X-Cache", "miss")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
