// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP chart service with Redis cache, Prometheus metrics, Horizons-backed ephemeris mode
// 0.2.0 - Transit scan and event log, interactive chart viewer
// 0.1.0 - Initial release: sidereal chart core, analytic ephemeris, headless text/JSON output
