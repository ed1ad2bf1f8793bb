// Package logging provides structured logging utilities for opmeter components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults.
// Meters write their readable and encoded lines through a *slog.Logger, so any
// handler works as the sink; the constructors here give the two flavors used
// by the CLI and by applications embedding meters.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Colored text logging through tint when attached to a terminal
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: SCHEDULED meter lines and telemetry diagnostics
//   - INFO: STARTED, PROGRESS and OK meter lines (default)
//   - WARN/WARNING: REJECT lines and illegal meter calls
//   - ERROR: FAIL lines
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("opmeter", version)
//
//	    m := meter.New(ctx, "billing.invoice", "render").Start()
//	    defer func() { m.Finish(err) }()
//	}
//
// Terminal friendly output:
//
//	logger := logging.NewTextLogger("opmeter", version, "debug", os.Stderr)
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "OK: invoice/render#12 3.2ms; 5ab6...",
//	    "module": "opmeter",
//	    "version": "v1.0.0",
//	    "category": "billing.invoice"
//	}
package logging
