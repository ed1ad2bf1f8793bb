// Package cli implements the opmeter command-line interface.
//
// # Overview
//
// Applications using the meter package log a readable line and an encoded
// record for every lifecycle transition. The opmeter CLI reads those records
// back from log files and renders them for people or for other tools.
//
// # Commands
//
// decode - Render encoded records found in logs:
//
//	opmeter decode [--category PREFIX] [--outcome ok|reject|fail|pending]
//	               [--redact PATTERN] [--config FILE]
//	               [--output FILE] [--format readable|json|yaml|table] [FILE...]
//
// Reads every FILE ("-" or no argument for standard input) in parallel,
// extracts encoded records from bare lines, JSON log records and text log
// lines, and writes the selected measurements in argument order. JSON and
// YAML files previously exported by decode are read as documents.
//
// version - Print build information:
//
//	opmeter version [--format json|yaml|table]
//
// # Global Flags
//
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--log-format   Log format: json, text (default: text)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Configuration
//
// Rendering follows the meter settings: --config loads a YAML settings file
// and OPMETER_* environment variables override individual keys, for example
// OPMETER_PRINT_SESSION=false or OPMETER_REDACT_KEYS=token,password.
//
// # Usage Examples
//
// Follow the failures of a running service:
//
//	tail -f app.log | opmeter decode --outcome fail
//
// Export a day of billing records:
//
//	opmeter decode --category billing. -t yaml -o billing.yaml app-*.log
package cli
