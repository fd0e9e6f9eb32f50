// Package cli contains the command line interface for dotini.
//
// # Usage
//
//	dotini [flags] [load] [FILE]
//	dotini get FILE EXPR
//	dotini browse [FILE]
//	dotini init [--force]
//
// FILE defaults to the current directory, which is read from its ".ini"
// file. Load is the default command.
//
// # Configuration
//
// Flag defaults are read from the [config] section of config.ini in the
// per-user configuration directory (see [pkg.ConfigDir]). The file is itself
// resolved by dotini, so references like ${HOME} and includes work there:
//
//	[config]
//	log-level  = debug
//	log-format = text
//
// A JSON file at the same path with a ".json" suffix is also consulted;
// it may contain comments and trailing commas.
// Run "dotini init" to write the current flag values to config.ini.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/dotini/pprof)
//
// # Examples
//
//	# Resolve ./app.ini as YAML under the "app" namespace
//	dotini load -n app -o yaml app.ini
//
//	# Print shell exports for a directory's .ini
//	eval "$(dotini load -o env ./deploy)"
//
//	# Evaluate an expression
//	dotini get app.ini 'server.port + 1'
package cli
