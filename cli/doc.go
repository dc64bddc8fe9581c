// Package cli contains the command line interface for lala.
//
// # Usage
//
//	lala [flags] run [script|-] [-e TEXT] [-v PATH=VALUE ...] [--vars FILE ...]
//	lala check [--format none|ast|json|yaml|dump|source] [script ...]
//	lala tokens [script|-] [-e TEXT]
//	lala init [--format lala|yaml] [--force]
//	lala repl [-v PATH=VALUE ...] [--vars FILE ...]
//
// The run command is the default, so "lala greet.lala" runs greet.lala.
//
// # Script Search Path
//
// Scripts named without a path separator that do not exist in the working
// directory are looked up in each --include directory, then in each entry of
// $LALA_PATH, then in the configuration directory. The ".lala" extension may
// be omitted.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.lala in the
// configuration directory (~/.config/lala on Linux). The lala file is a
// script: it runs against an empty environment, and each variable it
// assigns sets the flag of the same name, with dots and underscores read as
// hyphens:
//
//	log.level = "debug"
//	log.time_layout = "kitchen"
//
// "lala init" writes the current flag values in either format. Command-line
// flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, ms, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lala .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/lala/pprof)
package cli
