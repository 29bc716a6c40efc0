// Package cli contains the command line interface for wml.
//
// # Usage
//
//	wml [flags] [run] [file ...]     evaluate program files (default command)
//	wml [flags] repl                 start an interactive session
//	wml [flags] fmt [native|json|yaml|tokens] [file]
//	wml [flags] init [--force]       write the current flags to the config file
//
// A file named "-", or no file at all, reads the program from stdin.
//
// # Host Constants
//
// The repeatable --const (-D) flag binds a constant before any program runs.
// NAME must be a SCREAMING_CASE constant name. EXPR is an expr-lang
// expression that may call env(name) to read the process environment and
// may refer to constants defined before it:
//
//	wml -D BASE=40 -D ROOT='env("HOME")' run prog.wml
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user
// configuration directory (for example ~/.config/wml). Keys are flag names,
// spelled with hyphens or underscores:
//
//	log-level: debug
//	max-depth: 500
//	const:
//	  BASE: "40"
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o wml .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/wml/pprof)
package cli
