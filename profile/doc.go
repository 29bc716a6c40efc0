// Package profile provides optional runtime profiling for wml.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof -o wml .
//	wml --pprof-mode=cpu run fib.wml
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op
// profiler, so callers never need their own build constraints.
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Profiles are written to the configured path,
// by default the pprof directory under the wml cache directory, and are
// read with the usual tooling:
//
//	go tool pprof -http=: ~/.cache/wml/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
