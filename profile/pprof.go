//go:build pprof

package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"
)

// mode maps mode names to profile settings. The "quiet" entry is a
// setting, not a mode, and is not reported by [Modes].
var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
	"quiet":     profile.Quiet,
}

// Modes returns the sorted names of the supported profiling modes.
func Modes() []string {
	m := maps.Clone(mode)
	delete(m, "quiet")

	return slices.Sorted(maps.Keys(m))
}

func start(name, path string, quiet bool) Stopper {
	fn, ok := mode[name]
	if !ok || name == "quiet" {
		return ignore{}
	}

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
