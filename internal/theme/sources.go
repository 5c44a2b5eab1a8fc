package theme

import (
	"os"
	"strconv"
	"strings"
)

// Static is a fixed preference, typically from configuration.
type Static struct {
	Dark bool
}

// Prefers implements Source.
func (s Static) Prefers() (bool, bool) { return s.Dark, true }

// Watch implements Source. A static preference never changes.
func (Static) Watch(func()) (func(), error) { return func() {}, nil }

// EnvSource reads the preference from the process environment.
//
// Var (DIREKTOR_COLOR_SCHEME by default) may hold "dark" or "light". When it
// is unset, COLORFGBG ("fg;bg" as exported by many terminals) is consulted:
// a background colour index below 7, or exactly 8, means dark.
type EnvSource struct {
	Var    string
	Lookup func(string) (string, bool)
}

// DefaultEnvVar is read by EnvSource when Var is empty.
const DefaultEnvVar = "DIREKTOR_COLOR_SCHEME"

// Prefers implements Source.
func (e EnvSource) Prefers() (bool, bool) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	name := e.Var
	if name == "" {
		name = DefaultEnvVar
	}

	if v, ok := lookup(name); ok {
		if dark, ok := ParsePreference(v); ok {
			return dark, true
		}
	}

	if v, ok := lookup("COLORFGBG"); ok {
		parts := strings.Split(v, ";")
		bg, err := strconv.Atoi(parts[len(parts)-1])
		if err == nil {
			return bg < 7 || bg == 8, true
		}
	}
	return false, false
}

// Watch implements Source. The environment cannot change under a running
// process, so there is nothing to watch.
func (EnvSource) Watch(func()) (func(), error) { return func() {}, nil }

// Chain consults sources in order; the first one with a preference wins.
// Watch registers with every source.
type Chain []Source

// Prefers implements Source.
func (c Chain) Prefers() (bool, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if dark, ok := src.Prefers(); ok {
			return dark, true
		}
	}
	return false, false
}

// Watch implements Source.
func (c Chain) Watch(onChange func()) (func(), error) {
	var stops []func()
	for _, src := range c {
		if src == nil {
			continue
		}
		stop, err := src.Watch(onChange)
		if err != nil {
			for _, s := range stops {
				s()
			}
			return nil, err
		}
		stops = append(stops, stop)
	}
	return func() {
		for _, s := range stops {
			s()
		}
	}, nil
}

// ParsePreference maps "dark"/"light" (case-insensitive) to a flag.
// "auto" and unknown values report no preference.
func ParsePreference(v string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "dark":
		return true, true
	case "light":
		return false, true
	default:
		return false, false
	}
}
