// Package theme decides whether the console renders in dark or light mode.
//
// A Selector reads the host preference from a Source once at startup,
// applies it to a process-wide flag, and re-applies it whenever the Source
// reports a change. Sources that have no opinion leave the default in place.
package theme

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Mode is the derived display mode.
type Mode bool

const (
	Light Mode = false
	Dark  Mode = true
)

// DefaultMode is applied when no source reports a preference.
const DefaultMode = Dark

// String returns "dark" or "light".
func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// Source reports the host's colour-scheme preference.
type Source interface {
	// Prefers returns the preference and whether the source has one.
	Prefers() (dark bool, ok bool)
	// Watch calls onChange whenever the preference may have changed.
	// Sources without change notification return a no-op stop func.
	Watch(onChange func()) (stop func(), err error)
}

// Selector owns the display-mode flag.
type Selector struct {
	source Source
	log    *zap.Logger

	dark atomic.Bool

	mu        sync.Mutex
	stop      func()
	listeners []func(Mode)
}

// NewSelector returns a selector reading from src. A nil src always yields
// the default mode.
func NewSelector(src Source, log *zap.Logger) *Selector {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Selector{source: src, log: log}
	s.dark.Store(bool(DefaultMode))
	return s
}

// DetectAndApply reads the current preference, applies it, and registers for
// change notifications. It never fails; watch errors are logged.
func (s *Selector) DetectAndApply() {
	s.apply()

	if s.source == nil {
		return
	}
	stop, err := s.source.Watch(s.apply)
	if err != nil {
		s.log.Warn("colour scheme changes will not be tracked", zap.Error(err))
		return
	}

	s.mu.Lock()
	prev := s.stop
	s.stop = stop
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Mode returns the current display mode.
func (s *Selector) Mode() Mode {
	return Mode(s.dark.Load())
}

// IsDark reports whether the dark flag is set.
func (s *Selector) IsDark() bool {
	return s.dark.Load()
}

// OnChange registers fn to be called after the mode flips.
func (s *Selector) OnChange(fn func(Mode)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Close stops watching for preference changes.
func (s *Selector) Close() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (s *Selector) apply() {
	dark := bool(DefaultMode)
	if s.source != nil {
		if v, ok := s.source.Prefers(); ok {
			dark = v
		}
	}

	old := s.dark.Swap(dark)
	if old == dark {
		return
	}

	mode := Mode(dark)
	s.log.Info("display mode changed", zap.Stringer("mode", mode))

	s.mu.Lock()
	listeners := append([]func(Mode){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(mode)
	}
}
