package theme

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// FileSource reads the preference from the color_scheme key of a YAML file
// and watches that file for edits. Desktop integrations or operators write
// the file; a running console picks the change up without a restart.
type FileSource struct {
	Path     string
	Debounce time.Duration
	Log      *zap.Logger
}

// PreferenceKey is the YAML key FileSource reads.
const PreferenceKey = "color_scheme"

// Prefers implements Source. A missing or unreadable file has no preference.
func (f FileSource) Prefers() (bool, bool) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(f.Path), yaml.Parser()); err != nil {
		return false, false
	}
	return ParsePreference(k.String(PreferenceKey))
}

// Watch implements Source. The containing directory is watched so editors
// that replace the file atomically are still seen.
func (f FileSource) Watch(onChange func()) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	debounce := f.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	done := make(chan struct{})
	go f.loop(w, debounce, onChange, log, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			w.Close()
		})
	}, nil
}

func (f FileSource) loop(w *fsnotify.Watcher, debounce time.Duration, onChange func(), log *zap.Logger, done <-chan struct{}) {
	target := filepath.Clean(f.Path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("theme file watch error", zap.String("path", f.Path), zap.Error(err))

		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
