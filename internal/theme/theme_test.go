package theme

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a controllable Source with change notification.
type fakeSource struct {
	mu       sync.Mutex
	dark     bool
	ok       bool
	onChange func()
	stopped  bool
}

func (f *fakeSource) Prefers() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dark, f.ok
}

func (f *fakeSource) Watch(onChange func()) (func(), error) {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) set(dark bool) {
	f.mu.Lock()
	f.dark, f.ok = dark, true
	cb := f.onChange
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func TestDetectAndApplyDark(t *testing.T) {
	s := NewSelector(&fakeSource{dark: true, ok: true}, nil)
	s.DetectAndApply()
	assert.True(t, s.IsDark())
	assert.Equal(t, Dark, s.Mode())
}

func TestDetectAndApplyLight(t *testing.T) {
	s := NewSelector(&fakeSource{dark: false, ok: true}, nil)
	s.DetectAndApply()
	assert.False(t, s.IsDark())
	assert.Equal(t, "light", s.Mode().String())
}

func TestNoPreferenceFallsBackToDefault(t *testing.T) {
	s := NewSelector(&fakeSource{}, nil)
	s.DetectAndApply()
	assert.Equal(t, DefaultMode, s.Mode())

	nilSource := NewSelector(nil, nil)
	nilSource.DetectAndApply()
	assert.Equal(t, DefaultMode, nilSource.Mode())
}

func TestChangeNotificationUpdatesFlag(t *testing.T) {
	src := &fakeSource{dark: true, ok: true}
	s := NewSelector(src, nil)

	var got []Mode
	s.OnChange(func(m Mode) { got = append(got, m) })
	s.DetectAndApply()
	require.True(t, s.IsDark())

	src.set(false)
	assert.False(t, s.IsDark())

	src.set(false)
	src.set(true)
	assert.True(t, s.IsDark())
	assert.Equal(t, []Mode{Light, Dark}, got)

	s.Close()
	assert.True(t, src.stopped)
}

func TestEnvSource(t *testing.T) {
	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	tests := []struct {
		name     string
		vars     map[string]string
		wantDark bool
		wantOK   bool
	}{
		{"explicit dark", map[string]string{DefaultEnvVar: "Dark"}, true, true},
		{"explicit light", map[string]string{DefaultEnvVar: "light"}, false, true},
		{"auto defers to COLORFGBG", map[string]string{DefaultEnvVar: "auto", "COLORFGBG": "15;0"}, true, true},
		{"light terminal", map[string]string{"COLORFGBG": "0;15"}, false, true},
		{"three-part COLORFGBG", map[string]string{"COLORFGBG": "15;default;0"}, true, true},
		{"garbage COLORFGBG", map[string]string{"COLORFGBG": "x;y"}, false, false},
		{"nothing set", map[string]string{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dark, ok := EnvSource{Lookup: env(tt.vars)}.Prefers()
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantDark, dark)
			}
		})
	}
}

func TestChainFirstOpinionWins(t *testing.T) {
	c := Chain{&fakeSource{}, Static{Dark: false}, Static{Dark: true}}
	dark, ok := c.Prefers()
	assert.True(t, ok)
	assert.False(t, dark)

	dark, ok = Chain{nil, &fakeSource{}}.Prefers()
	assert.False(t, ok)
	assert.False(t, dark)
}

func TestFileSourceReadsAndWatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yml")
	require.NoError(t, os.WriteFile(path, []byte("color_scheme: light\n"), 0o644))

	src := FileSource{Path: path, Debounce: 10 * time.Millisecond}
	s := NewSelector(src, nil)
	s.DetectAndApply()
	t.Cleanup(s.Close)
	require.False(t, s.IsDark())

	require.NoError(t, os.WriteFile(path, []byte("color_scheme: dark\n"), 0o644))

	assert.Eventually(t, s.IsDark, 5*time.Second, 20*time.Millisecond)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "absent.yml")}
	_, ok := src.Prefers()
	assert.False(t, ok)
}

func TestFileSourceWatchMissingDirectory(t *testing.T) {
	src := FileSource{Path: filepath.Join(t.TempDir(), "nope", "theme.yml")}
	s := NewSelector(src, nil)
	s.DetectAndApply()
	assert.Equal(t, DefaultMode, s.Mode())
}
