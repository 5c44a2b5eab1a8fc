// Package pages maps console URL paths to views and renders them.
//
// Three views are registered: Home at "/", Search at "/search" and About at
// "/about". Any other path resolves to a NotFound view that answers 404.
package pages

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/state"
	"github.com/ziadkadry99/direktor/internal/theme"
)

const (
	PathHome   = "/"
	PathSearch = "/search"
	PathAbout  = "/about"
)

// StateSource yields the state a view renders from.
type StateSource interface {
	Snapshot() state.Snapshot
}

// ModeSource yields the current display mode.
type ModeSource interface {
	Mode() theme.Mode
}

// Registry resolves paths to views. It is read-only after construction.
type Registry struct {
	routes   map[string]View
	order    []string
	notFound View

	state StateSource
	mode  ModeSource
	log   *zap.Logger
}

// NewRegistry parses the embedded templates and binds the views to the given
// state and display mode. A nil mode renders with theme.DefaultMode.
func NewRegistry(st StateSource, mode ModeSource, log *zap.Logger) (*Registry, error) {
	if log == nil {
		log = zap.NewNop()
	}

	home, err := newHome()
	if err != nil {
		return nil, err
	}
	search, err := newSearch()
	if err != nil {
		return nil, err
	}
	about, err := newAbout()
	if err != nil {
		return nil, err
	}
	notFound, err := newNotFound()
	if err != nil {
		return nil, err
	}

	return &Registry{
		routes: map[string]View{
			PathHome:   home,
			PathSearch: search,
			PathAbout:  about,
		},
		order:    []string{PathHome, PathSearch, PathAbout},
		notFound: notFound,
		state:    st,
		mode:     mode,
		log:      log,
	}, nil
}

// Resolve maps a URL path to its view. Trailing slashes are ignored.
func (r *Registry) Resolve(path string) View {
	if v, ok := r.routes[normalize(path)]; ok {
		return v
	}
	return r.notFound
}

// Paths lists the recognized paths in navigation order.
func (r *Registry) Paths() []string {
	return append([]string(nil), r.order...)
}

// Page builds the render input for path from the bound state and mode.
func (r *Registry) Page(path string) Page {
	p := Page{Path: normalize(path), Mode: theme.DefaultMode}
	if r.state != nil {
		p.State = r.state.Snapshot()
	}
	if p.State.Domains == nil {
		p.State.Domains = []state.Domain{}
	}
	if r.mode != nil {
		p.Mode = r.mode.Mode()
	}
	return p
}

// ServeHTTP renders the view for the request path.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	v := r.Resolve(req.URL.Path)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(v.Status())

	if err := v.Render(w, r.Page(req.URL.Path)); err != nil {
		r.log.Error("rendering view", zap.String("view", v.Name()), zap.Error(err))
	}
}

func normalize(path string) string {
	if path == "" {
		return PathHome
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathHome
		}
	}
	return path
}
