// Package app wires the shared state, theme selector, page registry and
// domain client together and runs the startup sequence.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/config"
	"github.com/ziadkadry99/direktor/internal/domains"
	"github.com/ziadkadry99/direktor/internal/pages"
	"github.com/ziadkadry99/direktor/internal/state"
	"github.com/ziadkadry99/direktor/internal/theme"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("app already started")

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithThemeSource overrides the colour-scheme source derived from config.
func WithThemeSource(src theme.Source) Option {
	return func(a *App) { a.themeSource = src }
}

// WithHTTPClient sets the client used to reach the backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) { a.httpClient = hc }
}

// WithUserAgent sets the User-Agent sent to the backend.
func WithUserAgent(ua string) Option {
	return func(a *App) { a.userAgent = ua }
}

// App is the application root. It owns the single state store.
type App struct {
	cfg *config.Config
	log *zap.Logger

	store       *state.Store
	themeSource theme.Source
	selector    *theme.Selector
	httpClient  *http.Client
	userAgent   string
	client      *domains.Client
	registry    *pages.Registry

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	fetched chan struct{}
}

// New creates the App and its state store. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     zap.NewNop(),
		store:   state.NewStore(),
		fetched: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.themeSource == nil {
		a.themeSource = SourceFor(cfg, a.log)
	}

	clientOpts := []domains.Option{
		domains.WithTimeout(timeout),
		domains.WithHeaders(cfg.Headers),
		domains.WithLogger(a.log.With(zap.String("component", "domains"))),
	}
	if a.userAgent != "" {
		clientOpts = append(clientOpts, domains.WithUserAgent(a.userAgent))
	}
	if a.httpClient != nil {
		clientOpts = append(clientOpts, domains.WithHTTPClient(a.httpClient))
	}
	a.client = domains.NewClient(cfg.BackendURL, clientOpts...)
	a.selector = theme.NewSelector(a.themeSource, a.log.With(zap.String("component", "theme")))

	return a, nil
}

// Start runs the startup sequence: bind the page registry to the store,
// apply the display mode, then fetch the domain list in the background.
// The fetch happens once per App; Start cannot be called twice.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}

	reg, err := pages.NewRegistry(a.store, a.selector, a.log.With(zap.String("component", "pages")))
	if err != nil {
		return fmt.Errorf("building page registry: %w", err)
	}
	a.registry = reg

	a.selector.DetectAndApply()
	a.log.Info("display mode applied", zap.Stringer("mode", a.selector.Mode()))

	fetchCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.started = true

	go func() {
		defer close(a.fetched)
		a.client.FetchDomains(fetchCtx, a.store)
	}()

	return nil
}

// Wait blocks until the startup fetch has finished or ctx is done.
func (a *App) Wait(ctx context.Context) error {
	select {
	case <-a.fetched:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels an in-flight fetch and stops theme watchers.
func (a *App) Close() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.selector.Close()
}

// Store returns the shared state.
func (a *App) Store() *state.Store { return a.store }

// Registry returns the page registry. It is nil before Start.
func (a *App) Registry() *pages.Registry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry
}

// Theme returns the display-mode selector.
func (a *App) Theme() *theme.Selector { return a.selector }

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config { return a.cfg }
