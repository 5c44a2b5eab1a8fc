package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/pages"
	"github.com/ziadkadry99/direktor/internal/state"
	"github.com/ziadkadry99/direktor/internal/theme"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS and websocket origins (dev mode)
}

// Server is the console's HTTP front end.
type Server struct {
	cfg        Config
	store      *state.Store
	theme      *theme.Selector
	views      *pages.Registry
	log        *zap.Logger
	router     chi.Router
	httpServer *http.Server

	hub         *hub
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// New creates a server rendering views from the given store and theme.
func New(cfg Config, store *state.Store, sel *theme.Selector, views *pages.Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:   cfg,
		store: store,
		theme: sel,
		views: views,
		log:   log,
		hub:   newHub(),
		done:  make(chan struct{}),
	}

	updates, unsubscribe := store.Subscribe()
	s.unsubscribe = unsubscribe
	go func() {
		for range updates {
			s.hub.broadcast()
		}
	}()
	sel.OnChange(func(theme.Mode) { s.hub.broadcast() })

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// The live channel outlives any request timeout.
	r.Get("/ws/state", s.handleLive)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Get("/api/state", s.handleState)

		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(pages.Static()))))

		for _, p := range s.views.Paths() {
			r.Get(p, s.views.ServeHTTP)
		}
	})
	r.NotFound(s.views.ServeHTTP)

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port. It returns nil after a
// graceful Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("listening", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s: %w", addr, err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and disconnects live clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.unsubscribe()
	})
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
