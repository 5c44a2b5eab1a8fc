package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ziadkadry99/direktor/internal/pages"
	"github.com/ziadkadry99/direktor/internal/state"
	"github.com/ziadkadry99/direktor/internal/theme"
)

// switchSource lets a test flip the preference and fire the watcher.
type switchSource struct {
	dark     atomic.Bool
	onChange atomic.Value
}

func (s *switchSource) Prefers() (bool, bool) { return s.dark.Load(), true }

func (s *switchSource) Watch(fn func()) (func(), error) {
	s.onChange.Store(fn)
	return func() {}, nil
}

func (s *switchSource) set(dark bool) {
	s.dark.Store(dark)
	if fn, ok := s.onChange.Load().(func()); ok {
		fn()
	}
}

func setupTest(t *testing.T, cfg Config) (*Server, *state.Store, *switchSource) {
	t.Helper()

	store := state.NewStore()
	src := &switchSource{}
	src.dark.Store(true)
	sel := theme.NewSelector(src, nil)
	sel.DetectAndApply()

	views, err := pages.NewRegistry(store, sel, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	srv := New(cfg, store, sel, views, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, store, src
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := setupTest(t, Config{})

	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _, _ := setupTest(t, Config{AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestViewRoutes(t *testing.T) {
	srv, store, _ := setupTest(t, Config{})
	store.SetDomains([]state.Domain{{Name: "corp.example.com"}})

	tests := []struct {
		path   string
		status int
		marker string
	}{
		{"/", http.StatusOK, `data-domain="corp.example.com"`},
		{"/search", http.StatusOK, `id="coming-soon"`},
		{"/about", http.StatusOK, `id="about"`},
		{"/about/", http.StatusOK, `id="about"`},
		{"/missing", http.StatusNotFound, `id="not-found"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, srv, tt.path)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.marker) {
				t.Errorf("body missing %q", tt.marker)
			}
		})
	}
}

func TestHeadRequests(t *testing.T) {
	srv, _, _ := setupTest(t, Config{})

	for _, path := range []string{"/", "/search", "/about", "/healthz", "/api/state"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodHead, path, nil)
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("HEAD %s: expected 200, got %d", path, w.Code)
			}
		})
	}
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := &Server{log: zap.New(core)}

	w := httptest.NewRecorder()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	entries := logs.FilterMessage("writing json response").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.DebugLevel {
		t.Errorf("expected debug level, got %s", entries[0].Level)
	}
}

func TestStaticAssets(t *testing.T) {
	srv, _, _ := setupTest(t, Config{})

	w := get(t, srv, "/static/console.js")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/ws/state") {
		t.Error("console.js should connect to the live channel")
	}
}

func TestStateEndpoint(t *testing.T) {
	srv, store, _ := setupTest(t, Config{})
	store.SetDomains([]state.Domain{{Name: "a"}, {Name: "b"}})
	store.SetError("partial outage")

	w := get(t, srv, "/api/state")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var msg stateMessage
	if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(msg.Domains) != 2 || msg.Domains[0].Name != "a" || msg.Domains[1].Name != "b" {
		t.Errorf("unexpected domains %+v", msg.Domains)
	}
	if msg.Error != "partial outage" {
		t.Errorf("expected error 'partial outage', got %q", msg.Error)
	}
	if msg.Theme != "dark" {
		t.Errorf("expected theme 'dark', got %q", msg.Theme)
	}
	if msg.Version != 2 {
		t.Errorf("expected version 2, got %d", msg.Version)
	}
}

func TestStateEndpointEmpty(t *testing.T) {
	srv, _, _ := setupTest(t, Config{})

	w := get(t, srv, "/api/state")
	if !strings.Contains(w.Body.String(), `"domains":[]`) {
		t.Errorf("expected empty domains array, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("error should be omitted, got %s", w.Body.String())
	}
}

func dialLive(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/state"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg stateMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestLivePushesOnConnect(t *testing.T) {
	srv, store, _ := setupTest(t, Config{})
	store.SetDomains([]state.Domain{{Name: "x"}})

	conn := dialLive(t, srv)
	msg := readState(t, conn)
	if len(msg.Domains) != 1 || msg.Domains[0].Name != "x" {
		t.Errorf("unexpected domains %+v", msg.Domains)
	}
}

func TestLivePushesStoreChanges(t *testing.T) {
	srv, store, _ := setupTest(t, Config{})

	conn := dialLive(t, srv)
	first := readState(t, conn)
	waitForClients(t, srv, 1)

	store.SetDomains([]state.Domain{{Name: "late.example.com"}})

	msg := readState(t, conn)
	if msg.Version <= first.Version {
		t.Errorf("expected version to advance past %d, got %d", first.Version, msg.Version)
	}
	if len(msg.Domains) != 1 || msg.Domains[0].Name != "late.example.com" {
		t.Errorf("unexpected domains %+v", msg.Domains)
	}
}

func TestLivePushesThemeChanges(t *testing.T) {
	srv, _, src := setupTest(t, Config{})

	conn := dialLive(t, srv)
	if got := readState(t, conn).Theme; got != "dark" {
		t.Fatalf("expected dark, got %q", got)
	}
	waitForClients(t, srv, 1)

	src.set(false)

	if got := readState(t, conn).Theme; got != "light" {
		t.Errorf("expected light, got %q", got)
	}
}

func TestShutdownClosesLiveClients(t *testing.T) {
	srv, _, _ := setupTest(t, Config{})

	conn := dialLive(t, srv)
	readState(t, conn)
	waitForClients(t, srv, 1)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}

func waitForClients(t *testing.T, srv *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for srv.hub.size() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d live clients, have %d", n, srv.hub.size())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
