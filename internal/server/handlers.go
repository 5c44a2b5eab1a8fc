package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/state"
)

// stateMessage is the body of /api/state and of every /ws/state push.
type stateMessage struct {
	Domains []state.Domain `json:"domains"`
	Error   string         `json:"error,omitempty"`
	Theme   string         `json:"theme"`
	Version uint64         `json:"version"`
}

func (s *Server) currentState() stateMessage {
	snap := s.store.Snapshot()
	domains := snap.Domains
	if domains == nil {
		domains = []state.Domain{}
	}
	return stateMessage{
		Domains: domains,
		Error:   snap.Error,
		Theme:   s.theme.Mode().String(),
		Version: snap.Version,
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.currentState())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("writing json response", zap.Error(err))
	}
}
