package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pms_sync/internal/domain"
)

type Handlers struct {
	Cursor domain.CursorStore
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Get("/sync/status", h.syncStatus)
}

type syncStatus struct {
	LastSync *time.Time `json:"last_sync"`
}

func (h *Handlers) syncStatus(w http.ResponseWriter, r *http.Request) {
	var out syncStatus
	t, ok, err := h.Cursor.Get(r.Context())
	if err != nil {
		http.Error(w, "cursor unavailable", http.StatusServiceUnavailable)
		return
	}
	if ok {
		out.LastSync = &t
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("write sync status failed")
	}
}
