package handlers

import (
	"errors"
	"net/http"

	"github.com/SKuytov/SVP/internal/realtime"
	"github.com/SKuytov/SVP/pkg/logger"
)

// RealtimeHandler upgrades clients onto the metrics hub
type RealtimeHandler struct {
	hub    *realtime.Hub
	logger *logger.Logger
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub *realtime.Hub, log *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, logger: log}
}

// Connect upgrades the request to a websocket
// GET /ws/realtime
func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	err := h.hub.Serve(w, r)
	switch {
	case err == nil:
	case errors.Is(err, realtime.ErrHubFull):
		RespondError(w, http.StatusServiceUnavailable, "Too many realtime clients", nil)
	default:
		// 업그레이드 실패 시 websocket 패키지가 이미 응답을 씀
		h.logger.WithError(err).Warn("Realtime connection failed")
	}
}
