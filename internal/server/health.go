package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/practicum-bots/homework-notifier/internal/state"
)

const (
	statusHealthy = "healthy"
	statusFailing = "failing"
)

// SnapshotSource provides the state of the poll loop.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Poll      state.Snapshot `json:"poll"`
	Timestamp time.Time      `json:"timestamp"`
}

// HealthRegistrar serves GET /health from the last poll cycle.
type HealthRegistrar struct {
	source SnapshotSource
	now    func() time.Time
}

func NewHealthRegistrar(source SnapshotSource) *HealthRegistrar {
	return &HealthRegistrar{source: source, now: time.Now}
}

func (h *HealthRegistrar) RegisterRoutes(router Router) {
	router.HandleFunc("GET /health", h.healthHandler)
}

func (h *HealthRegistrar) healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()
	response := HealthResponse{
		Status:    statusHealthy,
		Poll:      snap,
		Timestamp: h.now(),
	}
	code := http.StatusOK
	if !snap.Healthy() {
		response.Status = statusFailing
		code = http.StatusServiceUnavailable
	}

	// encode before writing headers so an encoding failure can still be a 500
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
