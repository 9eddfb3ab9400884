package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// HealthChecker é implementado pelos stores que conseguem testar a conexão.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store HealthChecker
	ready atomic.Bool
}

func NewHealthHandler(store HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	if h.ready.Load() {
		checks["app"] = "ok"
	} else {
		checks["app"] = "not ready"
		healthy = false
	}

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			checks["store"] = err.Error()
			healthy = false
		} else {
			checks["store"] = "ok"
		}
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "degraded", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, ReadyResponse{Status: "ok", Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
