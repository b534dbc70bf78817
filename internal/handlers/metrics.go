package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Abhishek8211/Rajamantri/internal/game"
	"github.com/Abhishek8211/Rajamantri/internal/services"
)

type MetricsHandler struct {
	metrics  *services.Metrics
	registry *game.Registry
}

func NewMetricsHandler(metrics *services.Metrics, registry *game.Registry) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, registry: registry}
}

func (h *MetricsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.metrics.Snapshot(h.registry.Count())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}
