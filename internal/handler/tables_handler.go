package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type HealthResponse struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}

// Health pings the database and reports how many tables it holds.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.DB.HealthCheck(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	count, err := h.TablesService.GetCountTablesDB(ctx)
	if err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, HealthResponse{Status: "ok", Tables: count}, http.StatusOK)
}
