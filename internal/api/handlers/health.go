package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
)

// healthCheckTimeout bounds the store ping.
const healthCheckTimeout = 2 * time.Second

// Pinger checks that the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	*Base
	store Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{Base: NewBase(nil, logger), store: store}
}

// ServeHTTP answers 200 when the store is reachable and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	err := h.store.Ping(ctx)
	if err != nil {
		h.logger.Error("health check failed", "error", err)
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, status, dto.NewHealthResponse(err))
}
