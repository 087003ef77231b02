package handlers

import (
	"log/slog"
	"net/http"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
)

// StatsHandler handles inbox statistics requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *service.ReceiptService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(svc, logger),
	}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), Tenant(r))
	if err != nil {
		h.WriteServiceError(w, r, "stats", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.StatsResponse{
		TotalReceipts:     stats.TotalReceipts,
		MatchedReceipts:   stats.MatchedReceipts,
		UnmatchedReceipts: stats.UnmatchedReceipts,
		Transactions:      stats.Transactions,
	})
}
