package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
)

// ReceiptsHandler serves the receipt inbox: pending decisions, preview and commit.
type ReceiptsHandler struct {
	*Base
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(svc *service.ReceiptService, logger *slog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{
		Base: NewBase(svc, logger),
	}
}

// Pending handles GET /api/receipts/pending - unmatched receipts with their decisions.
func (h *ReceiptsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.svc.ListPending(r.Context(), Tenant(r))
	if err != nil {
		h.WriteServiceError(w, r, "receipt", err)
		return
	}

	response := dto.PendingListResponse{
		Receipts:   make([]dto.PendingReceiptResponse, 0, len(pending)),
		TotalCount: len(pending),
	}
	for _, p := range pending {
		response.Receipts = append(response.Receipts, toPendingResponse(p))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Candidates handles GET /api/receipts/{id}/candidates - the decision for one receipt.
func (h *ReceiptsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "id")
	if receiptID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("receipt ID is required"))
		return
	}

	preview, err := h.svc.Preview(r.Context(), Tenant(r), receiptID)
	if err != nil {
		h.WriteServiceError(w, r, "receipt", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toPendingResponse(*preview))
}

// Create handles POST /api/receipts - registers an uploaded receipt.
func (h *ReceiptsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReceiptRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	receipt, err := h.svc.RegisterReceipt(r.Context(), Tenant(r), req.Filename)
	if err != nil {
		h.WriteServiceError(w, r, "receipt", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, toReceiptResponse(receipt))
}

// Match handles POST /api/receipts/{id}/match - commits a receipt to a
// transaction. A lost race is a 409 and leaves the receipt in the inbox.
func (h *ReceiptsHandler) Match(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "id")
	if receiptID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("receipt ID is required"))
		return
	}

	var req dto.MatchRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	result, err := h.svc.Commit(r.Context(), Tenant(r), receiptID, req.TransactionID)
	if err != nil {
		h.WriteServiceError(w, r, "receipt or transaction", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toMatchResponse(result))
}

// AutoMatch handles POST /api/receipts/auto-match - commits every pending
// receipt whose decision is auto_match.
func (h *ReceiptsHandler) AutoMatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ApplyAutoMatches(r.Context(), Tenant(r))
	if err != nil {
		h.WriteServiceError(w, r, "receipt", err)
		return
	}

	response := dto.ApplyAutoMatchesResponse{
		Matched:   make([]dto.MatchResponse, 0, len(result.Committed)),
		Conflicts: make([]string, 0, len(result.Conflicts)),
		Skipped:   result.Skipped,
	}
	for _, c := range result.Committed {
		response.Matched = append(response.Matched, toMatchResponse(c))
	}
	response.Conflicts = append(response.Conflicts, result.Conflicts...)

	h.WriteJSON(w, http.StatusOK, response)
}
