package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

// TransactionsHandler handles transaction registration and lookup.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *service.ReceiptService, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(svc, logger),
	}
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	date, amount, err := req.Parse()
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	txn := &storage.Transaction{
		ID:       req.ID,
		TenantID: Tenant(r),
		Date:     date,
		Payee:    req.Payee,
		Amount:   amount,
		Category: req.Category,
		Memo:     req.Memo,
	}
	if err := h.svc.RegisterTransaction(r.Context(), txn); err != nil {
		h.WriteServiceError(w, r, "transaction", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, toTransactionResponse(txn))
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	if transactionID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("transaction ID is required"))
		return
	}

	txn, err := h.svc.GetTransaction(r.Context(), Tenant(r), transactionID)
	if err != nil {
		h.WriteServiceError(w, r, "transaction", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, toTransactionResponse(txn))
}
