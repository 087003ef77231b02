package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/api/middleware"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

// maxBodyBytes caps request bodies; every request here is a small JSON object.
const maxBodyBytes = 64 << 10

// Base provides shared functionality for all handlers.
type Base struct {
	svc    *service.ReceiptService
	logger *slog.Logger
}

// NewBase creates a new base handler with the given service.
func NewBase(svc *service.ReceiptService, logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{svc: svc, logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteServiceError maps a service error onto the API error contract.
// Unknown errors are logged and hidden behind a generic 500.
func (b *Base) WriteServiceError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError(resource))
	case errors.Is(err, storage.ErrConcurrentMatchConflict):
		b.WriteError(w, http.StatusConflict, dto.ConflictError())
	default:
		b.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// Tenant returns the request's tenant, set by middleware.Tenant.
func Tenant(r *http.Request) string {
	return middleware.TenantFrom(r.Context())
}
