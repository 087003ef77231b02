package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

func TestTransactionsHandler_Create(t *testing.T) {
	t.Run("records transaction", func(t *testing.T) {
		repo := storage.NewMockRepository()
		router := newRouter(repo)

		rec := do(t, router, http.MethodPost, "/transactions",
			`{"id":"t9","date":"2024-01-15","payee":"Shell","amount":"-40.5","category":"Auto:Fuel"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var response dto.TransactionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "t9", response.ID)
		assert.Equal(t, "-40.50", response.Amount)
		assert.Equal(t, "2024-01-15", response.Date)

		rec = do(t, router, http.MethodGet, "/transactions/t9", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"bad date", `{"date":"01/15/2024","payee":"Shell","amount":"1"}`, dto.ErrCodeValidation},
		{"missing payee", `{"date":"2024-01-15","amount":"1"}`, dto.ErrCodeValidation},
		{"bad amount", `{"date":"2024-01-15","payee":"Shell","amount":"lots"}`, dto.ErrCodeValidation},
		{"unknown field", `{"date":"2024-01-15","payee":"Shell","amount":"1","tip":"2"}`, dto.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(storage.NewMockRepository()), http.MethodPost, "/transactions", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var apiErr dto.APIError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestTransactionsHandler_Get(t *testing.T) {
	t.Run("returns 404 for other tenant's transaction", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.AddTransaction(&storage.Transaction{ID: "t1", TenantID: "tenant-b", Payee: "Shell"})

		rec := do(t, newRouter(repo), http.MethodGet, "/transactions/t1", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
