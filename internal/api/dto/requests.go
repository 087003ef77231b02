package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in requests and responses.
const DateLayout = "2006-01-02"

// CreateReceiptRequest registers an uploaded receipt by its filename.
type CreateReceiptRequest struct {
	Filename string `json:"filename"`
}

// Validate checks required fields.
func (r CreateReceiptRequest) Validate() error {
	if strings.TrimSpace(r.Filename) == "" {
		return fmt.Errorf("filename is required")
	}
	return nil
}

// MatchRequest commits a receipt to a transaction.
type MatchRequest struct {
	TransactionID string `json:"transaction_id"`
}

// Validate checks required fields.
func (r MatchRequest) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("transaction_id is required")
	}
	return nil
}

// CreateTransactionRequest records a transaction.
type CreateTransactionRequest struct {
	ID       string `json:"id,omitempty"`
	Date     string `json:"date"`   // YYYY-MM-DD
	Payee    string `json:"payee"`
	Amount   string `json:"amount"` // Signed decimal, e.g. "-25.10"
	Category string `json:"category,omitempty"`
	Memo     string `json:"memo,omitempty"`
}

// Parse validates the request and returns its date and amount.
func (r CreateTransactionRequest) Parse() (time.Time, decimal.Decimal, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if strings.TrimSpace(r.Payee) == "" {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("payee is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, fmt.Errorf("amount must be a decimal number")
	}
	return date, amount, nil
}
