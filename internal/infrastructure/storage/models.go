package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a receipt or transaction does not exist in the tenant.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentMatchConflict is returned when a match commit loses a race:
	// the receipt was matched, or the transaction got a receipt, after the
	// candidates were computed. Nothing is written; refresh and try again.
	ErrConcurrentMatchConflict = errors.New("concurrent match conflict")
)

// dateLayout is how transaction dates are stored.
const dateLayout = "2006-01-02"

// Receipt is an uploaded receipt file. An empty TransactionID means it is
// still in the unmatched pool.
type Receipt struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	Filename      string     `json:"filename"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	TransactionID string     `json:"transaction_id,omitempty"`
	MatchedAt     *time.Time `json:"matched_at,omitempty"`
}

// IsMatched reports whether the receipt is linked to a transaction.
func (r *Receipt) IsMatched() bool {
	return r.TransactionID != ""
}

// Transaction is a recorded financial transaction.
type Transaction struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenant_id"`
	Date      time.Time       `json:"date"`
	Payee     string          `json:"payee"`
	Amount    decimal.Decimal `json:"amount"` // Signed
	Category  string          `json:"category,omitempty"`
	Memo      string          `json:"memo,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AttachRequest commits a match. Empty Category/Memo leave the transaction's
// existing values alone; non-empty values overwrite them.
type AttachRequest struct {
	TenantID      string
	ReceiptID     string
	TransactionID string
	Category      string
	Memo          string
	MatchedAt     time.Time
}

// AttachResult is the state after a successful commit.
type AttachResult struct {
	Receipt     *Receipt
	Transaction *Transaction
}

// Stats contains inbox counts for one tenant
type Stats struct {
	TotalReceipts     int `json:"total_receipts"`
	MatchedReceipts   int `json:"matched_receipts"`
	UnmatchedReceipts int `json:"unmatched_receipts"`
	Transactions      int `json:"transactions"`
}
