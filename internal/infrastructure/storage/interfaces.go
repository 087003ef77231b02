package storage

import (
	"context"
	"time"
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	ReceiptRepository
	TransactionRepository

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// ReceiptRepository is the receipt store.
type ReceiptRepository interface {
	// CreateReceipt registers an uploaded receipt. ID and UploadedAt are
	// filled in when empty.
	CreateReceipt(ctx context.Context, receipt *Receipt) error

	// GetReceipt retrieves a receipt by ID within a tenant.
	// Returns ErrNotFound when it does not exist in that tenant.
	GetReceipt(ctx context.Context, tenantID, receiptID string) (*Receipt, error)

	// ListUnmatchedReceipts returns the tenant's inbox, oldest upload first.
	ListUnmatchedReceipts(ctx context.Context, tenantID string) ([]*Receipt, error)

	// AttachReceipt links a receipt to a transaction and copies category/memo
	// onto the transaction, as one atomic check-and-set. Returns
	// ErrConcurrentMatchConflict if the receipt is already matched or the
	// transaction already has a receipt.
	AttachReceipt(ctx context.Context, req AttachRequest) (*AttachResult, error)

	// GetStats returns inbox counts for a tenant.
	GetStats(ctx context.Context, tenantID string) (*Stats, error)
}

// TransactionRepository is the transaction store.
type TransactionRepository interface {
	// CreateTransaction records a transaction. ID is filled in when empty.
	CreateTransaction(ctx context.Context, txn *Transaction) error

	// GetTransaction retrieves a transaction by ID within a tenant.
	GetTransaction(ctx context.Context, tenantID, transactionID string) (*Transaction, error)

	// FindTransactionsInDateWindow returns the tenant's transactions dated
	// within ±days of center (inclusive), ordered by date then creation.
	// Transactions that already carry a receipt are left out.
	FindTransactionsInDateWindow(ctx context.Context, tenantID string, center time.Time, days int) ([]*Transaction, error)
}
