package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated. A single mutex
// makes AttachReceipt an atomic check-and-set, like the SQLite version.
type MockRepository struct {
	mu           sync.Mutex
	receipts     map[string]*Receipt
	transactions map[string]*Transaction
	receiptOrder []string
	txnOrder     []string

	// Hooks for test assertions
	AttachCalls     int
	LastAttach      *AttachRequest
	WindowQueries   int
	LastWindowDays  int
	ListInboxCalled bool

	// Error injection for testing error paths
	CreateReceiptErr     error
	CreateTransactionErr error
	ListUnmatchedErr     error
	FindWindowErr        error
	AttachErr            error
	GetStatsErr          error
	PingErr              error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		receipts:     make(map[string]*Receipt),
		transactions: make(map[string]*Transaction),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// Ping returns PingErr
func (m *MockRepository) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}

// CreateReceipt stores a copy of the receipt
func (m *MockRepository) CreateReceipt(_ context.Context, receipt *Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateReceiptErr != nil {
		return m.CreateReceiptErr
	}
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	if receipt.UploadedAt.IsZero() {
		receipt.UploadedAt = time.Now().UTC()
	}

	copied := *receipt
	m.receipts[receipt.ID] = &copied
	m.receiptOrder = append(m.receiptOrder, receipt.ID)
	return nil
}

// GetReceipt returns a copy of the receipt
func (m *MockRepository) GetReceipt(_ context.Context, tenantID, receiptID string) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.getReceiptLocked(tenantID, receiptID)
}

func (m *MockRepository) getReceiptLocked(tenantID, receiptID string) (*Receipt, error) {
	receipt, ok := m.receipts[receiptID]
	if !ok || receipt.TenantID != tenantID {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, ErrNotFound)
	}
	copied := *receipt
	return &copied, nil
}

// ListUnmatchedReceipts returns unmatched receipts, oldest upload first
func (m *MockRepository) ListUnmatchedReceipts(_ context.Context, tenantID string) ([]*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListInboxCalled = true
	if m.ListUnmatchedErr != nil {
		return nil, m.ListUnmatchedErr
	}

	result := make([]*Receipt, 0)
	for _, id := range m.receiptOrder {
		receipt := m.receipts[id]
		if receipt.TenantID != tenantID || receipt.IsMatched() {
			continue
		}
		copied := *receipt
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UploadedAt.Before(result[j].UploadedAt)
	})
	return result, nil
}

// AttachReceipt links receipt and transaction if both are still free
func (m *MockRepository) AttachReceipt(_ context.Context, req AttachRequest) (*AttachResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AttachCalls++
	copiedReq := req
	m.LastAttach = &copiedReq
	if m.AttachErr != nil {
		return nil, m.AttachErr
	}

	receipt, ok := m.receipts[req.ReceiptID]
	if !ok || receipt.TenantID != req.TenantID {
		return nil, fmt.Errorf("receipt %s: %w", req.ReceiptID, ErrNotFound)
	}
	txn, ok := m.transactions[req.TransactionID]
	if !ok || txn.TenantID != req.TenantID {
		return nil, fmt.Errorf("transaction %s: %w", req.TransactionID, ErrNotFound)
	}

	if receipt.IsMatched() {
		return nil, ErrConcurrentMatchConflict
	}
	for _, other := range m.receipts {
		if other.TransactionID == req.TransactionID {
			return nil, ErrConcurrentMatchConflict
		}
	}

	matchedAt := req.MatchedAt
	if matchedAt.IsZero() {
		matchedAt = time.Now().UTC()
	}
	receipt.TransactionID = req.TransactionID
	receipt.MatchedAt = &matchedAt

	if req.Category != "" {
		txn.Category = req.Category
	}
	if req.Memo != "" {
		txn.Memo = req.Memo
	}

	r, t := *receipt, *txn
	return &AttachResult{Receipt: &r, Transaction: &t}, nil
}

// GetStats counts receipts and transactions for the tenant
func (m *MockRepository) GetStats(_ context.Context, tenantID string) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &Stats{}
	for _, receipt := range m.receipts {
		if receipt.TenantID != tenantID {
			continue
		}
		stats.TotalReceipts++
		if receipt.IsMatched() {
			stats.MatchedReceipts++
		} else {
			stats.UnmatchedReceipts++
		}
	}
	for _, txn := range m.transactions {
		if txn.TenantID == tenantID {
			stats.Transactions++
		}
	}
	return stats, nil
}

// CreateTransaction stores a copy of the transaction
func (m *MockRepository) CreateTransaction(_ context.Context, txn *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateTransactionErr != nil {
		return m.CreateTransactionErr
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	copied := *txn
	m.transactions[txn.ID] = &copied
	m.txnOrder = append(m.txnOrder, txn.ID)
	return nil
}

// GetTransaction returns a copy of the transaction
func (m *MockRepository) GetTransaction(_ context.Context, tenantID, transactionID string) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.transactions[transactionID]
	if !ok || txn.TenantID != tenantID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	copied := *txn
	return &copied, nil
}

// FindTransactionsInDateWindow filters by tenant and inclusive day range,
// skipping transactions that already have a receipt
func (m *MockRepository) FindTransactionsInDateWindow(_ context.Context, tenantID string, center time.Time, days int) ([]*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WindowQueries++
	m.LastWindowDays = days
	if m.FindWindowErr != nil {
		return nil, m.FindWindowErr
	}

	start := center.AddDate(0, 0, -days).Format(dateLayout)
	end := center.AddDate(0, 0, days).Format(dateLayout)

	attached := make(map[string]bool)
	for _, receipt := range m.receipts {
		if receipt.IsMatched() {
			attached[receipt.TransactionID] = true
		}
	}

	result := make([]*Transaction, 0)
	for _, id := range m.txnOrder {
		txn := m.transactions[id]
		date := txn.Date.Format(dateLayout)
		if txn.TenantID != tenantID || date < start || date > end || attached[id] {
			continue
		}
		copied := *txn
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Format(dateLayout) < result[j].Date.Format(dateLayout)
	})
	return result, nil
}

// AddReceipt adds a receipt directly (test helper)
func (m *MockRepository) AddReceipt(receipt *Receipt) {
	_ = m.CreateReceipt(context.Background(), receipt)
}

// AddTransaction adds a transaction directly (test helper)
func (m *MockRepository) AddTransaction(txn *Transaction) {
	_ = m.CreateTransaction(context.Background(), txn)
}
