package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for receipts and transactions.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	// Immediate transactions take the write lock up front, so two commits
	// racing for the same receipt queue on busy_timeout instead of deadlocking.
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateReceipt saves a new receipt
func (s *Storage) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	if receipt.UploadedAt.IsZero() {
		receipt.UploadedAt = time.Now().UTC()
	}

	var transactionID sql.NullString
	if receipt.TransactionID != "" {
		transactionID = sql.NullString{String: receipt.TransactionID, Valid: true}
	}

	query := `
	INSERT INTO receipts (id, tenant_id, filename, uploaded_at, transaction_id, matched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		receipt.ID,
		receipt.TenantID,
		receipt.Filename,
		receipt.UploadedAt,
		transactionID,
		receipt.MatchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

// GetReceipt retrieves a receipt by ID within a tenant
func (s *Storage) GetReceipt(ctx context.Context, tenantID, receiptID string) (*Receipt, error) {
	return getReceipt(ctx, s.db, tenantID, receiptID)
}

const receiptColumns = `id, tenant_id, filename, uploaded_at, transaction_id, matched_at`

func getReceipt(ctx context.Context, q rowQuerier, tenantID, receiptID string) (*Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = ? AND tenant_id = ?`

	receipt, err := scanReceipt(q.QueryRowContext(ctx, query, receiptID, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*Receipt, error) {
	receipt := &Receipt{}
	var transactionID sql.NullString
	var matchedAt sql.NullTime

	err := row.Scan(
		&receipt.ID,
		&receipt.TenantID,
		&receipt.Filename,
		&receipt.UploadedAt,
		&transactionID,
		&matchedAt,
	)
	if err != nil {
		return nil, err
	}

	if transactionID.Valid {
		receipt.TransactionID = transactionID.String
	}
	if matchedAt.Valid {
		t := matchedAt.Time
		receipt.MatchedAt = &t
	}
	return receipt, nil
}

// ListUnmatchedReceipts returns receipts whose transaction link is null
func (s *Storage) ListUnmatchedReceipts(ctx context.Context, tenantID string) ([]*Receipt, error) {
	query := `
	SELECT ` + receiptColumns + `
	FROM receipts
	WHERE tenant_id = ? AND transaction_id IS NULL
	ORDER BY uploaded_at ASC, rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	receipts := make([]*Receipt, 0)
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, rows.Err()
}

// AttachReceipt commits a match with a conditional update. Zero rows affected
// means another commit got there first.
func (s *Storage) AttachReceipt(ctx context.Context, req AttachRequest) (*AttachResult, error) {
	if req.MatchedAt.IsZero() {
		req.MatchedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	linkQuery := `
	UPDATE receipts
	SET transaction_id = ?, matched_at = ?
	WHERE id = ? AND tenant_id = ?
	  AND transaction_id IS NULL
	  AND NOT EXISTS (SELECT 1 FROM receipts WHERE transaction_id = ?)
	  AND EXISTS (SELECT 1 FROM transactions WHERE id = ? AND tenant_id = ?)
	`

	result, err := tx.ExecContext(ctx, linkQuery,
		req.TransactionID,
		req.MatchedAt,
		req.ReceiptID,
		req.TenantID,
		req.TransactionID,
		req.TransactionID,
		req.TenantID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConcurrentMatchConflict
		}
		return nil, fmt.Errorf("failed to link receipt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, s.explainFailedLink(ctx, tx, req)
	}

	updateQuery := `
	UPDATE transactions
	SET category = CASE WHEN ? = '' THEN category ELSE ? END,
	    memo = CASE WHEN ? = '' THEN memo ELSE ? END
	WHERE id = ? AND tenant_id = ?
	`

	_, err = tx.ExecContext(ctx, updateQuery,
		req.Category, req.Category,
		req.Memo, req.Memo,
		req.TransactionID,
		req.TenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	receipt, err := getReceipt(ctx, tx, req.TenantID, req.ReceiptID)
	if err != nil {
		return nil, err
	}
	txn, err := getTransaction(ctx, tx, req.TenantID, req.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	return &AttachResult{Receipt: receipt, Transaction: txn}, nil
}

// explainFailedLink distinguishes a missing row from a lost race.
func (s *Storage) explainFailedLink(ctx context.Context, q rowQuerier, req AttachRequest) error {
	if _, err := getReceipt(ctx, q, req.TenantID, req.ReceiptID); err != nil {
		return err
	}
	if _, err := getTransaction(ctx, q, req.TenantID, req.TransactionID); err != nil {
		return err
	}
	return ErrConcurrentMatchConflict
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// GetStats returns inbox counts for a tenant
func (s *Storage) GetStats(ctx context.Context, tenantID string) (*Stats, error) {
	stats := &Stats{}

	query := `
	SELECT
		COUNT(*) as total,
		COUNT(CASE WHEN transaction_id IS NOT NULL THEN 1 END) as matched,
		COUNT(CASE WHEN transaction_id IS NULL THEN 1 END) as unmatched
	FROM receipts
	WHERE tenant_id = ?
	`

	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(
		&stats.TotalReceipts,
		&stats.MatchedReceipts,
		&stats.UnmatchedReceipts,
	)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE tenant_id = ?`, tenantID).
		Scan(&stats.Transactions)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// CreateTransaction saves a new transaction
func (s *Storage) CreateTransaction(ctx context.Context, txn *Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO transactions (id, tenant_id, txn_date, payee, amount, category, memo, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.TenantID,
		txn.Date.Format(dateLayout),
		txn.Payee,
		txn.Amount.String(),
		txn.Category,
		txn.Memo,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID within a tenant
func (s *Storage) GetTransaction(ctx context.Context, tenantID, transactionID string) (*Transaction, error) {
	return getTransaction(ctx, s.db, tenantID, transactionID)
}

const transactionColumns = `id, tenant_id, txn_date, payee, amount, category, memo, created_at`

func getTransaction(ctx context.Context, q rowQuerier, tenantID, transactionID string) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ? AND tenant_id = ?`

	txn, err := scanTransaction(q.QueryRowContext(ctx, query, transactionID, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func scanTransaction(row scanner) (*Transaction, error) {
	txn := &Transaction{}
	var date string

	err := row.Scan(
		&txn.ID,
		&txn.TenantID,
		&date,
		&txn.Payee,
		&txn.Amount,
		&txn.Category,
		&txn.Memo,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("transaction %s has bad date %q: %w", txn.ID, date, err)
	}
	return txn, nil
}

// FindTransactionsInDateWindow returns unattached transactions dated within
// ±days of center
func (s *Storage) FindTransactionsInDateWindow(ctx context.Context, tenantID string, center time.Time, days int) ([]*Transaction, error) {
	start := center.AddDate(0, 0, -days).Format(dateLayout)
	end := center.AddDate(0, 0, days).Format(dateLayout)

	query := `
	SELECT ` + transactionColumns + `
	FROM transactions
	WHERE tenant_id = ? AND txn_date BETWEEN ? AND ?
	  AND NOT EXISTS (
	      SELECT 1 FROM receipts r WHERE r.transaction_id = transactions.id
	  )
	ORDER BY txn_date ASC, rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	txns := make([]*Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}
