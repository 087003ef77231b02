package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/receipt-inbox/internal/domain/matcher"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

// DefaultMaxParallel bounds how many receipts are evaluated at once when
// building the pending view.
const DefaultMaxParallel = 8

// Options tune a ReceiptService.
type Options struct {
	// Now supplies "today" for year inference. Defaults to time.Now.
	Now func() time.Time
	// MaxParallel bounds concurrent receipt evaluation. Defaults to DefaultMaxParallel.
	MaxParallel int
}

// PendingReceipt is an unmatched receipt with a freshly computed decision.
type PendingReceipt struct {
	Receipt  *storage.Receipt
	Parsed   matcher.ParsedFilename
	Decision matcher.Decision
}

// Evaluation is the decision for a filename that is not (yet) a stored receipt.
type Evaluation struct {
	Filename string
	Parsed   matcher.ParsedFilename
	Decision matcher.Decision
}

// ApplyResult summarizes an ApplyAutoMatches run.
type ApplyResult struct {
	Committed []*storage.AttachResult
	Conflicts []string // receipt IDs that lost a race
	Skipped   int      // receipts without an auto-match decision
}

// ReceiptService computes match decisions for the receipt inbox and commits
// confirmed matches. Decisions are never cached; every call re-reads the
// transaction store.
type ReceiptService struct {
	repo        storage.Repository
	matcher     *matcher.Matcher
	logger      *slog.Logger
	now         func() time.Time
	maxParallel int
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(repo storage.Repository, m *matcher.Matcher, logger *slog.Logger, opts Options) *ReceiptService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = matcher.NewMatcher(matcher.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	return &ReceiptService{
		repo:        repo,
		matcher:     m,
		logger:      logger,
		now:         opts.Now,
		maxParallel: opts.MaxParallel,
	}
}

// ListPending returns the tenant's unmatched receipts, oldest first, each
// with its decision. Receipts are evaluated in parallel.
func (s *ReceiptService) ListPending(ctx context.Context, tenantID string) ([]PendingReceipt, error) {
	receipts, err := s.repo.ListUnmatchedReceipts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list unmatched receipts: %w", err)
	}

	now := s.now()
	results := make([]PendingReceipt, len(receipts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, receipt := range receipts {
		g.Go(func() error {
			parsed, decision, err := s.evaluate(gctx, tenantID, receipt.Filename, now)
			if err != nil {
				return fmt.Errorf("evaluate receipt %s: %w", receipt.ID, err)
			}
			results[i] = PendingReceipt{Receipt: receipt, Parsed: parsed, Decision: decision}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("built pending view", "tenant", tenantID, "receipts", len(results))
	return results, nil
}

// Preview computes the decision for a single stored receipt. A receipt that
// is already matched still gets a decision; the commit is what guards it.
func (s *ReceiptService) Preview(ctx context.Context, tenantID, receiptID string) (*PendingReceipt, error) {
	receipt, err := s.repo.GetReceipt(ctx, tenantID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	parsed, decision, err := s.evaluate(ctx, tenantID, receipt.Filename, s.now())
	if err != nil {
		return nil, fmt.Errorf("evaluate receipt %s: %w", receipt.ID, err)
	}
	return &PendingReceipt{Receipt: receipt, Parsed: parsed, Decision: decision}, nil
}

// EvaluateFilename computes the decision for an arbitrary filename against
// the tenant's transactions as of now.
func (s *ReceiptService) EvaluateFilename(ctx context.Context, tenantID, filename string, now time.Time) (*Evaluation, error) {
	parsed, decision, err := s.evaluate(ctx, tenantID, filename, now)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Filename: filename, Parsed: parsed, Decision: decision}, nil
}

// Commit attaches a receipt to a transaction, copying the receipt's parsed
// category and memo onto the transaction. Returns an error wrapping
// storage.ErrConcurrentMatchConflict when either side was claimed first.
func (s *ReceiptService) Commit(ctx context.Context, tenantID, receiptID, transactionID string) (*storage.AttachResult, error) {
	receipt, err := s.repo.GetReceipt(ctx, tenantID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	if receipt.IsMatched() {
		s.logger.Warn("receipt already matched", "tenant", tenantID, "receipt_id", receiptID, "transaction_id", receipt.TransactionID)
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrConcurrentMatchConflict)
	}

	parsed := matcher.ParseFilename(receipt.Filename, s.now())
	result, err := s.repo.AttachReceipt(ctx, storage.AttachRequest{
		TenantID:      tenantID,
		ReceiptID:     receiptID,
		TransactionID: transactionID,
		Category:      parsed.Category,
		Memo:          parsed.Memo,
		MatchedAt:     s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConcurrentMatchConflict) {
			s.logger.Warn("match conflict", "tenant", tenantID, "receipt_id", receiptID, "transaction_id", transactionID)
		}
		return nil, fmt.Errorf("attach receipt %s to transaction %s: %w", receiptID, transactionID, err)
	}

	s.logger.Info("receipt matched",
		"tenant", tenantID,
		"receipt_id", receiptID,
		"transaction_id", transactionID,
		"category", parsed.Category,
	)
	return result, nil
}

// ApplyAutoMatches commits every pending receipt whose decision is an
// AutoMatch. Conflicts are reported, not returned as errors; the losing
// receipts stay in the inbox.
func (s *ReceiptService) ApplyAutoMatches(ctx context.Context, tenantID string) (*ApplyResult, error) {
	pending, err := s.ListPending(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{}
	for _, p := range pending {
		auto, ok := p.Decision.(matcher.AutoMatch)
		if !ok {
			result.Skipped++
			continue
		}
		attached, err := s.Commit(ctx, tenantID, p.Receipt.ID, auto.Candidate.Transaction.ID)
		switch {
		case err == nil:
			result.Committed = append(result.Committed, attached)
		case errors.Is(err, storage.ErrConcurrentMatchConflict):
			result.Conflicts = append(result.Conflicts, p.Receipt.ID)
		default:
			return result, err
		}
	}
	return result, nil
}

// RegisterReceipt stores receipt metadata for the tenant's inbox.
func (s *ReceiptService) RegisterReceipt(ctx context.Context, tenantID, filename string) (*storage.Receipt, error) {
	receipt := &storage.Receipt{
		TenantID:   tenantID,
		Filename:   filename,
		UploadedAt: s.now().UTC(),
	}
	if err := s.repo.CreateReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	return receipt, nil
}

// RegisterTransaction stores a transaction for the tenant.
func (s *ReceiptService) RegisterTransaction(ctx context.Context, txn *storage.Transaction) error {
	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetTransaction reads a transaction within the tenant.
func (s *ReceiptService) GetTransaction(ctx context.Context, tenantID, transactionID string) (*storage.Transaction, error) {
	txn, err := s.repo.GetTransaction(ctx, tenantID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// Stats returns inbox counts for the tenant.
func (s *ReceiptService) Stats(ctx context.Context, tenantID string) (*storage.Stats, error) {
	stats, err := s.repo.GetStats(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

// Ping reports whether the receipt and transaction store is reachable.
func (s *ReceiptService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

// evaluate parses filename, loads the pre-filter window from the store and
// runs the matcher. A dateless filename never touches the store.
func (s *ReceiptService) evaluate(ctx context.Context, tenantID, filename string, now time.Time) (matcher.ParsedFilename, matcher.Decision, error) {
	parsed := matcher.ParseFilename(filename, now)
	if !parsed.HasDate() {
		return parsed, matcher.NoAction{}, nil
	}

	txns, err := s.repo.FindTransactionsInDateWindow(ctx, tenantID, *parsed.Date, s.matcher.Config().WindowDays)
	if err != nil {
		return parsed, nil, fmt.Errorf("find transactions in window: %w", err)
	}

	decision := s.matcher.Match(parsed, toMatcherTransactions(txns))
	s.logger.Debug("evaluated receipt",
		"tenant", tenantID,
		"filename", filename,
		"window", len(txns),
		"decision", string(decision.Kind()),
		"candidates", len(decision.Candidates()),
	)
	return parsed, decision, nil
}

func toMatcherTransactions(txns []*storage.Transaction) []matcher.Transaction {
	pool := make([]matcher.Transaction, 0, len(txns))
	for _, t := range txns {
		pool = append(pool, matcher.Transaction{
			ID:       t.ID,
			TenantID: t.TenantID,
			Date:     t.Date,
			Payee:    t.Payee,
			Amount:   t.Amount,
			Category: t.Category,
			Memo:     t.Memo,
		})
	}
	return pool
}
