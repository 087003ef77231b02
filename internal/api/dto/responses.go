package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`   // "ok" or "degraded"
	Database  string `json:"database"` // "ok" or "unreachable"
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse reports overall health from the store check.
func NewHealthResponse(dbErr error) HealthResponse {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if dbErr != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
	}
	return resp
}

// ReceiptResponse represents a stored receipt.
type ReceiptResponse struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	UploadedAt    string `json:"uploaded_at"`
	TransactionID string `json:"transaction_id,omitempty"`
	MatchedAt     string `json:"matched_at,omitempty"`
}

// ParsedFilenameResponse is what the filename told us. Absent fields are omitted.
type ParsedFilenameResponse struct {
	Date     string `json:"date,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Payee    string `json:"payee,omitempty"`
	Category string `json:"category,omitempty"`
	Memo     string `json:"memo,omitempty"`
}

// CandidateResponse is one transaction the receipt may belong to. Only the
// coarse confidence is exposed.
type CandidateResponse struct {
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	Payee         string `json:"payee"`
	Amount        string `json:"amount"`
	Category      string `json:"category,omitempty"`
	Confidence    string `json:"confidence"`
}

// DecisionResponse is the matcher's verdict for a receipt.
type DecisionResponse struct {
	Kind       string              `json:"kind"` // auto_match, assign_for_review, no_action
	Candidates []CandidateResponse `json:"candidates"`
}

// PendingReceiptResponse is an inbox entry.
type PendingReceiptResponse struct {
	Receipt  ReceiptResponse        `json:"receipt"`
	Parsed   ParsedFilenameResponse `json:"parsed"`
	Decision DecisionResponse       `json:"decision"`
}

// PendingListResponse is returned when listing the inbox.
type PendingListResponse struct {
	Receipts   []PendingReceiptResponse `json:"receipts"`
	TotalCount int                      `json:"total_count"`
}

// TransactionResponse represents a transaction.
type TransactionResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Payee    string `json:"payee"`
	Amount   string `json:"amount"`
	Category string `json:"category,omitempty"`
	Memo     string `json:"memo,omitempty"`
}

// MatchResponse is returned after a successful commit.
type MatchResponse struct {
	Receipt     ReceiptResponse     `json:"receipt"`
	Transaction TransactionResponse `json:"transaction"`
}

// ApplyAutoMatchesResponse summarizes a bulk auto-match run.
type ApplyAutoMatchesResponse struct {
	Matched   []MatchResponse `json:"matched"`
	Conflicts []string        `json:"conflicts"`
	Skipped   int             `json:"skipped"`
}

// StatsResponse represents inbox counts.
type StatsResponse struct {
	TotalReceipts     int `json:"total_receipts"`
	MatchedReceipts   int `json:"matched_receipts"`
	UnmatchedReceipts int `json:"unmatched_receipts"`
	Transactions      int `json:"transactions"`
}
