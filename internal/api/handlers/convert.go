package handlers

import (
	"time"

	"github.com/eshaffer321/receipt-inbox/internal/api/dto"
	"github.com/eshaffer321/receipt-inbox/internal/application/service"
	"github.com/eshaffer321/receipt-inbox/internal/domain/matcher"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

func toReceiptResponse(r *storage.Receipt) dto.ReceiptResponse {
	resp := dto.ReceiptResponse{
		ID:            r.ID,
		Filename:      r.Filename,
		UploadedAt:    r.UploadedAt.UTC().Format(time.RFC3339),
		TransactionID: r.TransactionID,
	}
	if r.MatchedAt != nil {
		resp.MatchedAt = r.MatchedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toParsedResponse(p matcher.ParsedFilename) dto.ParsedFilenameResponse {
	resp := dto.ParsedFilenameResponse{
		Payee:    p.Payee,
		Category: p.Category,
		Memo:     p.Memo,
	}
	if p.Date != nil {
		resp.Date = p.Date.Format(dto.DateLayout)
	}
	if p.Amount != nil {
		resp.Amount = p.Amount.StringFixed(2)
	}
	return resp
}

func toDecisionResponse(d matcher.Decision) dto.DecisionResponse {
	candidates := d.Candidates()
	resp := dto.DecisionResponse{
		Kind:       string(d.Kind()),
		Candidates: make([]dto.CandidateResponse, 0, len(candidates)),
	}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{
			TransactionID: c.Transaction.ID,
			Date:          c.Transaction.Date.Format(dto.DateLayout),
			Payee:         c.Transaction.Payee,
			Amount:        c.Transaction.Amount.StringFixed(2),
			Category:      c.Transaction.Category,
			Confidence:    string(c.Confidence),
		})
	}
	return resp
}

func toPendingResponse(p service.PendingReceipt) dto.PendingReceiptResponse {
	return dto.PendingReceiptResponse{
		Receipt:  toReceiptResponse(p.Receipt),
		Parsed:   toParsedResponse(p.Parsed),
		Decision: toDecisionResponse(p.Decision),
	}
}

func toTransactionResponse(t *storage.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:       t.ID,
		Date:     t.Date.Format(dto.DateLayout),
		Payee:    t.Payee,
		Amount:   t.Amount.StringFixed(2),
		Category: t.Category,
		Memo:     t.Memo,
	}
}

func toMatchResponse(a *storage.AttachResult) dto.MatchResponse {
	return dto.MatchResponse{
		Receipt:     toReceiptResponse(a.Receipt),
		Transaction: toTransactionResponse(a.Transaction),
	}
}
