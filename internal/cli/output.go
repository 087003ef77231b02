package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/receipt-inbox/internal/application/service"
	"github.com/eshaffer321/receipt-inbox/internal/domain/matcher"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

const dateLayout = "2006-01-02"

// PrintEvaluation prints what a filename parsed to and the resulting decision.
func PrintEvaluation(w io.Writer, eval *service.Evaluation) {
	fmt.Fprintf(w, "File: %s\n", eval.Filename)
	printParsed(w, eval.Parsed)
	printDecision(w, eval.Decision)
}

// PrintInbox prints every pending receipt with its decision.
func PrintInbox(w io.Writer, pending []service.PendingReceipt) {
	if len(pending) == 0 {
		fmt.Fprintln(w, "Inbox is empty")
		return
	}

	counts := map[matcher.DecisionKind]int{}
	for i, p := range pending {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s (uploaded %s)\n", p.Receipt.ID, p.Receipt.Filename, p.Receipt.UploadedAt.Format(dateLayout))
		printDecision(w, p.Decision)
		counts[p.Decision.Kind()]++
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Pending=%d AutoMatch=%d Review=%d NoAction=%d\n",
		len(pending),
		counts[matcher.KindAutoMatch],
		counts[matcher.KindAssignForReview],
		counts[matcher.KindNoAction])
}

// PrintApplyResult prints the outcome of committing auto-matches.
func PrintApplyResult(w io.Writer, result *service.ApplyResult) {
	for _, c := range result.Committed {
		fmt.Fprintf(w, "matched %s -> %s (%s %s)\n",
			c.Receipt.ID, c.Transaction.ID, c.Transaction.Payee, c.Transaction.Amount.StringFixed(2))
	}
	for _, id := range result.Conflicts {
		fmt.Fprintf(w, "conflict %s: already matched elsewhere, left in inbox\n", id)
	}
	fmt.Fprintf(w, "Summary: Matched=%d Conflicts=%d Skipped=%d\n",
		len(result.Committed), len(result.Conflicts), result.Skipped)
}

// PrintCommit prints a single successful commit.
func PrintCommit(w io.Writer, result *storage.AttachResult) {
	txn := result.Transaction
	fmt.Fprintf(w, "matched %s -> %s\n", result.Receipt.ID, txn.ID)
	fmt.Fprintf(w, "  %s  %-24s %10s  category=%q memo=%q\n",
		txn.Date.Format(dateLayout), txn.Payee, txn.Amount.StringFixed(2), txn.Category, txn.Memo)
}

// PrintStats prints inbox counts.
func PrintStats(w io.Writer, stats *storage.Stats) {
	fmt.Fprintf(w, "Receipts: %d (matched %d, pending %d) | Transactions: %d\n",
		stats.TotalReceipts, stats.MatchedReceipts, stats.UnmatchedReceipts, stats.Transactions)
}

func printParsed(w io.Writer, p matcher.ParsedFilename) {
	var parts []string
	if p.Date != nil {
		parts = append(parts, "date="+p.Date.Format(dateLayout))
	}
	if p.Amount != nil {
		parts = append(parts, "amount="+p.Amount.StringFixed(2))
	}
	if p.Payee != "" {
		parts = append(parts, fmt.Sprintf("payee=%q", p.Payee))
	}
	if p.Category != "" {
		parts = append(parts, "category="+p.Category)
	}
	if p.Memo != "" {
		parts = append(parts, fmt.Sprintf("memo=%q", p.Memo))
	}
	if len(parts) == 0 {
		parts = append(parts, "(nothing recognised)")
	}
	fmt.Fprintf(w, "Parsed: %s\n", strings.Join(parts, " "))
}

func printDecision(w io.Writer, d matcher.Decision) {
	switch d := d.(type) {
	case matcher.AutoMatch:
		fmt.Fprintln(w, "Decision: auto-match")
	case matcher.AssignForReview:
		fmt.Fprintf(w, "Decision: review (%d candidates)\n", len(d.Ordered))
	default:
		fmt.Fprintln(w, "Decision: no action")
		return
	}

	for i, c := range d.Candidates() {
		tx := c.Transaction
		fmt.Fprintf(w, "  %d. [%-6s] %s  %-24s %10s  %s\n",
			i+1, c.Confidence, tx.Date.Format(dateLayout), tx.Payee, tx.Amount.StringFixed(2), tx.ID)
	}
}
