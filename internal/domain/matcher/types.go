package matcher

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds matcher configuration
type Config struct {
	HighDateDays    int             // Default: 7
	MediumDateDays  int             // Default: 21
	WindowDays      int             // Candidate pool half-width (default: 21)
	AmountTolerance decimal.Decimal // Relative difference for Medium (default: 0.10)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		HighDateDays:    7,
		MediumDateDays:  21,
		WindowDays:      21,
		AmountTolerance: decimal.NewFromFloat(0.10),
	}
}

// Transaction is the read view of a recorded transaction the engine scores.
type Transaction struct {
	ID       string
	TenantID string
	Date     time.Time
	Payee    string
	Amount   decimal.Decimal // Signed
	Category string
	Memo     string
}

// ParsedFilename is what a receipt filename tells us about its transaction.
// Empty strings and nil pointers mean the filename did not carry that field.
type ParsedFilename struct {
	Date     *time.Time
	Amount   *decimal.Decimal // Absolute value
	Payee    string
	Category string // Colon-separated path, e.g. "Food:Groceries"
	Memo     string
}

// HasDate reports whether the filename carried a usable date.
func (p ParsedFilename) HasDate() bool { return p.Date != nil }

// Score is the per-criterion match level.
type Score int

const (
	NoMatch Score = iota
	Medium
	High
)

func (s Score) String() string {
	switch s {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "no_match"
	}
}

// Confidence is the overall, coarse match level shown to the presentation layer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceNone   Confidence = "none"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// CriterionScores holds the three independent axis scores for one candidate.
type CriterionScores struct {
	Date   Score
	Amount Score
	Payee  Score
}

// MatchCandidate is a transaction scored against a parsed filename.
type MatchCandidate struct {
	Transaction Transaction
	Scores      CriterionScores
	Confidence  Confidence

	// Tie-break keys. AmountDiff is nil when the filename had no amount.
	DateDistance int
	AmountDiff   *decimal.Decimal
}
