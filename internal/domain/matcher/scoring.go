package matcher

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ScoreDate scores the day distance between the filename date and the
// transaction date. A missing filename date is NoMatch.
func (m *Matcher) ScoreDate(parsed ParsedFilename, tx Transaction) Score {
	if parsed.Date == nil {
		return NoMatch
	}
	days := abs(DaysBetween(*parsed.Date, tx.Date))
	switch {
	case days <= m.config.HighDateDays:
		return High
	case days <= m.config.MediumDateDays:
		return Medium
	default:
		return NoMatch
	}
}

// ScoreAmount compares absolute amounts. Medium allows a relative difference,
// measured against the filename amount, up to the configured tolerance.
func (m *Matcher) ScoreAmount(parsed ParsedFilename, tx Transaction) Score {
	if parsed.Amount == nil {
		return NoMatch
	}
	want := parsed.Amount.Abs()
	got := tx.Amount.Abs()

	if want.Equal(got) {
		return High
	}
	if want.IsZero() {
		return NoMatch
	}
	if got.Sub(want).Abs().Div(want).LessThanOrEqual(m.config.AmountTolerance) {
		return Medium
	}
	return NoMatch
}

// ScorePayee is a case-insensitive substring test. There is no Medium tier.
func (m *Matcher) ScorePayee(parsed ParsedFilename, tx Transaction) Score {
	if parsed.Payee == "" {
		return NoMatch
	}
	if strings.Contains(strings.ToLower(tx.Payee), strings.ToLower(parsed.Payee)) {
		return High
	}
	return NoMatch
}

// ScoreCriteria scores one transaction on all three axes.
func (m *Matcher) ScoreCriteria(parsed ParsedFilename, tx Transaction) CriterionScores {
	return CriterionScores{
		Date:   m.ScoreDate(parsed, tx),
		Amount: m.ScoreAmount(parsed, tx),
		Payee:  m.ScorePayee(parsed, tx),
	}
}

// Confidence reduces the three scores: High only when every criterion is
// High, None when fewer than two are Medium or better, Medium otherwise.
func (s CriterionScores) Confidence() Confidence {
	all := []Score{s.Date, s.Amount, s.Payee}

	high, atLeastMedium := 0, 0
	for _, score := range all {
		if score == High {
			high++
		}
		if score >= Medium {
			atLeastMedium++
		}
	}

	switch {
	case high == len(all):
		return ConfidenceHigh
	case atLeastMedium < 2:
		return ConfidenceNone
	default:
		return ConfidenceMedium
	}
}

// Evaluate scores one transaction and fills in the tie-break keys.
func (m *Matcher) Evaluate(parsed ParsedFilename, tx Transaction) MatchCandidate {
	scores := m.ScoreCriteria(parsed, tx)

	candidate := MatchCandidate{
		Transaction: tx,
		Scores:      scores,
		Confidence:  scores.Confidence(),
	}
	if parsed.Date != nil {
		candidate.DateDistance = abs(DaysBetween(*parsed.Date, tx.Date))
	}
	if parsed.Amount != nil {
		diff := tx.Amount.Abs().Sub(parsed.Amount.Abs()).Abs()
		candidate.AmountDiff = &diff
	}
	return candidate
}

// compareAmountDiff orders known differences before unknown ones.
func compareAmountDiff(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Cmp(*b)
	}
}
