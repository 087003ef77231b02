// Package matcher decides which recorded transactions a receipt belongs to,
// using nothing but the receipt's filename.
//
// A filename like "2024-01-15 Costco Food-Groceries $25.00 (weekly run).pdf"
// is parsed into a date, payee, category, amount and memo. Each candidate
// transaction is scored on date, amount and payee independently, and the
// three scores are reduced to a coarse High/Medium/None confidence:
//   - Date: High within 7 days, Medium within 21
//   - Amount: High when equal in absolute value, Medium within 10%
//   - Payee: High when the filename payee is a substring of the payee
//
// A missing field always scores NoMatch for its criterion, so only a filename
// carrying all three can ever produce High confidence.
//
// Example usage:
//
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	parsed := matcher.ParseFilename(receipt.Filename, time.Now())
//	start, end, ok := m.Window(parsed)
//	// ... load the tenant's transactions between start and end ...
//	decision := m.Decide(m.SelectCandidates(parsed, pool))
//
// Everything here is pure: the same inputs always give the same decision,
// and nothing is cached between calls.
package matcher

import (
	"sort"
	"time"
)

// Matcher scores receipts against transactions
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config. A window narrower
// than the Medium date band is widened so no Medium match is dropped.
func NewMatcher(config Config) *Matcher {
	if config.WindowDays < config.MediumDateDays {
		config.WindowDays = config.MediumDateDays
	}
	return &Matcher{
		config: config,
	}
}

// Config returns the effective configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// Window returns the inclusive date range a transaction must fall in to be
// considered at all. ok is false when the filename has no date, in which case
// the receipt is not scored.
func (m *Matcher) Window(parsed ParsedFilename) (start, end time.Time, ok bool) {
	if parsed.Date == nil {
		return time.Time{}, time.Time{}, false
	}
	center := DateOf(*parsed.Date)
	return center.AddDate(0, 0, -m.config.WindowDays), center.AddDate(0, 0, m.config.WindowDays), true
}

// SelectCandidates scores the pool and returns every candidate with at least
// Medium confidence, best first. Ties are broken by smaller date distance,
// then smaller amount difference, then pool order.
func (m *Matcher) SelectCandidates(parsed ParsedFilename, pool []Transaction) []MatchCandidate {
	if parsed.Date == nil {
		return nil
	}

	candidates := make([]MatchCandidate, 0, len(pool))
	for _, tx := range pool {
		if abs(DaysBetween(*parsed.Date, tx.Date)) > m.config.WindowDays {
			continue
		}
		candidate := m.Evaluate(parsed, tx)
		if candidate.Confidence == ConfidenceNone {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence.rank() > b.Confidence.rank()
		}
		if a.DateDistance != b.DateDistance {
			return a.DateDistance < b.DateDistance
		}
		return compareAmountDiff(a.AmountDiff, b.AmountDiff) < 0
	})

	return candidates
}

// Match runs selection and decision in one step.
func (m *Matcher) Match(parsed ParsedFilename, pool []Transaction) Decision {
	return m.Decide(m.SelectCandidates(parsed, pool))
}
