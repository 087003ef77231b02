package matcher

// DecisionKind names the outcome handed to the presentation layer.
type DecisionKind string

const (
	KindAutoMatch       DecisionKind = "auto_match"
	KindAssignForReview DecisionKind = "assign_for_review"
	KindNoAction        DecisionKind = "no_action"
)

// Decision is one of AutoMatch, AssignForReview or NoAction.
// Switch on the concrete type to read the payload.
type Decision interface {
	Kind() DecisionKind
	// Candidates returns the ordered candidates behind the decision, if any.
	Candidates() []MatchCandidate
	isDecision()
}

// AutoMatch means exactly one candidate reached High confidence.
type AutoMatch struct {
	Candidate MatchCandidate
}

// AssignForReview means a human has to pick from the ordered candidates.
type AssignForReview struct {
	Ordered []MatchCandidate
}

// NoAction means nothing plausible was found, or the receipt could not be scored.
type NoAction struct{}

func (AutoMatch) Kind() DecisionKind       { return KindAutoMatch }
func (AssignForReview) Kind() DecisionKind { return KindAssignForReview }
func (NoAction) Kind() DecisionKind        { return KindNoAction }

func (d AutoMatch) Candidates() []MatchCandidate       { return []MatchCandidate{d.Candidate} }
func (d AssignForReview) Candidates() []MatchCandidate { return d.Ordered }
func (NoAction) Candidates() []MatchCandidate          { return nil }

func (AutoMatch) isDecision()       {}
func (AssignForReview) isDecision() {}
func (NoAction) isDecision()        {}

// Decide turns an ordered candidate list into a decision. Auto-matching needs
// exactly one High candidate; Medium candidates alongside it do not block it,
// but a second High candidate forces review.
func (m *Matcher) Decide(candidates []MatchCandidate) Decision {
	if len(candidates) == 0 {
		return NoAction{}
	}

	highs := 0
	var high MatchCandidate
	for _, c := range candidates {
		if c.Confidence == ConfidenceHigh {
			highs++
			high = c
		}
	}
	if highs == 1 {
		return AutoMatch{Candidate: high}
	}
	return AssignForReview{Ordered: candidates}
}
