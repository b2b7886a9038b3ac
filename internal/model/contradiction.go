package model

// Severity grades how serious a finding is. Bands are monotonic: a higher
// numeric deviation never maps to a lower severity.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for sorting and penalty lookup (critical highest).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Resolution suggests how a contradiction should be settled downstream.
type Resolution string

const (
	ResolutionUseOfficialSource Resolution = "use-official-source" // One side cites an official/regulatory source
	ResolutionInvestigate       Resolution = "investigate"         // Needs manual follow-up
	ResolutionAverage           Resolution = "average"             // Values close enough to blend
	ResolutionFlagForReview     Resolution = "flag-for-review"     // Surface to a human reviewer
)

// DetectionMethod records which rule path produced a contradiction.
type DetectionMethod string

const (
	MethodNumeric  DetectionMethod = "numeric"  // Relative-deviation rule on comparable quantities
	MethodSemantic DetectionMethod = "semantic" // External judge verdict on claim text
)

// Contradiction is a detected disagreement between two facts about the same
// measurable topic, from different source agents.
type Contradiction struct {
	ID           string          `json:"id"`                      // Stable identifier for diagnostics
	Topic        string          `json:"topic"`                   // Topic bucket the pair shares
	Severity     Severity        `json:"severity"`                // Band derived from deviation or judge confidence
	FactA        Fact            `json:"fact_a"`                  // First conflicting fact
	FactB        Fact            `json:"fact_b"`                  // Second conflicting fact
	DeviationPct float64         `json:"deviation_pct,omitempty"` // Relative deviation in percent (numeric path only)
	Method       DetectionMethod `json:"method"`                  // Which rule path fired
	Explanation  string          `json:"explanation"`             // Human-readable account of the disagreement
	Resolution   Resolution      `json:"resolution,omitempty"`    // Suggested settlement strategy
}

// ContradictionReport summarizes one detection pass over a pooled fact list.
type ContradictionReport struct {
	Contradictions   []Contradiction  `json:"contradictions"`
	CountsBySeverity map[Severity]int `json:"counts_by_severity"`
	FactsAnalyzed    int              `json:"facts_analyzed"`
	PairsCompared    int              `json:"pairs_compared"`
	JudgeCalls       int              `json:"judge_calls,omitempty"` // Semantic judge invocations used
}

// Count returns how many contradictions carry the given severity.
func (r *ContradictionReport) Count(s Severity) int {
	if r == nil || r.CountsBySeverity == nil {
		return 0
	}
	return r.CountsBySeverity[s]
}

// Total returns the number of contradictions in the report.
func (r *ContradictionReport) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Contradictions)
}
