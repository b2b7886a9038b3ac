package model

import "time"

// GroundTruthData is one authoritative snapshot for a subject: a flat map of
// named numeric fields. Fetched per subject, cached briefly within one
// research run, never persisted.
type GroundTruthData struct {
	Provider   string             `json:"provider"`             // Data provider name
	Subject    string             `json:"subject"`              // Subject identifier the fetch used
	FetchedAt  time.Time          `json:"fetched_at"`           // When the snapshot was taken
	Fields     map[string]float64 `json:"fields"`               // Named numeric fields; individual fields may be absent
	Confidence float64            `json:"confidence,omitempty"` // Provider's own confidence (0-1)
}

// Field returns a named value and whether the provider supplied it.
func (g *GroundTruthData) Field(name string) (float64, bool) {
	if g == nil || g.Fields == nil {
		return 0, false
	}
	v, ok := g.Fields[name]
	return v, ok
}

// ValidationOutcome classifies one claim-versus-authority comparison.
type ValidationOutcome string

const (
	OutcomeVerified     ValidationOutcome = "verified"     // Within field tolerance
	OutcomeApproximate  ValidationOutcome = "approximate"  // Within twice the tolerance
	OutcomeContradicted ValidationOutcome = "contradicted" // Beyond twice the tolerance
	OutcomeUnverifiable ValidationOutcome = "unverifiable" // No authoritative value available
)

// ValidationReport records one claim checked against ground truth.
type ValidationReport struct {
	Field          string            `json:"field"`                   // Registry field name
	Agent          string            `json:"agent,omitempty"`         // Agent whose text carried the claim
	Claimed        float64           `json:"claimed"`                 // Value stated in the analysis
	Authoritative  float64           `json:"authoritative,omitempty"` // Provider value, zero when unverifiable
	Outcome        ValidationOutcome `json:"outcome"`
	DeviationPct   float64           `json:"deviation_pct,omitempty"` // Deviation relative to the authoritative value
	Recommendation string            `json:"recommendation,omitempty"`
}

// ValidationSummary aggregates all ground-truth comparisons of one
// evaluation. Statement always spells out how many claims could be checked
// so a score built on sparse evidence is not over-trusted.
type ValidationSummary struct {
	Provider     string                    `json:"provider,omitempty"` // Empty when no provider was configured
	Reports      []ValidationReport        `json:"reports"`
	Counts       map[ValidationOutcome]int `json:"counts"`
	TotalClaims  int                       `json:"total_claims"`
	Verified     int                       `json:"verified"`
	Score        float64                   `json:"score"` // 0-100 aggregate validation score
	Statement    string                    `json:"statement"`
	TruthFetched bool                      `json:"truth_fetched"` // False when the fetch failed or was skipped
}

// Count returns how many comparisons ended in the given outcome.
func (s *ValidationSummary) Count(o ValidationOutcome) int {
	if s == nil || s.Counts == nil {
		return 0
	}
	return s.Counts[o]
}
