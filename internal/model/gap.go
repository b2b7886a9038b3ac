package model

// ResearchGap is a required topic or field with insufficient or no
// supporting facts.
type ResearchGap struct {
	ID             string   `json:"id"`              // Stable identifier for diagnostics
	Section        string   `json:"section"`         // Coverage section the gap belongs to
	Field          string   `json:"field,omitempty"` // Missing sub-field; empty for insufficient-coverage gaps
	Severity       Severity `json:"severity"`        // high, medium or low
	Recommendation string   `json:"recommendation"`  // What the next research round should add
}

// SectionCoverage reports how well one taxonomy section is covered.
type SectionCoverage struct {
	Section       string   `json:"section"`
	FactCount     int      `json:"fact_count"`     // Facts matched to this section
	MinFacts      int      `json:"min_facts"`      // Required minimum
	FieldsCovered []string `json:"fields_covered"` // Expected sub-fields mentioned by at least one fact
	FieldsMissing []string `json:"fields_missing"` // Expected sub-fields no fact mentions
	Score         float64  `json:"score"`          // 0-100 coverage score
}
