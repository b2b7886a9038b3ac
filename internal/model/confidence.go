package model

// ConfidenceFactors are the six independent signals behind one confidence
// score. Every factor is normalized to [0,1] before weighting.
type ConfidenceFactors struct {
	SourceCount       float64 `json:"source_count"`       // Diminishing-returns credit for independent sources
	SourceAgreement   float64 `json:"source_agreement"`   // Do sources state the same value
	SourceAuthority   float64 `json:"source_authority"`   // Domain-tier weight of the sources
	Recency           float64 `json:"recency"`            // Freshness of the most recent dated source
	Specificity       float64 `json:"specificity"`        // Numeric values and explicit years in the claim
	LanguageCertainty float64 `json:"language_certainty"` // Hedging vs assertive wording
}

// ConfidenceLevel is the five-level band a confidence score falls into.
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very-high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceVeryLow  ConfidenceLevel = "very-low"
)

// ConfidenceDistribution summarizes per-fact confidence over one evaluation.
type ConfidenceDistribution struct {
	Counts map[ConfidenceLevel]int `json:"counts"` // Facts per band
	Mean   float64                 `json:"mean"`   // Mean confidence across facts
}
