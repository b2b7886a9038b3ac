package model

import "time"

// QualityReport is the engine's only externally visible contract: one
// overall verdict per research iteration, consumed by the workflow's
// iterate-vs-finish decision step. The engine supplies score, pass flag and
// recommendations; stopping or re-running research belongs to the caller.
type QualityReport struct {
	Subject     string    `json:"subject"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	Elapsed     string    `json:"elapsed,omitempty"` // Wall-clock duration of the evaluation

	OverallScore    float64      `json:"overall_score"` // 0-100
	Level           QualityLevel `json:"level"`
	Pass            bool         `json:"pass"`             // OverallScore >= pass threshold
	IterationNeeded bool         `json:"iteration_needed"` // Inverse of Pass; max-iteration cutoff is the caller's

	SubScores       SubScores          `json:"sub_scores"`
	SectionScores   map[string]float64 `json:"section_scores"`
	FailingSections []string           `json:"failing_sections,omitempty"`

	FactCount      int                    `json:"fact_count"`
	Confidence     ConfidenceDistribution `json:"confidence"`
	Contradictions *ContradictionReport   `json:"contradictions,omitempty"`
	Gaps           []ResearchGap          `json:"gaps,omitempty"`
	Validation     *ValidationSummary     `json:"validation,omitempty"`

	KeyGaps         []string `json:"key_gaps,omitempty"`        // Highest-severity coverage gaps
	CriticalIssues  []string `json:"critical_issues,omitempty"` // Findings that must block acceptance
	Recommendations []string `json:"recommendations,omitempty"` // What the next round should improve
}

// SubScores is the transparent breakdown behind the overall score. Each
// component is 0-100 before weighting.
type SubScores struct {
	Facts          float64 `json:"facts"`          // Saturating credit for fact volume
	Contradictions float64 `json:"contradictions"` // 100 minus severity-weighted penalties
	Gaps           float64 `json:"gaps"`           // 100 minus severity-weighted penalties
	Confidence     float64 `json:"confidence"`     // Derived from the per-fact confidence distribution
}

// QualityLevel is the qualitative band of an overall score.
type QualityLevel string

const (
	LevelExcellent QualityLevel = "excellent" // >= 90
	LevelGood      QualityLevel = "good"      // >= 80
	LevelAdequate  QualityLevel = "adequate"  // >= 70
	LevelWeak      QualityLevel = "weak"      // >= 55
	LevelPoor      QualityLevel = "poor"      // below 55
)
