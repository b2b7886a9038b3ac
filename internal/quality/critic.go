package quality

import (
	"fmt"
	"sort"
	"time"

	"github.com/credenceproj/credence/internal/model"
)

// maxKeyGaps bounds the highlighted gap list; the full set stays in the
// report body.
const maxKeyGaps = 5

// Input carries everything the upstream stages produced for one
// evaluation. Contradictions and Validation may be nil when the stage
// did not run.
type Input struct {
	Subject        string
	Facts          []model.Fact
	Confidence     model.ConfidenceDistribution
	Contradictions *model.ContradictionReport
	Gaps           []model.ResearchGap
	Coverage       []model.SectionCoverage
	Validation     *model.ValidationSummary
}

// Critic folds the stage outputs into the overall verdict.
type Critic struct {
	cfg model.QualityConfig
}

// NewCritic builds a critic over the aggregation policy. Zero ceiling and
// threshold fall back to the calibrated defaults so a partially filled
// config cannot make every run pass.
func NewCritic(cfg model.QualityConfig) *Critic {
	if cfg.FactCeiling <= 0 {
		cfg.FactCeiling = 50
	}
	if cfg.PassThreshold <= 0 {
		cfg.PassThreshold = 85
	}
	return &Critic{cfg: cfg}
}

// Assess produces the quality report for one evaluation.
func (c *Critic) Assess(in Input) *model.QualityReport {
	sub := model.SubScores{
		Facts:          c.factScore(len(in.Facts)),
		Contradictions: c.contradictionScore(in.Contradictions),
		Gaps:           c.gapScore(in.Gaps),
		Confidence:     c.confidenceScore(in.Confidence),
	}

	w := c.cfg.Weights
	overall := sub.Facts*w.Facts +
		sub.Contradictions*w.Contradictions +
		sub.Gaps*w.Gaps +
		sub.Confidence*w.Confidence

	pass := overall >= c.cfg.PassThreshold

	report := &model.QualityReport{
		Subject:         in.Subject,
		EvaluatedAt:     time.Now().UTC(),
		OverallScore:    overall,
		Level:           levelFor(overall),
		Pass:            pass,
		IterationNeeded: !pass,
		SubScores:       sub,
		SectionScores:   sectionScores(in.Coverage),
		FailingSections: c.failingSections(in.Coverage),
		FactCount:       len(in.Facts),
		Confidence:      in.Confidence,
		Contradictions:  in.Contradictions,
		Gaps:            in.Gaps,
		Validation:      in.Validation,
		KeyGaps:         keyGaps(in.Gaps),
		CriticalIssues:  criticalIssues(in),
		Recommendations: c.recommendations(in, sub),
	}

	return report
}

// factScore gives saturating credit for fact volume.
func (c *Critic) factScore(count int) float64 {
	ratio := float64(count) / float64(c.cfg.FactCeiling)
	if ratio > 1 {
		ratio = 1
	}
	return ratio * 100
}

// contradictionScore starts at 100 and subtracts a penalty per detected
// contradiction, weighted by severity.
func (c *Critic) contradictionScore(report *model.ContradictionReport) float64 {
	p := c.cfg.ContradictionPenalty
	score := 100 -
		float64(report.Count(model.SeverityCritical))*p.Critical -
		float64(report.Count(model.SeverityHigh))*p.High -
		float64(report.Count(model.SeverityMedium))*p.Medium -
		float64(report.Count(model.SeverityLow))*p.Low
	if score < 0 {
		score = 0
	}
	return score
}

// gapScore penalizes each coverage gap by severity.
func (c *Critic) gapScore(gaps []model.ResearchGap) float64 {
	score := 100.0
	for _, g := range gaps {
		switch g.Severity {
		case model.SeverityCritical, model.SeverityHigh:
			score -= c.cfg.GapPenalty.High
		case model.SeverityMedium:
			score -= c.cfg.GapPenalty.Medium
		default:
			score -= c.cfg.GapPenalty.Low
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// confidenceScore scales the mean per-fact confidence, docking a flat
// penalty when too large a share of facts sits in the low bands.
func (c *Critic) confidenceScore(dist model.ConfidenceDistribution) float64 {
	score := dist.Mean * 100

	total := 0
	for _, n := range dist.Counts {
		total += n
	}
	if total > 0 {
		low := dist.Counts[model.ConfidenceLow] + dist.Counts[model.ConfidenceVeryLow]
		if float64(low)/float64(total) > c.cfg.LowConfidenceShare {
			score -= c.cfg.LowConfidencePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

func levelFor(score float64) model.QualityLevel {
	switch {
	case score >= 90:
		return model.LevelExcellent
	case score >= 80:
		return model.LevelGood
	case score >= 70:
		return model.LevelAdequate
	case score >= 55:
		return model.LevelWeak
	default:
		return model.LevelPoor
	}
}

func sectionScores(coverage []model.SectionCoverage) map[string]float64 {
	scores := make(map[string]float64, len(coverage))
	for _, sc := range coverage {
		scores[sc.Section] = sc.Score
	}
	return scores
}

func (c *Critic) failingSections(coverage []model.SectionCoverage) []string {
	var failing []string
	for _, sc := range coverage {
		if sc.Score < c.cfg.FailingSectionCutoff {
			failing = append(failing, sc.Section)
		}
	}
	return failing
}

// keyGaps picks the most severe gaps for the report headline, keeping
// taxonomy order within a severity band.
func keyGaps(gaps []model.ResearchGap) []string {
	ordered := make([]model.ResearchGap, len(gaps))
	copy(ordered, gaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Rank() > ordered[j].Severity.Rank()
	})

	if len(ordered) > maxKeyGaps {
		ordered = ordered[:maxKeyGaps]
	}

	var key []string
	for _, g := range ordered {
		key = append(key, g.Recommendation)
	}
	return key
}

// criticalIssues lists the findings that must block acceptance regardless
// of the weighted score.
func criticalIssues(in Input) []string {
	var issues []string

	if len(in.Facts) == 0 {
		issues = append(issues, "No facts were extracted from the research")
	}

	if in.Contradictions != nil {
		for _, con := range in.Contradictions.Contradictions {
			if con.Severity == model.SeverityCritical {
				issues = append(issues, fmt.Sprintf("Critical contradiction about %s: %s", con.Topic, con.Explanation))
			}
		}
	}

	if in.Validation != nil {
		for _, r := range in.Validation.Reports {
			if r.Outcome == model.OutcomeContradicted {
				issues = append(issues, fmt.Sprintf("Authoritative data contradicts the claimed %s (%.1f%% off)", r.Field, r.DeviationPct))
			}
		}
	}

	return issues
}

// recommendations names what the next research round should improve, one
// line per lagging sub-score.
func (c *Critic) recommendations(in Input, sub model.SubScores) []string {
	const lagging = 70

	var recs []string

	if sub.Facts < lagging {
		recs = append(recs, fmt.Sprintf("Expand research volume: %d facts captured, %d earn full credit", len(in.Facts), c.cfg.FactCeiling))
	}
	if sub.Contradictions < lagging {
		recs = append(recs, fmt.Sprintf("Resolve the %d contradictions between agents, most severe first", in.Contradictions.Total()))
	}
	if sub.Gaps < lagging {
		recs = append(recs, fmt.Sprintf("Close the %d coverage gaps, starting with high severity", len(in.Gaps)))
	}
	if sub.Confidence < lagging {
		recs = append(recs, fmt.Sprintf("Strengthen sourcing: average fact confidence is %.0f%%", in.Confidence.Mean*100))
	}

	if v := in.Validation; v != nil && v.TotalClaims > 0 && 2*v.Count(model.OutcomeUnverifiable) > v.TotalClaims {
		recs = append(recs, v.Statement)
	}

	return recs
}
