package quality

import (
	"math"
	"strings"
	"testing"

	"github.com/credenceproj/credence/internal/model"
)

func newTestCritic() *Critic {
	return NewCritic(model.DefaultConfig().Quality)
}

func factList(n int) []model.Fact {
	facts := make([]model.Fact, n)
	for i := range facts {
		facts[i] = model.Fact{
			Agent:    "financial_agent",
			Content:  "Revenue was $1.5 billion.",
			Category: model.CategoryFinancial,
			Type:     model.ClaimNumerical,
		}
	}
	return facts
}

func contradictionReport(counts map[model.Severity]int) *model.ContradictionReport {
	report := &model.ContradictionReport{CountsBySeverity: counts}
	for severity, n := range counts {
		for i := 0; i < n; i++ {
			report.Contradictions = append(report.Contradictions, model.Contradiction{
				Topic:       "revenue",
				Severity:    severity,
				Explanation: "agents disagree on the figure",
			})
		}
	}
	return report
}

func TestCritic_CleanResearchPasses(t *testing.T) {
	in := Input{
		Subject: "Apple Inc",
		Facts:   factList(50),
		Confidence: model.ConfidenceDistribution{
			Counts: map[model.ConfidenceLevel]int{model.ConfidenceHigh: 50},
			Mean:   0.85,
		},
	}

	report := newTestCritic().Assess(in)

	// 0.25*100 + 0.30*100 + 0.25*100 + 0.20*85 = 97
	if math.Abs(report.OverallScore-97) > 0.01 {
		t.Errorf("OverallScore = %.2f, want 97", report.OverallScore)
	}
	if !report.Pass {
		t.Error("clean research did not pass")
	}
	if report.IterationNeeded {
		t.Error("IterationNeeded = true for a passing report")
	}
	if report.Level != model.LevelExcellent {
		t.Errorf("Level = %s, want excellent", report.Level)
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("unexpected recommendations: %v", report.Recommendations)
	}
	if len(report.CriticalIssues) != 0 {
		t.Errorf("unexpected critical issues: %v", report.CriticalIssues)
	}
	if report.FactCount != 50 {
		t.Errorf("FactCount = %d, want 50", report.FactCount)
	}
}

func TestCritic_FactScoreSaturates(t *testing.T) {
	cases := []struct {
		desc  string
		facts int
		want  float64
	}{
		{desc: "empty", facts: 0, want: 0},
		{desc: "half the ceiling", facts: 25, want: 50},
		{desc: "at the ceiling", facts: 50, want: 100},
		{desc: "beyond the ceiling", facts: 80, want: 100},
	}

	for _, tc := range cases {
		report := newTestCritic().Assess(Input{Facts: factList(tc.facts)})
		if got := report.SubScores.Facts; math.Abs(got-tc.want) > 0.01 {
			t.Errorf("%s: fact score = %.2f, want %.2f", tc.desc, got, tc.want)
		}
	}
}

func TestCritic_ContradictionScore(t *testing.T) {
	cases := []struct {
		desc   string
		counts map[model.Severity]int
		want   float64
	}{
		{desc: "no contradictions", counts: nil, want: 100},
		{
			desc: "mixed severities",
			counts: map[model.Severity]int{
				model.SeverityCritical: 1,
				model.SeverityHigh:     2,
				model.SeverityMedium:   3,
				model.SeverityLow:      4,
			},
			want: 63, // 100 - 12 - 12 - 9 - 4
		},
		{
			desc:   "penalties floor at zero",
			counts: map[model.Severity]int{model.SeverityCritical: 10},
			want:   0,
		},
	}

	for _, tc := range cases {
		var report *model.ContradictionReport
		if tc.counts != nil {
			report = contradictionReport(tc.counts)
		}
		got := newTestCritic().Assess(Input{Contradictions: report}).SubScores.Contradictions
		if math.Abs(got-tc.want) > 0.01 {
			t.Errorf("%s: contradiction score = %.2f, want %.2f", tc.desc, got, tc.want)
		}
	}
}

func TestCritic_GapScore(t *testing.T) {
	gaps := []model.ResearchGap{
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityLow},
	}

	got := newTestCritic().Assess(Input{Gaps: gaps}).SubScores.Gaps
	if want := 58.0; math.Abs(got-want) > 0.01 { // 100 - 30 - 10 - 2
		t.Errorf("gap score = %.2f, want %.2f", got, want)
	}

	many := make([]model.ResearchGap, 15)
	for i := range many {
		many[i] = model.ResearchGap{Severity: model.SeverityHigh}
	}
	if got := newTestCritic().Assess(Input{Gaps: many}).SubScores.Gaps; got != 0 {
		t.Errorf("gap score = %.2f, want 0 floor", got)
	}
}

func TestCritic_ConfidenceScore(t *testing.T) {
	cases := []struct {
		desc string
		dist model.ConfidenceDistribution
		want float64
	}{
		{
			desc: "no low-band penalty at exactly the share",
			dist: model.ConfidenceDistribution{
				Counts: map[model.ConfidenceLevel]int{
					model.ConfidenceHigh: 3,
					model.ConfidenceLow:  1,
				},
				Mean: 0.80,
			},
			want: 80,
		},
		{
			desc: "penalty above the share",
			dist: model.ConfidenceDistribution{
				Counts: map[model.ConfidenceLevel]int{
					model.ConfidenceHigh:    2,
					model.ConfidenceLow:     1,
					model.ConfidenceVeryLow: 1,
				},
				Mean: 0.80,
			},
			want: 70,
		},
		{
			desc: "floors at zero",
			dist: model.ConfidenceDistribution{
				Counts: map[model.ConfidenceLevel]int{model.ConfidenceVeryLow: 4},
				Mean:   0.05,
			},
			want: 0,
		},
	}

	for _, tc := range cases {
		got := newTestCritic().Assess(Input{Confidence: tc.dist}).SubScores.Confidence
		if math.Abs(got-tc.want) > 0.01 {
			t.Errorf("%s: confidence score = %.2f, want %.2f", tc.desc, got, tc.want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score float64
		want  model.QualityLevel
	}{
		{score: 95, want: model.LevelExcellent},
		{score: 90, want: model.LevelExcellent},
		{score: 85, want: model.LevelGood},
		{score: 80, want: model.LevelGood},
		{score: 75, want: model.LevelAdequate},
		{score: 70, want: model.LevelAdequate},
		{score: 60, want: model.LevelWeak},
		{score: 55, want: model.LevelWeak},
		{score: 54.9, want: model.LevelPoor},
		{score: 0, want: model.LevelPoor},
	}

	for _, tc := range cases {
		if got := levelFor(tc.score); got != tc.want {
			t.Errorf("levelFor(%.1f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestCritic_FailingSections(t *testing.T) {
	coverage := []model.SectionCoverage{
		{Section: "company_overview", Score: 45},
		{Section: "financial", Score: 60},
		{Section: "market", Score: 59.9},
		{Section: "product", Score: 100},
	}

	report := newTestCritic().Assess(Input{Coverage: coverage})

	want := []string{"company_overview", "market"}
	if len(report.FailingSections) != len(want) {
		t.Fatalf("FailingSections = %v, want %v", report.FailingSections, want)
	}
	for i, section := range want {
		if report.FailingSections[i] != section {
			t.Errorf("FailingSections[%d] = %s, want %s", i, report.FailingSections[i], section)
		}
	}
	if got := report.SectionScores["market"]; got != 59.9 {
		t.Errorf("SectionScores[market] = %.1f, want 59.9", got)
	}
}

func TestCritic_KeyGapsCappedBySeverity(t *testing.T) {
	gaps := []model.ResearchGap{
		{Severity: model.SeverityLow, Recommendation: "g0"},
		{Severity: model.SeverityHigh, Recommendation: "g1"},
		{Severity: model.SeverityMedium, Recommendation: "g2"},
		{Severity: model.SeverityHigh, Recommendation: "g3"},
		{Severity: model.SeverityLow, Recommendation: "g4"},
		{Severity: model.SeverityMedium, Recommendation: "g5"},
		{Severity: model.SeverityHigh, Recommendation: "g6"},
	}

	report := newTestCritic().Assess(Input{Gaps: gaps})

	want := []string{"g1", "g3", "g6", "g2", "g5"}
	if len(report.KeyGaps) != len(want) {
		t.Fatalf("KeyGaps = %v, want %v", report.KeyGaps, want)
	}
	for i, rec := range want {
		if report.KeyGaps[i] != rec {
			t.Errorf("KeyGaps[%d] = %s, want %s", i, report.KeyGaps[i], rec)
		}
	}
}

func TestCritic_CriticalIssues(t *testing.T) {
	in := Input{
		Contradictions: contradictionReport(map[model.Severity]int{model.SeverityCritical: 1}),
		Validation: &model.ValidationSummary{
			TotalClaims: 1,
			Reports: []model.ValidationReport{
				{Field: "market_cap", Outcome: model.OutcomeContradicted, DeviationPct: 20},
			},
			Counts: map[model.ValidationOutcome]int{model.OutcomeContradicted: 1},
		},
	}

	report := newTestCritic().Assess(in)

	if len(report.CriticalIssues) != 3 {
		t.Fatalf("CriticalIssues = %v, want 3 entries", report.CriticalIssues)
	}
	if !strings.Contains(report.CriticalIssues[0], "No facts") {
		t.Errorf("first issue %q should flag empty research", report.CriticalIssues[0])
	}
	if !strings.Contains(report.CriticalIssues[1], "Critical contradiction about revenue") {
		t.Errorf("second issue %q should name the contradiction topic", report.CriticalIssues[1])
	}
	if !strings.Contains(report.CriticalIssues[2], "market_cap") {
		t.Errorf("third issue %q should name the contradicted field", report.CriticalIssues[2])
	}
}

func TestCritic_RecommendationsFollowShortfalls(t *testing.T) {
	in := Input{
		Facts: factList(5),
		Confidence: model.ConfidenceDistribution{
			Counts: map[model.ConfidenceLevel]int{model.ConfidenceVeryLow: 5},
			Mean:   0.30,
		},
		Contradictions: contradictionReport(map[model.Severity]int{model.SeverityCritical: 4}),
		Gaps: []model.ResearchGap{
			{Severity: model.SeverityHigh}, {Severity: model.SeverityHigh},
			{Severity: model.SeverityHigh}, {Severity: model.SeverityHigh},
		},
	}

	report := newTestCritic().Assess(in)

	if report.Pass {
		t.Error("weak research passed")
	}
	if !report.IterationNeeded {
		t.Error("IterationNeeded = false for a failing report")
	}
	if len(report.Recommendations) != 4 {
		t.Fatalf("Recommendations = %v, want one per lagging sub-score", report.Recommendations)
	}
	checks := []string{"Expand research volume", "Resolve the 4 contradictions", "Close the 4 coverage gaps", "Strengthen sourcing"}
	for i, fragment := range checks {
		if !strings.Contains(report.Recommendations[i], fragment) {
			t.Errorf("Recommendations[%d] = %q, want mention of %q", i, report.Recommendations[i], fragment)
		}
	}
}

func TestCritic_SparseValidationStatementSurfaces(t *testing.T) {
	statement := "Verified 1 of 3 claims (0 approximate, 0 contradicted, 2 unverifiable). Most claims could not be checked against the source."
	in := Input{
		Facts: factList(50),
		Confidence: model.ConfidenceDistribution{
			Counts: map[model.ConfidenceLevel]int{model.ConfidenceHigh: 50},
			Mean:   0.85,
		},
		Validation: &model.ValidationSummary{
			TotalClaims: 3,
			Verified:    1,
			Counts: map[model.ValidationOutcome]int{
				model.OutcomeVerified:     1,
				model.OutcomeUnverifiable: 2,
			},
			Statement:    statement,
			TruthFetched: true,
		},
	}

	report := newTestCritic().Assess(in)

	found := false
	for _, rec := range report.Recommendations {
		if rec == statement {
			found = true
		}
	}
	if !found {
		t.Errorf("Recommendations %v should carry the validation statement", report.Recommendations)
	}

	// Half or fewer unverifiable: statement stays out of the headline.
	in.Validation.Counts[model.OutcomeUnverifiable] = 1
	report = newTestCritic().Assess(in)
	for _, rec := range report.Recommendations {
		if rec == statement {
			t.Error("statement surfaced although most claims were checked")
		}
	}
}

func TestNewCritic_ZeroConfigDefaults(t *testing.T) {
	cfg := model.DefaultConfig().Quality
	cfg.FactCeiling = 0
	cfg.PassThreshold = 0

	report := NewCritic(cfg).Assess(Input{Facts: factList(50)})

	if report.SubScores.Facts != 100 {
		t.Errorf("fact score = %.2f, want 100 with the default ceiling", report.SubScores.Facts)
	}
	// 0.25*100 + 0.30*100 + 0.25*100 + 0.20*0 = 80, below the default 85.
	if report.Pass {
		t.Error("report passed although the default threshold applies")
	}
}
