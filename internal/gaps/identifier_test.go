package gaps

import (
	"math"
	"strings"
	"testing"

	"github.com/credenceproj/credence/internal/model"
)

func fact(content string, category model.Category) model.Fact {
	return model.Fact{
		Agent:    "research_agent",
		Content:  content,
		Category: category,
		Type:     model.ClaimAttributive,
	}
}

// testTaxonomy is a trimmed three-section taxonomy whose arithmetic is
// easy to check by hand.
func testTaxonomy() model.CoverageConfig {
	return model.CoverageConfig{
		WeightTolerance: 0.01,
		HighWeight:      0.20,
		MediumWeight:    0.12,
		Sections: []model.CoverageSection{
			{
				Name:       "financial",
				Weight:     0.25,
				MinFacts:   3,
				Categories: []model.Category{model.CategoryFinancial},
				Fields: []model.CoverageField{
					{Name: "revenue", Keywords: []string{"revenue", "sales"}},
					{Name: "margins", Keywords: []string{"margin"}},
				},
			},
			{
				Name:     "competitive",
				Weight:   0.15,
				MinFacts: 2,
				Keywords: []string{"competitor", "rival"},
				Fields: []model.CoverageField{
					{Name: "competitors", Keywords: []string{"competitor", "rival"}},
					{Name: "risks", Keywords: []string{"risk"}},
				},
			},
			{
				Name:       "leadership",
				Weight:     0.10,
				MinFacts:   1,
				Categories: []model.Category{model.CategoryLeadership},
				Fields: []model.CoverageField{
					{Name: "ceo", Keywords: []string{"ceo"}},
				},
			},
		},
	}
}

func findCoverage(t *testing.T, coverage []model.SectionCoverage, section string) model.SectionCoverage {
	t.Helper()
	for _, sc := range coverage {
		if sc.Section == section {
			return sc
		}
	}
	t.Fatalf("no coverage row for section %q", section)
	return model.SectionCoverage{}
}

func TestIdentifier_BelowMinimumFlagsSection(t *testing.T) {
	facts := []model.Fact{
		fact("Revenue was $10 billion last year.", model.CategoryFinancial),
	}

	gaps, coverage := NewIdentifier(testTaxonomy()).Identify(facts)

	if len(coverage) != 3 {
		t.Fatalf("coverage rows = %d, want 3", len(coverage))
	}

	var insufficient *model.ResearchGap
	for i, g := range gaps {
		if g.Section == "financial" && g.Field == "" {
			insufficient = &gaps[i]
		}
	}
	if insufficient == nil {
		t.Fatal("no section-level gap for under-covered financial section")
	}
	if insufficient.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", insufficient.Severity)
	}
	if insufficient.ID == "" {
		t.Error("gap has no ID")
	}
	if want := "only 1 of 3 required facts found"; !strings.Contains(insufficient.Recommendation, want) {
		t.Errorf("recommendation %q does not mention %q", insufficient.Recommendation, want)
	}
}

func TestIdentifier_FieldGapSeverityTracksSectionWeight(t *testing.T) {
	// No facts at all: every field in every section goes missing, so
	// the severity of each field gap is decided by section weight alone.
	gaps, _ := NewIdentifier(testTaxonomy()).Identify(nil)

	cases := []struct {
		desc    string
		section string
		field   string
		want    model.Severity
	}{
		{desc: "weight 0.25 is high", section: "financial", field: "margins", want: model.SeverityHigh},
		{desc: "weight 0.15 is medium", section: "competitive", field: "risks", want: model.SeverityMedium},
		{desc: "weight 0.10 is low", section: "leadership", field: "ceo", want: model.SeverityLow},
	}

	for _, tc := range cases {
		found := false
		for _, g := range gaps {
			if g.Section == tc.section && g.Field == tc.field {
				found = true
				if g.Severity != tc.want {
					t.Errorf("%s: severity = %s, want %s", tc.desc, g.Severity, tc.want)
				}
			}
		}
		if !found {
			t.Errorf("%s: no gap for %s/%s", tc.desc, tc.section, tc.field)
		}
	}
}

func TestIdentifier_SectionScore(t *testing.T) {
	cases := []struct {
		desc  string
		facts []model.Fact
		want  float64
	}{
		{
			desc: "full volume and full fields",
			facts: []model.Fact{
				fact("Quarterly revenue reached $90 billion.", model.CategoryFinancial),
				fact("Gross margin held at 45 percent.", model.CategoryFinancial),
				fact("Total sales grew 8 percent.", model.CategoryFinancial),
			},
			want: 100,
		},
		{
			desc: "one of three facts, one of two fields",
			facts: []model.Fact{
				fact("Revenue was $10 billion.", model.CategoryFinancial),
			},
			want: 70.0/3 + 15, // 70 * 1/3 + 30 * 1/2
		},
		{
			desc:  "nothing at all",
			facts: nil,
			want:  0,
		},
	}

	for _, tc := range cases {
		_, coverage := NewIdentifier(testTaxonomy()).Identify(tc.facts)
		got := findCoverage(t, coverage, "financial").Score
		if math.Abs(got-tc.want) > 0.01 {
			t.Errorf("%s: score = %.2f, want %.2f", tc.desc, got, tc.want)
		}
	}
}

func TestIdentifier_KeywordMatchesWithoutCategory(t *testing.T) {
	facts := []model.Fact{
		fact("Its main competitor is Samsung.", model.CategoryUnknown),
	}

	_, coverage := NewIdentifier(testTaxonomy()).Identify(facts)

	sc := findCoverage(t, coverage, "competitive")
	if sc.FactCount != 1 {
		t.Errorf("FactCount = %d, want 1", sc.FactCount)
	}
	if len(sc.FieldsCovered) != 1 || sc.FieldsCovered[0] != "competitors" {
		t.Errorf("FieldsCovered = %v, want [competitors]", sc.FieldsCovered)
	}
	if len(sc.FieldsMissing) != 1 || sc.FieldsMissing[0] != "risks" {
		t.Errorf("FieldsMissing = %v, want [risks]", sc.FieldsMissing)
	}
	if want := 50.0; math.Abs(sc.Score-want) > 0.01 {
		t.Errorf("Score = %.2f, want %.2f", sc.Score, want)
	}
}

func TestIdentifier_FactCountsTowardMultipleSections(t *testing.T) {
	facts := []model.Fact{
		fact("Revenue grew despite competitor pressure.", model.CategoryFinancial),
	}

	_, coverage := NewIdentifier(testTaxonomy()).Identify(facts)

	if got := findCoverage(t, coverage, "financial").FactCount; got != 1 {
		t.Errorf("financial FactCount = %d, want 1", got)
	}
	if got := findCoverage(t, coverage, "competitive").FactCount; got != 1 {
		t.Errorf("competitive FactCount = %d, want 1", got)
	}
}

func TestIdentifier_MatchingIsCaseInsensitive(t *testing.T) {
	facts := []model.Fact{
		fact("REVENUE WAS $10 BILLION.", model.CategoryUnknown),
	}

	cfg := testTaxonomy()
	cfg.Sections = cfg.Sections[:1]
	cfg.Sections[0].Keywords = []string{"revenue"}

	_, coverage := NewIdentifier(cfg).Identify(facts)

	sc := findCoverage(t, coverage, "financial")
	if sc.FactCount != 1 {
		t.Errorf("FactCount = %d, want 1", sc.FactCount)
	}
	if len(sc.FieldsCovered) != 1 || sc.FieldsCovered[0] != "revenue" {
		t.Errorf("FieldsCovered = %v, want [revenue]", sc.FieldsCovered)
	}
}

func TestIdentifier_FullCoverageProducesNoGaps(t *testing.T) {
	facts := []model.Fact{
		fact("Quarterly revenue reached $90 billion.", model.CategoryFinancial),
		fact("Gross margin held at 45 percent.", model.CategoryFinancial),
		fact("Total sales grew 8 percent.", model.CategoryFinancial),
		fact("Its main competitor is Samsung.", model.CategoryUnknown),
		fact("Supply chain risk remains its biggest rival threat.", model.CategoryUnknown),
		fact("The CEO has led the company since 2011.", model.CategoryLeadership),
	}

	gaps, coverage := NewIdentifier(testTaxonomy()).Identify(facts)

	if len(gaps) != 0 {
		t.Errorf("gaps = %d, want 0: %+v", len(gaps), gaps)
	}
	for _, sc := range coverage {
		if sc.Score != 100 {
			t.Errorf("section %s score = %.2f, want 100", sc.Section, sc.Score)
		}
	}
}

func TestIdentifier_DefaultTaxonomy(t *testing.T) {
	gaps, coverage := NewIdentifier(model.DefaultConfig().Coverage).Identify(nil)

	wantOrder := []string{"company_overview", "financial", "market", "product", "competitive", "leadership"}
	if len(coverage) != len(wantOrder) {
		t.Fatalf("coverage rows = %d, want %d", len(coverage), len(wantOrder))
	}
	for i, sc := range coverage {
		if sc.Section != wantOrder[i] {
			t.Errorf("coverage[%d] = %s, want %s", i, sc.Section, wantOrder[i])
		}
		if sc.Score != 0 {
			t.Errorf("section %s score = %.2f, want 0 for empty research", sc.Section, sc.Score)
		}
	}

	sectionGaps := 0
	for _, g := range gaps {
		if g.Field == "" {
			if g.Severity != model.SeverityHigh {
				t.Errorf("section gap for %s severity = %s, want high", g.Section, g.Severity)
			}
			sectionGaps++
		}
	}
	if sectionGaps != len(wantOrder) {
		t.Errorf("section-level gaps = %d, want %d", sectionGaps, len(wantOrder))
	}
}
