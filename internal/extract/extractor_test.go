package extract

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/credenceproj/credence/internal/model"
)

func newTestExtractor() *Extractor {
	return NewExtractor(model.DefaultConfig().Extraction)
}

func TestExtractor_BasicExtraction(t *testing.T) {
	text := `Acme Corporation reported revenue of $12.5 billion for fiscal 2024.
The company was founded in 1998 and is headquartered in Austin.
Jane Smith serves as chief executive officer of the company.`

	facts := newTestExtractor().Extract("financial", text)

	if len(facts) != 3 {
		t.Fatalf("Expected 3 facts, got %d", len(facts))
	}

	for i, fact := range facts {
		if fact.Agent != "financial" {
			t.Errorf("Fact %d: agent = %q, want %q", i, fact.Agent, "financial")
		}
		if fact.Sentence != i {
			t.Errorf("Fact %d: sentence index = %d, want %d", i, fact.Sentence, i)
		}
	}

	wantCategories := []model.Category{
		model.CategoryFinancial,
		model.CategoryCompanyInfo,
		model.CategoryLeadership,
	}
	wantTypes := []model.ClaimType{
		model.ClaimNumerical,
		model.ClaimTemporal,
		model.ClaimAttributive,
	}
	for i := range facts {
		if facts[i].Category != wantCategories[i] {
			t.Errorf("Fact %d: category = %q, want %q", i, facts[i].Category, wantCategories[i])
		}
		if facts[i].Type != wantTypes[i] {
			t.Errorf("Fact %d: type = %q, want %q", i, facts[i].Type, wantTypes[i])
		}
	}

	if len(facts[0].Entities.Quantities) == 0 {
		t.Error("Expected a quantity in the revenue fact")
	}
}

func TestExtractor_HTMLInput(t *testing.T) {
	text := `<html><body>
	<p>Acme Corporation reported revenue of $12.5 billion for the year.</p>
	<script>var analytics = "Tracking revenue of $99 trillion every day";</script>
	<style>.revenue { color: green; }</style>
	<p>The company employs 45,000 people across twelve countries worldwide.</p>
	</body></html>`

	facts := newTestExtractor().Extract("financial", text)

	if len(facts) != 2 {
		t.Fatalf("Expected 2 facts, got %d: %+v", len(facts), facts)
	}
	for _, fact := range facts {
		if strings.Contains(fact.Content, "analytics") || strings.Contains(fact.Content, "trillion") {
			t.Errorf("Script content leaked into fact: %q", fact.Content)
		}
	}
}

func TestExtractor_Deduplication(t *testing.T) {
	text := `Acme Corporation reported revenue of $12.5 billion last year.
Acme Corporation reported REVENUE of $12.5 billion last year.
The company operates offices in more than thirty countries.`

	facts := newTestExtractor().Extract("market", text)

	if len(facts) != 2 {
		t.Errorf("Expected 2 facts after case-insensitive dedup, got %d", len(facts))
	}
}

func TestExtractor_EmptyInput(t *testing.T) {
	extractor := newTestExtractor()

	for _, input := range []string{"", "   ", "???", "<html></html>"} {
		if facts := extractor.Extract("news", input); len(facts) != 0 {
			t.Errorf("Input %q: expected 0 facts, got %d", input, len(facts))
		}
	}
}

func TestExtractor_Deterministic(t *testing.T) {
	text := `Acme Corporation reported revenue of $12.5 billion for fiscal 2024.
According to the filing, operating margin improved to 18 percent.
The company might possibly expand into three new markets next year.`

	extractor := newTestExtractor()
	first := extractor.Extract("financial", text)
	second := extractor.Extract("financial", text)

	if !reflect.DeepEqual(first, second) {
		t.Error("Extraction is not deterministic for identical input")
	}
}

func TestExtractor_ConfidenceHints(t *testing.T) {
	tests := []struct {
		desc     string
		sentence string
		want     float64
	}{
		{
			desc:     "attribution, quantity and year all boost",
			sentence: "According to the annual filing, Acme generated $12.5 billion in revenue in 2024.",
			want:     0.80, // 0.5 + 0.15 + 0.10 + 0.05
		},
		{
			desc:     "hedging words penalize",
			sentence: "The company might possibly reach around $5 billion in revenue at some point.",
			want:     0.30, // 0.5 + 0.10 - 3*0.10
		},
		{
			desc:     "plain statement stays at base",
			sentence: "The management team relocated to a larger campus outside the city.",
			want:     0.50,
		},
		{
			desc:     "heavy hedging clamps at the floor",
			sentence: "It might perhaps possibly be unclear whether growth could continue.",
			want:     0.05, // 0.5 - 5*0.10, floored
		},
	}

	extractor := newTestExtractor()
	for _, tt := range tests {
		facts := extractor.Extract("financial", tt.sentence)
		if len(facts) != 1 {
			t.Errorf("%s: expected 1 fact, got %d", tt.desc, len(facts))
			continue
		}
		if math.Abs(facts[0].ConfidenceHint-tt.want) > 1e-9 {
			t.Errorf("%s: hint = %.3f, want %.3f", tt.desc, facts[0].ConfidenceHint, tt.want)
		}
	}
}

func TestExtractor_CustomRuleset(t *testing.T) {
	rules := &Ruleset{
		categories: []categoryRule{
			{model.CategoryProduct, []string{"device"}},
		},
		hedgeRe: DefaultRuleset().hedgeRe,
	}
	extractor := NewExtractorWithRuleset(model.DefaultConfig().Extraction, rules)

	facts := extractor.Extract("product", "The flagship device shipped to customers in forty countries.")
	if len(facts) != 1 {
		t.Fatalf("Expected 1 fact, got %d", len(facts))
	}
	if facts[0].Category != model.CategoryProduct {
		t.Errorf("Category = %q, want %q", facts[0].Category, model.CategoryProduct)
	}

	if NewExtractorWithRuleset(model.DefaultConfig().Extraction, nil).rules == nil {
		t.Error("Nil ruleset should fall back to the default")
	}
}
