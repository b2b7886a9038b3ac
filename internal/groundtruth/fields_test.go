package groundtruth

import (
	"math"
	"testing"

	"github.com/credenceproj/credence/internal/model"
)

func defaultRegistry() *Registry {
	return NewRegistry(model.DefaultConfig().GroundTruth.Fields)
}

func TestNewRegistry_Fields(t *testing.T) {
	fields := defaultRegistry().Fields()

	if len(fields) != 10 {
		t.Fatalf("expected 10 fields, got %d", len(fields))
	}
	if fields[0].Name != "revenue" || fields[0].Tolerance != 5 {
		t.Errorf("unexpected first field: %+v", fields[0])
	}
	for _, f := range fields {
		if f.Name == "dividend_yield" && !f.Percent {
			t.Error("dividend_yield should be a percent field")
		}
		if f.Name == "revenue" && f.Percent {
			t.Error("revenue should not be a percent field")
		}
	}
}

func TestRegistry_ExtractClaims(t *testing.T) {
	text := "Apple reported revenue of $391.0 billion for fiscal 2024. " +
		"The company's market cap stands at $3.4 trillion. " +
		"Apple employs 164,000 employees worldwide. " +
		"Net profit margin was 24.3%."

	claims := defaultRegistry().ExtractClaims("financial", text)

	want := map[string]float64{
		"revenue":        391.0e9,
		"market_cap":     3.4e12,
		"employee_count": 164000,
		"profit_margin":  24.3,
	}

	if len(claims) != len(want) {
		t.Fatalf("expected %d claims, got %d: %+v", len(want), len(claims), claims)
	}

	for _, claim := range claims {
		expected, ok := want[claim.Field.Name]
		if !ok {
			t.Errorf("unexpected claim for field %s", claim.Field.Name)
			continue
		}
		if math.Abs(claim.Value-expected) > 1e-6*math.Abs(expected) {
			t.Errorf("%s: expected %.4g, got %.4g", claim.Field.Name, expected, claim.Value)
		}
		if claim.Agent != "financial" {
			t.Errorf("%s: expected agent financial, got %s", claim.Field.Name, claim.Agent)
		}
	}
}

func TestRegistry_PercentNeverReadAsAbsolute(t *testing.T) {
	claims := defaultRegistry().ExtractClaims("financial", "Revenue grew 12% year over year.")

	if len(claims) != 0 {
		t.Errorf("expected no claims from a growth percentage, got %+v", claims)
	}
}

func TestRegistry_YearIsNotAValue(t *testing.T) {
	claims := defaultRegistry().ExtractClaims("financial", "Revenue in 2024 stayed flat.")

	if len(claims) != 0 {
		t.Errorf("expected no claims from a bare year, got %+v", claims)
	}
}

func TestRegistry_NumberBeforeAlias(t *testing.T) {
	claims := defaultRegistry().ExtractClaims("financial", "The $105 million market cap surprised analysts.")

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Field.Name != "market_cap" || claims[0].Value != 105e6 {
		t.Errorf("expected market_cap 1.05e+08, got %s %.4g", claims[0].Field.Name, claims[0].Value)
	}
}

func TestRegistry_AliasDigitsAreNotTheValue(t *testing.T) {
	claims := defaultRegistry().ExtractClaims("financial", "The stock fell to $169.21, its 52-week low.")

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d: %+v", len(claims), claims)
	}
	if claims[0].Field.Name != "week52_low" {
		t.Fatalf("expected week52_low, got %s", claims[0].Field.Name)
	}
	if claims[0].Value != 169.21 {
		t.Errorf("expected 169.21, got %g", claims[0].Value)
	}
}

func TestRegistry_EarliestMentionWins(t *testing.T) {
	text := "Revenue reached $390 billion. Some coverage put revenue at $400 billion instead."

	claims := defaultRegistry().ExtractClaims("financial", text)

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Value != 390e9 {
		t.Errorf("expected first mention 3.9e+11, got %g", claims[0].Value)
	}
}

func TestRegistry_WindowStopsAtSentenceBreak(t *testing.T) {
	text := "Revenue details follow. The market cap is $3 trillion."

	claims := defaultRegistry().ExtractClaims("financial", text)

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d: %+v", len(claims), claims)
	}
	if claims[0].Field.Name != "market_cap" {
		t.Errorf("expected only market_cap, got %s", claims[0].Field.Name)
	}
}

func TestRegistry_ImplicitNameAlias(t *testing.T) {
	registry := NewRegistry([]model.FieldSpec{
		{Name: "free_cash_flow", TolerancePct: 5},
	})

	claims := registry.ExtractClaims("financial", "Free cash flow came in at $108 billion.")

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim from the implicit alias, got %d", len(claims))
	}
	if claims[0].Value != 108e9 {
		t.Errorf("expected 1.08e+11, got %g", claims[0].Value)
	}
}

func TestRegistry_PercentField(t *testing.T) {
	claims := defaultRegistry().ExtractClaims("financial", "The dividend yield of 0.44% trails the sector.")

	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].Field.Name != "dividend_yield" || claims[0].Value != 0.44 {
		t.Errorf("expected dividend_yield 0.44, got %s %g", claims[0].Field.Name, claims[0].Value)
	}
}
