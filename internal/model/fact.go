package model

import "fmt"

// Fact represents an atomic, attributable claim extracted from analyst text.
// Facts are created once per sentence during extraction and are immutable
// afterward; they live only for the duration of one quality evaluation.
type Fact struct {
	Content        string    `json:"content"`                   // The claim sentence itself
	Category       Category  `json:"category"`                  // Domain area the claim belongs to
	Type           ClaimType `json:"type"`                      // Structural kind of the claim
	Agent          string    `json:"agent"`                     // Name of the research agent that produced it
	ConfidenceHint float64   `json:"confidence_hint"`           // Heuristic extraction-time confidence (0-1)
	Entities       EntitySet `json:"entities"`                  // Typed entities found in the sentence
	Sentence       int       `json:"sentence,omitempty"`        // Sentence index in source text (0-based)
}

// NewFact builds a validated fact. Category and claim type must be members
// of their declared sets; hint is clamped to [0,1].
func NewFact(agent, content string, category Category, claimType ClaimType) (Fact, error) {
	if !category.Valid() {
		return Fact{}, fmt.Errorf("invalid category: %q", category)
	}
	if !claimType.Valid() {
		return Fact{}, fmt.Errorf("invalid claim type: %q", claimType)
	}
	return Fact{
		Agent:    agent,
		Content:  content,
		Category: category,
		Type:     claimType,
	}, nil
}

// Category assigns a claim to a research domain area
type Category string

const (
	CategoryFinancial   Category = "financial"    // Revenue, margins, valuation metrics
	CategoryMarket      Category = "market"       // Market size, share, trends
	CategoryCompanyInfo Category = "company-info" // Founding, headquarters, structure
	CategoryProduct     Category = "product"      // Products, services, technology
	CategoryLeadership  Category = "leadership"   // Executives, board, governance
	CategoryNews        Category = "news"         // Recent events and announcements
	CategoryUnknown     Category = "unknown"      // No vocabulary match
)

// Valid reports whether the category is a member of the declared set.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinancial, CategoryMarket, CategoryCompanyInfo,
		CategoryProduct, CategoryLeadership, CategoryNews, CategoryUnknown:
		return true
	}
	return false
}

// ClaimType categorizes the structural nature of a claim
type ClaimType string

const (
	ClaimNumerical   ClaimType = "numerical"   // Contains currency/percentage/quantity
	ClaimTemporal    ClaimType = "temporal"    // Contains year or date references
	ClaimComparative ClaimType = "comparative" // Contains comparison language
	ClaimAttributive ClaimType = "attributive" // Plain descriptive assertion
)

// Valid reports whether the claim type is a member of the declared set.
func (t ClaimType) Valid() bool {
	switch t {
	case ClaimNumerical, ClaimTemporal, ClaimComparative, ClaimAttributive:
		return true
	}
	return false
}

// EntitySet holds the typed entities extracted from one sentence.
type EntitySet struct {
	Quantities []Quantity `json:"quantities,omitempty"` // Normalized numeric values
	Years      []int      `json:"years,omitempty"`      // Explicit four-digit years
	Dates      []string   `json:"dates,omitempty"`      // Date expressions as written
	Names      []string   `json:"names,omitempty"`      // Proper-noun sequences
}

// Dominant returns the quantity a comparison should use: the
// largest-magnitude currency value if any, otherwise the largest quantity
// of any kind. Second return is false when the set holds no quantities.
func (e EntitySet) Dominant() (Quantity, bool) {
	var best Quantity
	found := false
	for _, q := range e.Quantities {
		if !found {
			best = q
			found = true
			continue
		}
		if q.Unit == UnitCurrency && best.Unit != UnitCurrency {
			best = q
			continue
		}
		if q.Unit == best.Unit && abs(q.Value) > abs(best.Value) {
			best = q
		}
	}
	return best, found
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Quantity is a numeric entity with magnitude already normalized
// ("$1.5 billion" carries Value 1.5e9).
type Quantity struct {
	Value float64  `json:"value"`         // Normalized numeric value
	Unit  UnitKind `json:"unit"`          // What kind of measurement this is
	Raw   string   `json:"raw,omitempty"` // Original token as written
}

// UnitKind classifies what a quantity measures. Two quantities are only
// comparable when their kinds match.
type UnitKind string

const (
	UnitCurrency UnitKind = "currency" // Monetary amounts
	UnitPercent  UnitKind = "percent"  // Percentages
	UnitCount    UnitKind = "count"    // Bare counts and ratios
)
