package groundtruth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/credenceproj/credence/internal/extract"
	"github.com/credenceproj/credence/internal/model"
)

// Field is one verifiable quantity: its registry name, the phrases
// analyses use for it, and how much deviation still counts as correct.
type Field struct {
	Name      string
	Aliases   []string
	Tolerance float64
	Percent   bool
}

// Registry holds the verifiable fields in configuration order.
type Registry struct {
	fields   []Field
	patterns map[string][]*regexp.Regexp
}

// NewRegistry builds a registry from field specs. The field name itself
// (underscores read as spaces) always works as an alias.
func NewRegistry(specs []model.FieldSpec) *Registry {
	r := &Registry{patterns: make(map[string][]*regexp.Regexp)}

	for _, spec := range specs {
		implicit := strings.ReplaceAll(spec.Name, "_", " ")
		seen := make(map[string]bool)

		var aliases []string
		for _, alias := range append([]string{implicit}, spec.Aliases...) {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" || seen[alias] {
				continue
			}
			seen[alias] = true
			aliases = append(aliases, alias)
			r.patterns[spec.Name] = append(r.patterns[spec.Name], aliasPattern(alias))
		}

		r.fields = append(r.fields, Field{
			Name:      spec.Name,
			Aliases:   aliases,
			Tolerance: spec.TolerancePct,
			Percent:   spec.Percent,
		})
	}

	return r
}

func aliasPattern(alias string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `\b`)
}

// Fields returns the registered fields in configuration order.
func (r *Registry) Fields() []Field {
	return r.fields
}

// Claim is one numeric statement about a registry field found in an
// agent's analysis.
type Claim struct {
	Field Field
	Agent string
	Value float64
}

// Window sizes around an alias in which a number still reads as a
// statement of that field's value.
const (
	windowAfter  = 80
	windowBefore = 48
)

// ExtractClaims scans one agent's analysis for numeric statements about
// registry fields. At most one claim per field is taken: the earliest
// alias mention with a usable number nearby.
func (r *Registry) ExtractClaims(agent, text string) []Claim {
	var claims []Claim

	for _, field := range r.fields {
		if value, ok := r.fieldValue(field, text); ok {
			claims = append(claims, Claim{Field: field, Agent: agent, Value: value})
		}
	}

	return claims
}

func (r *Registry) fieldValue(field Field, text string) (float64, bool) {
	bestPos := len(text) + 1
	bestValue := 0.0
	found := false

	for _, pattern := range r.patterns[field.Name] {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if loc[0] >= bestPos {
				continue
			}
			if value, ok := nearbyValue(field, text, loc[0], loc[1]); ok {
				bestPos = loc[0]
				bestValue = value
				found = true
			}
		}
	}

	return bestValue, found
}

// nearbyValue looks for a number after the alias first, then before it
// ("market cap of $105 million" and "$105 million market cap" both
// work). Percent fields take percentages only; absolute fields reject
// them, so "revenue grew 12%" never reads as revenue = 12.
func nearbyValue(field Field, text string, start, end int) (float64, bool) {
	after := afterText(text, end, windowAfter)
	if v, ok := pickQuantity(field, extract.Entities(after).Quantities, false); ok {
		return v, true
	}

	before := beforeText(text, start, windowBefore)
	return pickQuantity(field, extract.Entities(before).Quantities, true)
}

// pickQuantity selects the first quantity whose unit fits the field;
// nearest reverses the scan so the value closest to a trailing alias
// wins.
func pickQuantity(field Field, quantities []model.Quantity, nearest bool) (float64, bool) {
	if nearest {
		for i := len(quantities) - 1; i >= 0; i-- {
			if unitFits(field, quantities[i]) {
				return quantities[i].Value, true
			}
		}
		return 0, false
	}

	for _, q := range quantities {
		if unitFits(field, q) {
			return q.Value, true
		}
	}
	return 0, false
}

func unitFits(field Field, q model.Quantity) bool {
	if field.Percent {
		return q.Unit == model.UnitPercent
	}
	return q.Unit != model.UnitPercent
}

var sentenceBreak = regexp.MustCompile(`[.!?]\s`)

// afterText returns up to size bytes following pos, clipped at the next
// sentence break and extended right to whitespace so a number is never
// cut mid-token. The near edge stays put: the alias itself is excluded.
func afterText(text string, pos, size int) string {
	to := pos + size
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !unicode.IsSpace(rune(text[to])) {
		to++
	}

	s := text[pos:to]
	if loc := sentenceBreak.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return s
}

// beforeText returns up to size bytes preceding pos, clipped at the
// last sentence break and extended left to whitespace.
func beforeText(text string, pos, size int) string {
	from := pos - size
	if from < 0 {
		from = 0
	}
	for from > 0 && !unicode.IsSpace(rune(text[from-1])) {
		from--
	}

	s := text[from:pos]
	if locs := sentenceBreak.FindAllStringIndex(s, -1); len(locs) > 0 {
		s = s[locs[len(locs)-1][1]:]
	}
	return s
}
