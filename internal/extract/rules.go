package extract

import (
	"regexp"
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

// Ruleset bundles the pattern rules that classify sentences: claim-type
// probes, category vocabularies, attribution and hedging language. It is a
// strategy object — vocabularies change without touching extraction control
// flow, and custom rulesets can be injected for other research domains.
type Ruleset struct {
	comparatives []string
	categories   []categoryRule
	attribution  []string
	hedgeRe      *regexp.Regexp
}

type categoryRule struct {
	category model.Category
	keywords []string
}

// DefaultRuleset returns the company-research vocabulary. Category rules
// are ordered; the first match wins, so "market cap" lands in financial
// before the market rule sees "market".
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		comparatives: []string{
			"more than", "less than", "higher than", "lower than",
			"larger than", "smaller than", "faster than", "compared to",
			"compared with", "versus", " vs ", "outperform", "ahead of",
			"exceeds", "trails",
		},
		categories: []categoryRule{
			{model.CategoryFinancial, []string{
				"revenue", "profit", "margin", "earnings", "ebitda", "income",
				"cash flow", "debt", "valuation", "market cap", "p/e", "eps",
				"dividend", "expense", "funding", "capital",
			}},
			{model.CategoryLeadership, []string{
				"ceo", "cfo", "cto", "coo", "founder", "executive",
				"president", "chairman", "board of directors", "management team",
			}},
			{model.CategoryCompanyInfo, []string{
				"founded", "headquarters", "headquartered", "incorporated",
				"subsidiary", "employees", "established", "based in", "offices",
			}},
			{model.CategoryProduct, []string{
				"product", "service", "platform", "technology", "patent",
				"feature", "offering", "software", "hardware", "app", "device",
			}},
			{model.CategoryMarket, []string{
				"market", "industry", "sector", "demand", "competitor",
				"competition", "segment", "trend", "customers",
			}},
			{model.CategoryNews, []string{
				"announced", "acquisition", "acquired", "merger", "partnership",
				"lawsuit", "recall", "resigned", "appointed",
			}},
		},
		attribution: []string{
			"according to", "reported", "announced", "confirmed", "stated",
			"disclosed", "per the", "official",
		},
		hedgeRe: regexp.MustCompile(`(?i)\b(might|could|approximately|possibly|perhaps|estimated|roughly|around|likely|unclear|reportedly|rumored|allegedly|projected)\b`),
	}
}

// ClaimTypeFor classifies a sentence given its extracted entities:
// numerical when it carries a quantity, temporal when it carries only
// year/date references, comparative on comparison language, else
// attributive. First match in that order wins.
func (r *Ruleset) ClaimTypeFor(sentence string, entities model.EntitySet) model.ClaimType {
	if len(entities.Quantities) > 0 {
		return model.ClaimNumerical
	}
	if len(entities.Years) > 0 || len(entities.Dates) > 0 {
		return model.ClaimTemporal
	}
	lower := strings.ToLower(sentence)
	for _, phrase := range r.comparatives {
		if strings.Contains(lower, phrase) {
			return model.ClaimComparative
		}
	}
	return model.ClaimAttributive
}

// CategoryFor assigns a sentence to a research domain area by keyword
// vocabulary; unmatched sentences are unknown.
func (r *Ruleset) CategoryFor(sentence string) model.Category {
	lower := strings.ToLower(sentence)
	for _, rule := range r.categories {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return model.CategoryUnknown
}

// HasAttribution reports whether the lowercased sentence carries an
// attribution phrase.
func (r *Ruleset) HasAttribution(lower string) bool {
	for _, phrase := range r.attribution {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// HedgeCount counts hedging words in the sentence.
func (r *Ruleset) HedgeCount(sentence string) int {
	return len(r.hedgeRe.FindAllString(sentence, -1))
}
