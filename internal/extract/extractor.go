package extract

import (
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

// Extractor turns one agent's free-text analysis into an ordered list of
// structured facts. It is a pure function of its input: identical text
// always yields an identical fact list, and malformed input yields zero
// facts rather than an error.
type Extractor struct {
	cfg   model.ExtractionConfig
	rules *Ruleset
}

// NewExtractor creates an extractor with the default company-research
// ruleset.
func NewExtractor(cfg model.ExtractionConfig) *Extractor {
	return NewExtractorWithRuleset(cfg, DefaultRuleset())
}

// NewExtractorWithRuleset creates an extractor with a custom rule-set.
func NewExtractorWithRuleset(cfg model.ExtractionConfig, rules *Ruleset) *Extractor {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Extractor{cfg: cfg, rules: rules}
}

// Extract converts analysis text from the named agent into facts, one per
// qualifying sentence, in sentence order.
func (e *Extractor) Extract(agent, text string) []model.Fact {
	normalized := NormalizeText(text)
	sentences := splitSentences(normalized, e.cfg.MinSentenceLen, e.cfg.MaxSentenceLen)

	facts := make([]model.Fact, 0, len(sentences))
	for i, sentence := range sentences {
		entities := extractEntities(sentence)

		facts = append(facts, model.Fact{
			Content:        sentence,
			Category:       e.rules.CategoryFor(sentence),
			Type:           e.rules.ClaimTypeFor(sentence, entities),
			Agent:          agent,
			ConfidenceHint: e.confidenceHint(sentence, entities),
			Entities:       entities,
			Sentence:       i,
		})
	}

	return dedupeFacts(facts)
}

// confidenceHint estimates extraction-time trust in a sentence: attribution
// phrases and specific numbers raise it, hedging language lowers it.
func (e *Extractor) confidenceHint(sentence string, entities model.EntitySet) float64 {
	lower := strings.ToLower(sentence)

	hint := e.cfg.HintBase
	if e.rules.HasAttribution(lower) {
		hint += e.cfg.AttributionBoost
	}
	if len(entities.Quantities) > 0 {
		hint += e.cfg.QuantityBoost
	}
	if len(entities.Years) > 0 {
		hint += e.cfg.YearBoost
	}
	hint -= float64(e.rules.HedgeCount(sentence)) * e.cfg.HedgePenalty

	if hint < e.cfg.HintFloor {
		hint = e.cfg.HintFloor
	}
	if hint > e.cfg.HintCeiling {
		hint = e.cfg.HintCeiling
	}
	return hint
}

// dedupeFacts removes repeated sentences, keeping the first occurrence.
func dedupeFacts(facts []model.Fact) []model.Fact {
	seen := make(map[string]bool)
	unique := make([]model.Fact, 0, len(facts))

	for _, fact := range facts {
		key := strings.ToLower(strings.TrimSpace(fact.Content))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, fact)
		}
	}

	return unique
}
