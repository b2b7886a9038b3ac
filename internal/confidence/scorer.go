package confidence

import (
	"math"
	"regexp"
	"time"

	"github.com/credenceproj/credence/internal/extract"
	"github.com/credenceproj/credence/internal/model"
)

// Specificity and certainty signal constants. These shape two of the six
// factors and are not part of the tunable policy surface.
const (
	specificityBase     = 0.3
	specificityQuantity = 0.4
	specificityYear     = 0.2
	specificityName     = 0.1

	certaintyBase    = 0.7
	certaintyHedge   = 0.15
	certaintyFloor   = 0.1
	certaintyAssert  = 0.1
	neutralAgreement = 0.5
)

var assertiveRe = regexp.MustCompile(`(?i)\b(confirmed|verified|official(?:ly)?|definitively|certainly|audited|filed)\b`)

// Scorer computes per-fact confidence from six independent signals and the
// configured weights. It is pure: no I/O, no mutation of the fact.
type Scorer struct {
	cfg        model.ConfidenceConfig
	classifier *Classifier
	rules      *extract.Ruleset
	now        func() time.Time // Injectable for recency tests
}

// Result is one fact's scored confidence.
type Result struct {
	Score   float64                 `json:"score"`
	Level   model.ConfidenceLevel   `json:"level"`
	Factors model.ConfidenceFactors `json:"factors"`
}

// NewScorer builds a scorer over the given confidence policy.
func NewScorer(cfg model.ConfidenceConfig) *Scorer {
	return &Scorer{
		cfg:        cfg,
		classifier: NewClassifier(cfg.Authority),
		rules:      extract.DefaultRuleset(),
		now:        time.Now,
	}
}

// Score computes the weighted confidence of one fact given the sources of
// the agent that produced it.
func (s *Scorer) Score(fact model.Fact, sources []model.Source) Result {
	factors := model.ConfidenceFactors{
		SourceCount:       sourceCountFactor(len(sources)),
		SourceAgreement:   s.agreementFactor(fact, sources),
		SourceAuthority:   s.authorityFactor(sources),
		Recency:           s.recencyFactor(sources),
		Specificity:       specificityFactor(fact.Entities),
		LanguageCertainty: s.certaintyFactor(fact.Content),
	}

	w := s.cfg.Weights
	score := factors.SourceCount*w.SourceCount +
		factors.SourceAgreement*w.SourceAgreement +
		factors.SourceAuthority*w.SourceAuthority +
		factors.Recency*w.Recency +
		factors.Specificity*w.Specificity +
		factors.LanguageCertainty*w.LanguageCertainty

	score = clamp01(score)
	return Result{Score: score, Level: s.Level(score), Factors: factors}
}

// Level classifies a [0,1] score into the five-level band.
func (s *Scorer) Level(score float64) model.ConfidenceLevel {
	b := s.cfg.Bands
	switch {
	case score >= b.VeryHigh:
		return model.ConfidenceVeryHigh
	case score >= b.High:
		return model.ConfidenceHigh
	case score >= b.Medium:
		return model.ConfidenceMedium
	case score >= b.Low:
		return model.ConfidenceLow
	default:
		return model.ConfidenceVeryLow
	}
}

// Distribution summarizes scored results into band counts and a mean.
func Distribution(results []Result) model.ConfidenceDistribution {
	dist := model.ConfidenceDistribution{Counts: make(map[model.ConfidenceLevel]int)}
	if len(results) == 0 {
		return dist
	}
	var sum float64
	for _, r := range results {
		dist.Counts[r.Level]++
		sum += r.Score
	}
	dist.Mean = sum / float64(len(results))
	return dist
}

// sourceCountFactor credits independent sources with diminishing returns:
// 0 -> 0, 1 -> 0.33, 2 -> 0.5, saturating toward 1.
func sourceCountFactor(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / float64(n+2)
}

// agreementFactor measures how many comparable source excerpts state a
// value close to the fact's. Fewer than two comparable sources is neutral.
func (s *Scorer) agreementFactor(fact model.Fact, sources []model.Source) float64 {
	claim, ok := fact.Entities.Dominant()
	if !ok {
		return neutralAgreement
	}

	var comparable, agreeing int
	for _, src := range sources {
		if src.Excerpt == "" {
			continue
		}
		matched := false
		agrees := false
		for _, q := range extract.Entities(src.Excerpt).Quantities {
			if q.Unit != claim.Unit {
				continue
			}
			matched = true
			if deviationPct(q.Value, claim.Value) <= s.cfg.AgreementTolerance {
				agrees = true
				break
			}
		}
		if matched {
			comparable++
			if agrees {
				agreeing++
			}
		}
	}

	if comparable < 2 {
		return neutralAgreement
	}
	return float64(agreeing) / float64(comparable)
}

func (s *Scorer) authorityFactor(sources []model.Source) float64 {
	if len(sources) == 0 {
		return s.cfg.Authority.NoSourceWeight
	}
	var sum float64
	for _, src := range sources {
		sum += s.classifier.Weight(s.classifier.Classify(src.URL))
	}
	return sum / float64(len(sources))
}

// recencyFactor reads the most recent dated source against the configured
// age bands. Undated sources are neutral.
func (s *Scorer) recencyFactor(sources []model.Source) float64 {
	var newest *time.Time
	for i := range sources {
		t := sources[i].PublishedAt
		if t == nil {
			continue
		}
		if newest == nil || t.After(*newest) {
			newest = t
		}
	}
	if newest == nil {
		return s.cfg.RecencyUndated
	}

	days := s.now().Sub(*newest).Hours() / 24
	for _, band := range s.cfg.RecencyBands {
		if days <= float64(band.MaxAgeDays) {
			return band.Factor
		}
	}
	return s.cfg.RecencyOlder
}

func specificityFactor(entities model.EntitySet) float64 {
	f := specificityBase
	if len(entities.Quantities) > 0 {
		f += specificityQuantity
	}
	if len(entities.Years) > 0 || len(entities.Dates) > 0 {
		f += specificityYear
	}
	if len(entities.Names) > 0 {
		f += specificityName
	}
	return clamp01(f)
}

func (s *Scorer) certaintyFactor(content string) float64 {
	c := certaintyBase - float64(s.rules.HedgeCount(content))*certaintyHedge
	if c < certaintyFloor {
		c = certaintyFloor
	}
	c += float64(len(assertiveRe.FindAllString(content, -1))) * certaintyAssert
	return clamp01(c)
}

// deviationPct is the relative difference of two values against the larger
// magnitude, in percent.
func deviationPct(a, b float64) float64 {
	max := math.Max(math.Abs(a), math.Abs(b))
	if max == 0 {
		return 0
	}
	return math.Abs(a-b) / max * 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
