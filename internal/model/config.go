package model

import (
	"fmt"
	"time"
)

// Config holds every policy constant of the verification engine. Values are
// calibration decisions, not mechanisms: they load from file/env/flags and
// are validated once at construction. Nothing re-validates mid-evaluation.
type Config struct {
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Contradiction ContradictionConfig `yaml:"contradiction"`
	Confidence    ConfidenceConfig    `yaml:"confidence"`
	GroundTruth   GroundTruthConfig   `yaml:"ground_truth"`
	Coverage      CoverageConfig      `yaml:"coverage"`
	Quality       QualityConfig       `yaml:"quality"`
	Judge         JudgeConfig         `yaml:"judge"`
	HTTP          HTTPConfig          `yaml:"http"`
	Output        OutputConfig        `yaml:"output"`
}

// ExtractionConfig tunes sentence filtering and the extraction-time
// confidence hint.
type ExtractionConfig struct {
	MinSentenceLen   int     `yaml:"min_sentence_len"` // Shorter sentences are discarded as non-factual
	MaxSentenceLen   int     `yaml:"max_sentence_len"` // Longer runs are discarded as non-sentential
	HintBase         float64 `yaml:"hint_base"`
	AttributionBoost float64 `yaml:"attribution_boost"` // "according to", "reported", ...
	QuantityBoost    float64 `yaml:"quantity_boost"`    // Specific numbers present
	YearBoost        float64 `yaml:"year_boost"`        // Explicit year present
	HedgePenalty     float64 `yaml:"hedge_penalty"`     // Per hedging word
	HintFloor        float64 `yaml:"hint_floor"`
	HintCeiling      float64 `yaml:"hint_ceiling"`
}

// ContradictionConfig holds the deviation severity bands and the optional
// judge budget. Bands are strict lower bounds: deviation must exceed the
// cutoff to enter the band.
type ContradictionConfig struct {
	CriticalDeviation   float64 `yaml:"critical_deviation"`    // deviation > this => critical
	HighDeviation       float64 `yaml:"high_deviation"`        // deviation > this => high
	MediumDeviation     float64 `yaml:"medium_deviation"`      // deviation > this => medium
	MinDeviation        float64 `yaml:"min_deviation"`         // At or below: no record emitted
	JudgeBudget         int     `yaml:"judge_budget"`          // Max semantic judge calls per evaluation
	MinJudgeConfidence  float64 `yaml:"min_judge_confidence"`  // Judge verdicts below this are discarded
	HighJudgeConfidence float64 `yaml:"high_judge_confidence"` // At or above: semantic severity high
}

// ConfidenceWeights combine the six factors; they must sum to 1.0 within
// the coverage tolerance.
type ConfidenceWeights struct {
	SourceCount       float64 `yaml:"source_count"`
	SourceAgreement   float64 `yaml:"source_agreement"`
	SourceAuthority   float64 `yaml:"source_authority"`
	Recency           float64 `yaml:"recency"`
	Specificity       float64 `yaml:"specificity"`
	LanguageCertainty float64 `yaml:"language_certainty"`
}

// ConfidenceBands are the lower bounds of the five levels; very-low is
// everything below Low.
type ConfidenceBands struct {
	VeryHigh float64 `yaml:"very_high"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// AuthorityConfig maps source domains to authority tiers and tiers to
// factor weights.
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty"` // Explicit host -> tier overrides
	PrimaryWeight    float64           `yaml:"primary_weight"`
	SecondaryWeight  float64           `yaml:"secondary_weight"`
	TertiaryWeight   float64           `yaml:"tertiary_weight"`
	NoSourceWeight   float64           `yaml:"no_source_weight"` // Zero supporting sources: low authority, never an error
}

// RecencyBand maps a maximum source age to a recency factor. Bands are
// evaluated in order.
type RecencyBand struct {
	MaxAgeDays int     `yaml:"max_age_days"`
	Factor     float64 `yaml:"factor"`
}

// ConfidenceConfig tunes the per-fact confidence scorer.
type ConfidenceConfig struct {
	Weights            ConfidenceWeights `yaml:"weights"`
	Bands              ConfidenceBands   `yaml:"bands"`
	Authority          AuthorityConfig   `yaml:"authority"`
	RecencyBands       []RecencyBand     `yaml:"recency_bands"`
	RecencyOlder       float64           `yaml:"recency_older"`       // Older than every band
	RecencyUndated     float64           `yaml:"recency_undated"`     // No dated source: neutral
	AgreementTolerance float64           `yaml:"agreement_tolerance"` // Pct two values may differ and still agree
}

// FieldSpec describes one validatable ground-truth field.
type FieldSpec struct {
	Name         string   `yaml:"name"`
	Aliases      []string `yaml:"aliases"`
	TolerancePct float64  `yaml:"tolerance_pct"`     // Verified within this; approximate within twice
	Percent      bool     `yaml:"percent,omitempty"` // Field is expressed in percent, not absolute units
}

// GroundTruthConfig holds the field registry and provider policy.
type GroundTruthConfig struct {
	Fields       []FieldSpec   `yaml:"fields"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`     // Authoritative data is reused within this window
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // Single-shot, non-retrying fetch bound
	ProviderURL  string        `yaml:"provider_url,omitempty"` // Base URL of the HTTP data provider
}

// CoverageField is one expected sub-field within a coverage section.
type CoverageField struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CoverageSection is one required section of the coverage taxonomy. A fact
// counts toward the section when its category matches or its content
// mentions a section keyword.
type CoverageSection struct {
	Name       string          `yaml:"name"`
	Weight     float64         `yaml:"weight"`
	MinFacts   int             `yaml:"min_facts"`
	Categories []Category      `yaml:"categories,omitempty"`
	Keywords   []string        `yaml:"keywords,omitempty"`
	Fields     []CoverageField `yaml:"fields"`
}

// CoverageConfig is the fixed coverage taxonomy; section weights must sum
// to 1.0 within the tolerance.
type CoverageConfig struct {
	Sections        []CoverageSection `yaml:"sections"`
	WeightTolerance float64           `yaml:"weight_tolerance"`
	HighWeight      float64           `yaml:"high_weight"`   // Section weight at or above: field gaps are high severity
	MediumWeight    float64           `yaml:"medium_weight"` // At or above: medium; below: low
}

// QualityWeights combine the four sub-scores; they must sum to 1.0 within
// the coverage tolerance.
type QualityWeights struct {
	Facts          float64 `yaml:"facts"`
	Contradictions float64 `yaml:"contradictions"`
	Gaps           float64 `yaml:"gaps"`
	Confidence     float64 `yaml:"confidence"`
}

// ContradictionPenalties are points removed per contradiction by severity.
type ContradictionPenalties struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// GapPenalties are points removed per gap by severity.
type GapPenalties struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
	Low    float64 `yaml:"low"`
}

// QualityConfig tunes the aggregator.
type QualityConfig struct {
	Weights              QualityWeights         `yaml:"weights"`
	PassThreshold        float64                `yaml:"pass_threshold"` // Overall score required to accept the research
	FactCeiling          int                    `yaml:"fact_ceiling"`   // Fact volume earning full credit
	ContradictionPenalty ContradictionPenalties `yaml:"contradiction_penalty"`
	GapPenalty           GapPenalties           `yaml:"gap_penalty"`
	FailingSectionCutoff float64                `yaml:"failing_section_cutoff"` // Section score below this is failing
	LowConfidenceShare   float64                `yaml:"low_confidence_share"`   // Share of low-band facts triggering the penalty
	LowConfidencePenalty float64                `yaml:"low_confidence_penalty"`
}

// JudgeConfig selects the optional semantic judge. An empty Provider means
// the numeric rule path runs alone.
type JudgeConfig struct {
	Provider  string `yaml:"provider,omitempty"` // "", "openai", "anthropic", "ollama"
	Model     string `yaml:"model,omitempty"`
	APIKey    string `yaml:"-"` // Never serialized; comes from env or flags
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"` // Seconds per judge call
	MaxTokens int    `yaml:"max_tokens,omitempty"`
}

// HTTPConfig applies to the ground-truth provider client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the calibrated defaults. Every value here is policy
// that operators may override; none of it is hard-coded elsewhere.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MinSentenceLen:   30,
			MaxSentenceLen:   500,
			HintBase:         0.5,
			AttributionBoost: 0.15,
			QuantityBoost:    0.10,
			YearBoost:        0.05,
			HedgePenalty:     0.10,
			HintFloor:        0.05,
			HintCeiling:      0.95,
		},
		Contradiction: ContradictionConfig{
			CriticalDeviation:   0.50,
			HighDeviation:       0.30,
			MediumDeviation:     0.20,
			MinDeviation:        0.20,
			JudgeBudget:         10,
			MinJudgeConfidence:  0.5,
			HighJudgeConfidence: 0.8,
		},
		Confidence: ConfidenceConfig{
			Weights: ConfidenceWeights{
				SourceCount:       0.20,
				SourceAgreement:   0.20,
				SourceAuthority:   0.20,
				Recency:           0.10,
				Specificity:       0.15,
				LanguageCertainty: 0.15,
			},
			Bands: ConfidenceBands{
				VeryHigh: 0.85,
				High:     0.70,
				Medium:   0.50,
				Low:      0.30,
			},
			Authority: AuthorityConfig{
				PrimaryDomains: []string{
					"sec.gov", "federalreserve.gov", "treasury.gov", "bls.gov",
					"census.gov", "europa.eu", "companieshouse.gov.uk", "sedar.com",
				},
				SecondaryDomains: []string{
					"reuters.com", "bloomberg.com", "wsj.com", "ft.com",
					"economist.com", "cnbc.com", "forbes.com", "finance.yahoo.com",
					"marketwatch.com", "morningstar.com", "spglobal.com",
					"moodys.com", "fitchratings.com", "crunchbase.com", "statista.com",
				},
				PrimaryWeight:   1.0,
				SecondaryWeight: 0.7,
				TertiaryWeight:  0.3,
				NoSourceWeight:  0.2,
			},
			RecencyBands: []RecencyBand{
				{MaxAgeDays: 30, Factor: 1.0},
				{MaxAgeDays: 90, Factor: 0.8},
				{MaxAgeDays: 365, Factor: 0.6},
				{MaxAgeDays: 730, Factor: 0.4},
			},
			RecencyOlder:       0.2,
			RecencyUndated:     0.5,
			AgreementTolerance: 5.0,
		},
		GroundTruth: GroundTruthConfig{
			Fields: []FieldSpec{
				{Name: "revenue", TolerancePct: 5, Aliases: []string{"revenue", "revenues", "annual revenue", "total revenue", "sales"}},
				{Name: "market_cap", TolerancePct: 10, Aliases: []string{"market cap", "market capitalization", "market value"}},
				{Name: "employee_count", TolerancePct: 15, Aliases: []string{"employees", "employee count", "headcount", "staff", "workforce"}},
				{Name: "pe_ratio", TolerancePct: 20, Aliases: []string{"p/e ratio", "pe ratio", "price-to-earnings ratio", "price to earnings"}},
				{Name: "dividend_yield", TolerancePct: 15, Percent: true, Aliases: []string{"dividend yield"}},
				{Name: "profit_margin", TolerancePct: 10, Percent: true, Aliases: []string{"profit margin", "net margin", "net profit margin"}},
				{Name: "operating_margin", TolerancePct: 10, Percent: true, Aliases: []string{"operating margin"}},
				{Name: "gross_margin", TolerancePct: 10, Percent: true, Aliases: []string{"gross margin"}},
				{Name: "week52_high", TolerancePct: 5, Aliases: []string{"52-week high", "52 week high"}},
				{Name: "week52_low", TolerancePct: 5, Aliases: []string{"52-week low", "52 week low"}},
			},
			CacheTTL:     time.Hour,
			FetchTimeout: 10 * time.Second,
		},
		Coverage: CoverageConfig{
			WeightTolerance: 0.01,
			HighWeight:      0.20,
			MediumWeight:    0.12,
			Sections: []CoverageSection{
				{
					Name: "company_overview", Weight: 0.15, MinFacts: 3,
					Categories: []Category{CategoryCompanyInfo},
					Keywords:   []string{"founded", "headquarters", "subsidiary"},
					Fields: []CoverageField{
						{Name: "founded", Keywords: []string{"founded", "established", "incorporated"}},
						{Name: "headquarters", Keywords: []string{"headquarters", "headquartered", "based in"}},
						{Name: "business_model", Keywords: []string{"business model", "revenue model", "sells", "monetiz"}},
						{Name: "industry", Keywords: []string{"industry", "sector"}},
					},
				},
				{
					Name: "financial", Weight: 0.25, MinFacts: 3,
					Categories: []Category{CategoryFinancial},
					Fields: []CoverageField{
						{Name: "revenue", Keywords: []string{"revenue", "sales", "top line"}},
						{Name: "profitability", Keywords: []string{"profit", "net income", "earnings", "loss"}},
						{Name: "margins", Keywords: []string{"margin"}},
						{Name: "growth", Keywords: []string{"growth", "grew", "increase", "year-over-year", "yoy"}},
					},
				},
				{
					Name: "market", Weight: 0.20, MinFacts: 3,
					Categories: []Category{CategoryMarket},
					Fields: []CoverageField{
						{Name: "market_size", Keywords: []string{"market size", "addressable market", "tam"}},
						{Name: "market_share", Keywords: []string{"market share"}},
						{Name: "trends", Keywords: []string{"trend", "demand", "shift"}},
						{Name: "customers", Keywords: []string{"customer", "client", "user base"}},
					},
				},
				{
					Name: "product", Weight: 0.15, MinFacts: 3,
					Categories: []Category{CategoryProduct},
					Fields: []CoverageField{
						{Name: "products", Keywords: []string{"product", "offering", "portfolio"}},
						{Name: "services", Keywords: []string{"service", "subscription"}},
						{Name: "technology", Keywords: []string{"technology", "platform", "patent", "proprietary"}},
						{Name: "roadmap", Keywords: []string{"roadmap", "upcoming", "planned", "launch"}},
					},
				},
				{
					Name: "competitive", Weight: 0.15, MinFacts: 3,
					Keywords: []string{"competitor", "competition", "rival", "competes", "versus", "competitive"},
					Fields: []CoverageField{
						{Name: "competitors", Keywords: []string{"competitor", "rival"}},
						{Name: "advantages", Keywords: []string{"advantage", "moat", "differentiat"}},
						{Name: "positioning", Keywords: []string{"position", "leader", "challenger"}},
						{Name: "risks", Keywords: []string{"risk", "threat"}},
					},
				},
				{
					Name: "leadership", Weight: 0.10, MinFacts: 3,
					Categories: []Category{CategoryLeadership},
					Keywords:   []string{"ceo", "founder", "executive"},
					Fields: []CoverageField{
						{Name: "ceo", Keywords: []string{"ceo", "chief executive"}},
						{Name: "executives", Keywords: []string{"executive", "cfo", "cto", "coo", "president"}},
						{Name: "board", Keywords: []string{"board", "director"}},
						{Name: "track_record", Keywords: []string{"track record", "previously", "veteran", "experience"}},
					},
				},
			},
		},
		Quality: QualityConfig{
			Weights: QualityWeights{
				Facts:          0.25,
				Contradictions: 0.30,
				Gaps:           0.25,
				Confidence:     0.20,
			},
			PassThreshold: 85,
			FactCeiling:   50,
			ContradictionPenalty: ContradictionPenalties{
				Critical: 12,
				High:     6,
				Medium:   3,
				Low:      1,
			},
			GapPenalty: GapPenalties{
				High:   10,
				Medium: 5,
				Low:    2,
			},
			FailingSectionCutoff: 60,
			LowConfidenceShare:   0.25,
			LowConfidencePenalty: 10,
		},
		Judge: JudgeConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Credence/0.2 (+https://github.com/credenceproj/credence)",
			MaxBodyBytes: 1_000_000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// Validate fails fast on configuration errors: weight tables that do not
// normalize, non-monotonic bands, or out-of-range thresholds. This is the
// only place a setup error may halt engine construction.
func (c *Config) Validate() error {
	w := c.Confidence.Weights
	confSum := w.SourceCount + w.SourceAgreement + w.SourceAuthority +
		w.Recency + w.Specificity + w.LanguageCertainty
	if err := checkWeightSum("confidence.weights", confSum, []float64{
		w.SourceCount, w.SourceAgreement, w.SourceAuthority,
		w.Recency, w.Specificity, w.LanguageCertainty,
	}); err != nil {
		return err
	}

	b := c.Confidence.Bands
	if !(b.VeryHigh > b.High && b.High > b.Medium && b.Medium > b.Low && b.Low > 0) {
		return fmt.Errorf("confidence.bands must be strictly descending and positive, got %.2f/%.2f/%.2f/%.2f",
			b.VeryHigh, b.High, b.Medium, b.Low)
	}

	d := c.Contradiction
	if !(d.CriticalDeviation > d.HighDeviation && d.HighDeviation > d.MediumDeviation && d.MediumDeviation > 0) {
		return fmt.Errorf("contradiction deviation bands must be strictly descending, got %.2f/%.2f/%.2f",
			d.CriticalDeviation, d.HighDeviation, d.MediumDeviation)
	}
	if d.MinDeviation < 0 || d.JudgeBudget < 0 {
		return fmt.Errorf("contradiction.min_deviation and judge_budget must be non-negative")
	}

	tol := c.Coverage.WeightTolerance
	if tol <= 0 {
		tol = 0.01
	}
	var covSum float64
	for _, s := range c.Coverage.Sections {
		if s.Weight < 0 {
			return fmt.Errorf("coverage section %q has negative weight %.3f", s.Name, s.Weight)
		}
		if s.MinFacts < 1 {
			return fmt.Errorf("coverage section %q needs min_facts >= 1", s.Name)
		}
		covSum += s.Weight
	}
	if len(c.Coverage.Sections) > 0 && (covSum < 1-tol || covSum > 1+tol) {
		return fmt.Errorf("coverage section weights must sum to 1.0 (±%.2f), got %.3f", tol, covSum)
	}

	q := c.Quality.Weights
	qSum := q.Facts + q.Contradictions + q.Gaps + q.Confidence
	if err := checkWeightSum("quality.weights", qSum, []float64{
		q.Facts, q.Contradictions, q.Gaps, q.Confidence,
	}); err != nil {
		return err
	}
	if c.Quality.PassThreshold < 0 || c.Quality.PassThreshold > 100 {
		return fmt.Errorf("quality.pass_threshold must be in [0,100], got %.1f", c.Quality.PassThreshold)
	}
	if c.Quality.FactCeiling < 1 {
		return fmt.Errorf("quality.fact_ceiling must be >= 1, got %d", c.Quality.FactCeiling)
	}

	for _, f := range c.GroundTruth.Fields {
		if f.TolerancePct <= 0 {
			return fmt.Errorf("ground_truth field %q needs a positive tolerance, got %.2f", f.Name, f.TolerancePct)
		}
	}

	return nil
}

func checkWeightSum(name string, sum float64, weights []float64) error {
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s contains a negative weight %.3f", name, w)
		}
	}
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("%s must sum to 1.0 (±0.01), got %.3f", name, sum)
	}
	return nil
}
