package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/credenceproj/credence/internal/cache"
	"github.com/credenceproj/credence/internal/confidence"
	"github.com/credenceproj/credence/internal/contradict"
	"github.com/credenceproj/credence/internal/extract"
	"github.com/credenceproj/credence/internal/gaps"
	"github.com/credenceproj/credence/internal/groundtruth"
	"github.com/credenceproj/credence/internal/judge"
	"github.com/credenceproj/credence/internal/model"
	"github.com/credenceproj/credence/internal/quality"
)

// cacheSweepInterval is how often the default ground-truth cache evicts
// expired snapshots.
const cacheSweepInterval = 10 * time.Minute

// EvaluateRequest is one research iteration handed to the engine: the
// subject plus every agent's analysis.
type EvaluateRequest struct {
	Subject   string                `json:"subject"`
	SubjectID string                `json:"subject_id,omitempty"` // Provider lookup key; Subject is used when empty
	Analyses  []model.AgentAnalysis `json:"analyses"`
}

// Key returns the identifier used for ground-truth lookups.
func (r *EvaluateRequest) Key() string {
	if r.SubjectID != "" {
		return r.SubjectID
	}
	return r.Subject
}

// Engine joins the verification stages into one evaluation pass. It is
// safe for concurrent use; the ground-truth cache is the only shared
// state.
type Engine struct {
	cfg        *model.Config
	extractor  *extract.Extractor
	scorer     *confidence.Scorer
	detector   *contradict.Detector
	validator  *groundtruth.Validator // nil when no provider is configured
	identifier *gaps.Identifier
	critic     *quality.Critic
	gtCache    cache.Cache
	logger     *zap.Logger
}

type options struct {
	judge    judge.Judge
	provider groundtruth.Provider
	cache    cache.Cache
	logger   *zap.Logger
}

// Option adjusts engine construction.
type Option func(*options)

// WithJudge injects a semantic judge, overriding the config-selected one.
func WithJudge(j judge.Judge) Option {
	return func(o *options) { o.judge = j }
}

// WithProvider injects a ground-truth provider, overriding the config URL.
func WithProvider(p groundtruth.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithCache replaces the default in-memory ground-truth cache.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithLogger sets the engine logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds an engine from a validated config. A nil config means the
// calibrated defaults.
func New(cfg *model.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	j := o.judge
	if j == nil {
		built, err := judge.NewJudge(cfg.Judge)
		if err != nil {
			return nil, fmt.Errorf("judge: %w", err)
		}
		j = built
	}

	provider := o.provider
	if provider == nil && cfg.GroundTruth.ProviderURL != "" {
		p, err := groundtruth.NewHTTPProvider(cfg.GroundTruth.ProviderURL, cfg.GroundTruth.FetchTimeout, cfg.HTTP)
		if err != nil {
			return nil, fmt.Errorf("ground truth provider: %w", err)
		}
		provider = p
	}

	gtCache := o.cache
	if gtCache == nil {
		gtCache = cache.NewMemoryCache(cfg.GroundTruth.CacheTTL, cacheSweepInterval)
	}

	var validator *groundtruth.Validator
	if provider != nil {
		validator = groundtruth.NewValidator(cfg.GroundTruth, provider, gtCache, o.logger)
	}

	return &Engine{
		cfg:        cfg,
		extractor:  extract.NewExtractor(cfg.Extraction),
		scorer:     confidence.NewScorer(cfg.Confidence),
		detector:   contradict.NewDetector(cfg.Contradiction, j, o.logger),
		validator:  validator,
		identifier: gaps.NewIdentifier(cfg.Coverage),
		critic:     quality.NewCritic(cfg.Quality),
		gtCache:    gtCache,
		logger:     o.logger,
	}, nil
}

// Evaluate runs one verification pass over a finished research iteration.
// An error means the request itself was unusable; every content-level
// problem degrades into the report instead.
func (e *Engine) Evaluate(ctx context.Context, req *EvaluateRequest) (*model.QualityReport, error) {
	return e.evaluate(ctx, req, e.validator)
}

func (e *Engine) evaluate(ctx context.Context, req *EvaluateRequest, validator *groundtruth.Validator) (*model.QualityReport, error) {
	if req == nil {
		return nil, errors.New("nil evaluate request")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, errors.New("evaluate request has no subject")
	}
	if len(req.Analyses) == 0 {
		return nil, errors.New("evaluate request has no analyses")
	}

	start := time.Now()

	// 1. Extract facts per analysis, scoring each fact against the same
	// analysis' sources.
	var facts []model.Fact
	var scored []confidence.Result
	for _, analysis := range req.Analyses {
		extracted := e.extractor.Extract(analysis.Agent, analysis.Text)
		for _, fact := range extracted {
			scored = append(scored, e.scorer.Score(fact, analysis.Sources))
		}
		facts = append(facts, extracted...)
	}
	dist := confidence.Distribution(scored)

	e.logger.Debug("facts extracted",
		zap.String("subject", req.Subject),
		zap.Int("agents", len(req.Analyses)),
		zap.Int("facts", len(facts)))

	// 2. Detect contradictions across the pooled facts.
	contradictions := e.detector.Detect(ctx, facts)

	// 3. Validate numeric claims against authoritative data when a
	// provider is available.
	var validation *model.ValidationSummary
	if validator != nil {
		analyses := make(map[string]string, len(req.Analyses))
		for _, analysis := range req.Analyses {
			analyses[analysis.Agent] = analysis.Text
		}
		validation = validator.Validate(ctx, req.Key(), analyses)
	}

	// 4. Identify coverage gaps.
	gapList, coverage := e.identifier.Identify(facts)

	// 5. Aggregate the verdict.
	report := e.critic.Assess(quality.Input{
		Subject:        req.Subject,
		Facts:          facts,
		Confidence:     dist,
		Contradictions: contradictions,
		Gaps:           gapList,
		Coverage:       coverage,
		Validation:     validation,
	})
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()

	return report, nil
}

// EvaluateFile loads a research bundle and evaluates it. A bundle carrying
// inline ground truth is checked against that data instead of the
// configured provider, so single and batch runs treat bundles the same
// way.
func (e *Engine) EvaluateFile(ctx context.Context, path string) (*model.QualityReport, error) {
	bundle, err := LoadBundle(path)
	if err != nil {
		return nil, err
	}

	validator := e.validator
	if len(bundle.GroundTruth) > 0 {
		static := groundtruth.NewStaticProvider("bundle", map[string]map[string]float64{
			bundle.Key(): bundle.GroundTruth,
		})
		// No cache: two bundles may carry different snapshots for the
		// same subject key.
		validator = groundtruth.NewValidator(e.cfg.GroundTruth, static, nil, e.logger)
	}

	return e.evaluate(ctx, bundle.Request(), validator)
}
