package groundtruth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/credenceproj/credence/internal/cache"
	"github.com/credenceproj/credence/internal/model"
)

// Validator checks numeric claims in agent analyses against an
// authoritative provider and scores the agreement.
type Validator struct {
	registry *Registry
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewValidator creates a validator. The cache is caller-owned and may
// be nil to disable caching. A nil provider leaves every claim
// unverifiable.
func NewValidator(cfg model.GroundTruthConfig, provider Provider, c cache.Cache, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Validator{
		registry: NewRegistry(cfg.Fields),
		provider: provider,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// Validate extracts field claims from every analysis and compares them
// with the provider's snapshot. Fetch failures are logged and leave the
// claims unverifiable; they never abort the evaluation.
func (v *Validator) Validate(ctx context.Context, subject string, analyses map[string]string) *model.ValidationSummary {
	claims := v.collectClaims(analyses)
	truth := v.fetchTruth(ctx, subject)

	summary := &model.ValidationSummary{
		Reports:      make([]model.ValidationReport, 0, len(claims)),
		Counts:       make(map[model.ValidationOutcome]int),
		TotalClaims:  len(claims),
		TruthFetched: truth != nil,
	}
	if v.provider != nil {
		summary.Provider = v.provider.Name()
	}

	for _, claim := range claims {
		report := compare(claim, truth)
		summary.Reports = append(summary.Reports, report)
		summary.Counts[report.Outcome]++
	}

	summary.Verified = summary.Counts[model.OutcomeVerified]
	summary.Score = aggregateScore(summary)
	summary.Statement = statement(summary)

	return summary
}

// collectClaims walks the analyses in agent order so reports come out
// deterministic.
func (v *Validator) collectClaims(analyses map[string]string) []Claim {
	agents := make([]string, 0, len(analyses))
	for agent := range analyses {
		agents = append(agents, agent)
	}
	sort.Strings(agents)

	var claims []Claim
	for _, agent := range agents {
		claims = append(claims, v.registry.ExtractClaims(agent, analyses[agent])...)
	}
	return claims
}

// fetchTruth returns the snapshot for a subject, consulting the cache
// first. A nil return means no ground truth is available.
func (v *Validator) fetchTruth(ctx context.Context, subject string) *model.GroundTruthData {
	if v.provider == nil {
		return nil
	}

	key := cache.Key(v.provider.Name(), subject)

	if v.cache != nil {
		if raw, ok := v.cache.Get(key); ok {
			var data model.GroundTruthData
			if err := json.Unmarshal(raw, &data); err == nil {
				return &data
			}
			_ = v.cache.Delete(key)
		}
	}

	data, err := v.provider.Fetch(ctx, subject)
	if err != nil {
		v.logger.Warn("ground truth fetch failed",
			zap.String("subject", subject),
			zap.String("provider", v.provider.Name()),
			zap.Error(err))
		return nil
	}

	if v.cache != nil {
		if raw, err := json.Marshal(data); err == nil {
			_ = v.cache.Set(key, raw, v.ttl)
		}
	}

	return data
}

// compare classifies one claim against the snapshot. A nil snapshot or
// a missing field leaves the claim unverifiable.
func compare(claim Claim, truth *model.GroundTruthData) model.ValidationReport {
	report := model.ValidationReport{
		Field:   claim.Field.Name,
		Agent:   claim.Agent,
		Claimed: claim.Value,
	}

	authoritative, ok := truth.Field(claim.Field.Name)
	if !ok {
		report.Outcome = model.OutcomeUnverifiable
		return report
	}

	report.Authoritative = authoritative
	report.DeviationPct = deviationPct(claim.Value, authoritative)

	tolerance := claim.Field.Tolerance
	switch {
	case report.DeviationPct <= tolerance:
		report.Outcome = model.OutcomeVerified
	case report.DeviationPct <= 2*tolerance:
		report.Outcome = model.OutcomeApproximate
	default:
		report.Outcome = model.OutcomeContradicted
		report.Recommendation = fmt.Sprintf("restate %s as %s (claimed %s is %.1f%% off)",
			claim.Field.Name,
			formatAmount(authoritative, claim.Field.Percent),
			formatAmount(claim.Value, claim.Field.Percent),
			report.DeviationPct)
	}

	return report
}

// deviationPct is relative to the authoritative value. A zero authority
// against a nonzero claim is a full miss.
func deviationPct(claimed, authoritative float64) float64 {
	if authoritative == 0 {
		if claimed == 0 {
			return 0
		}
		return 100
	}
	return math.Abs(claimed-authoritative) / math.Abs(authoritative) * 100
}

// aggregateScore is (verified + 0.7*approximate) / total * 100, minus
// 20 per contradiction, floored at zero. No claims is neutral.
func aggregateScore(s *model.ValidationSummary) float64 {
	if s.TotalClaims == 0 {
		return 50
	}

	verified := float64(s.Counts[model.OutcomeVerified])
	approximate := float64(s.Counts[model.OutcomeApproximate])
	contradicted := float64(s.Counts[model.OutcomeContradicted])

	score := (verified + 0.7*approximate) / float64(s.TotalClaims) * 100
	score -= 20 * contradicted
	if score < 0 {
		score = 0
	}
	return score
}

func statement(s *model.ValidationSummary) string {
	if s.TotalClaims == 0 {
		return "No verifiable numeric claims were found; validation is neutral."
	}

	msg := fmt.Sprintf("Verified %d of %d claims (%d approximate, %d contradicted, %d unverifiable).",
		s.Verified, s.TotalClaims,
		s.Counts[model.OutcomeApproximate],
		s.Counts[model.OutcomeContradicted],
		s.Counts[model.OutcomeUnverifiable])

	if !s.TruthFetched {
		msg += " Ground truth could not be fetched."
	} else if 2*s.Counts[model.OutcomeUnverifiable] > s.TotalClaims {
		msg += " Most claims could not be checked against the source."
	}

	return msg
}

// formatAmount renders a value the way analyses state it: percents with
// a sign, large absolutes with a magnitude suffix.
func formatAmount(v float64, percent bool) string {
	if percent {
		return fmt.Sprintf("%.2f%%", v)
	}

	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%g", v)
	}
}
