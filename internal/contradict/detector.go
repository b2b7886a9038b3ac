package contradict

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/credenceproj/credence/internal/judge"
	"github.com/credenceproj/credence/internal/model"
)

// officialPhrases mark a fact as citing an official or regulatory source,
// which settles the resolution strategy.
var officialPhrases = []string{
	"sec filing", "sec.gov", "10-k", "10-q", "8-k", "annual report",
	"quarterly report", "earnings report", "earnings call", "press release",
	"investor relations", "regulatory filing", "proxy statement", "official",
}

// Detector finds contradictions across the pooled facts of all agents. It
// is numeric-first: comparable quantities are judged by relative deviation,
// and only non-comparable pairs may be routed to the optional semantic
// judge. With a nil judge the detector is fully functional.
type Detector struct {
	cfg    model.ContradictionConfig
	judge  judge.Judge
	logger *zap.Logger
}

// NewDetector builds a detector. judge may be nil (numeric-only mode);
// a nil logger is replaced with a no-op one.
func NewDetector(cfg model.ContradictionConfig, j judge.Judge, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{cfg: cfg, judge: j, logger: logger}
}

// Detect compares every cross-agent fact pair within each topic bucket and
// reports the disagreements. It never fails: judge errors and unparseable
// numbers skip the pair.
func (d *Detector) Detect(ctx context.Context, facts []model.Fact) *model.ContradictionReport {
	report := &model.ContradictionReport{
		CountsBySeverity: make(map[model.Severity]int),
		FactsAnalyzed:    len(facts),
	}

	buckets, order := bucketByTopic(facts)
	for _, topic := range order {
		group := buckets[topic]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.Agent == b.Agent {
					continue
				}
				report.PairsCompared++

				c, comparable, found := d.compareNumeric(topic, a, b)
				if comparable {
					if found {
						d.record(report, c)
					}
					continue // Agreeing numbers are not a judge question
				}
				if c, ok := d.assessSemantic(ctx, report, topic, a, b); ok {
					d.record(report, c)
				}
			}
		}
	}

	return report
}

// bucketByTopic groups facts by topic, preserving first-seen topic order so
// detection output is deterministic.
func bucketByTopic(facts []model.Fact) (map[string][]model.Fact, []string) {
	buckets := make(map[string][]model.Fact)
	var order []string
	for _, fact := range facts {
		topic := topicOf(fact.Content, string(fact.Category))
		if _, seen := buckets[topic]; !seen {
			order = append(order, topic)
		}
		buckets[topic] = append(buckets[topic], fact)
	}
	return buckets, order
}

// compareNumeric applies the relative-deviation rule to a pair. comparable
// reports whether both facts carry a dominant quantity of the same unit
// kind; found reports whether the deviation exceeds the reporting floor.
func (d *Detector) compareNumeric(topic string, a, b model.Fact) (c model.Contradiction, comparable, found bool) {
	qa, okA := a.Entities.Dominant()
	qb, okB := b.Entities.Dominant()
	if !okA || !okB || qa.Unit != qb.Unit {
		return model.Contradiction{}, false, false
	}

	dev := deviation(qa.Value, qb.Value)
	if dev <= d.cfg.MinDeviation {
		return model.Contradiction{}, true, false
	}

	devPct := dev * 100
	return model.Contradiction{
		ID:           uuid.NewString(),
		Topic:        topic,
		Severity:     d.severityFor(dev),
		FactA:        a,
		FactB:        b,
		DeviationPct: devPct,
		Method:       model.MethodNumeric,
		Explanation: fmt.Sprintf("%s and %s disagree on %s: %s vs %s (%.1f%% apart)",
			a.Agent, b.Agent, topic, qa.Raw, qb.Raw, devPct),
		Resolution: resolve(a, b),
	}, true, true
}

// assessSemantic routes a non-comparable pair to the judge, respecting the
// per-evaluation call budget. Judge failures skip the pair.
func (d *Detector) assessSemantic(ctx context.Context, report *model.ContradictionReport, topic string, a, b model.Fact) (model.Contradiction, bool) {
	if d.judge == nil || report.JudgeCalls >= d.cfg.JudgeBudget {
		return model.Contradiction{}, false
	}
	if ctx.Err() != nil {
		return model.Contradiction{}, false
	}

	report.JudgeCalls++
	verdict, err := d.judge.AssessClaims(ctx, a.Content, b.Content)
	if err != nil {
		d.logger.Warn("semantic judge call failed",
			zap.String("topic", topic),
			zap.String("judge", d.judge.Name()),
			zap.Error(err))
		return model.Contradiction{}, false
	}
	if !verdict.Conflict || verdict.Confidence < d.cfg.MinJudgeConfidence {
		return model.Contradiction{}, false
	}

	severity := model.SeverityMedium
	if verdict.Confidence >= d.cfg.HighJudgeConfidence {
		severity = model.SeverityHigh
	}

	return model.Contradiction{
		ID:          uuid.NewString(),
		Topic:       topic,
		Severity:    severity,
		FactA:       a,
		FactB:       b,
		Method:      model.MethodSemantic,
		Explanation: verdict.Explanation,
		Resolution:  resolve(a, b),
	}, true
}

func (d *Detector) record(report *model.ContradictionReport, c model.Contradiction) {
	report.Contradictions = append(report.Contradictions, c)
	report.CountsBySeverity[c.Severity]++
}

// severityFor bands a fractional deviation. Cutoffs are strict lower
// bounds.
func (d *Detector) severityFor(dev float64) model.Severity {
	switch {
	case dev > d.cfg.CriticalDeviation:
		return model.SeverityCritical
	case dev > d.cfg.HighDeviation:
		return model.SeverityHigh
	case dev > d.cfg.MediumDeviation:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// resolve picks a settlement strategy: when exactly one side cites an
// official source, prefer it; otherwise the pair needs investigation.
func resolve(a, b model.Fact) model.Resolution {
	officialA := citesOfficial(a.Content)
	officialB := citesOfficial(b.Content)
	if officialA != officialB {
		return model.ResolutionUseOfficialSource
	}
	return model.ResolutionInvestigate
}

func citesOfficial(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range officialPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// deviation is the relative difference of two values against the larger
// magnitude, as a fraction.
func deviation(a, b float64) float64 {
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}
