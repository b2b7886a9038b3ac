package gaps

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/credenceproj/credence/internal/model"
)

// Identifier finds coverage holes in a fact set against the taxonomy.
// A fact may count toward several sections; matching is by category
// or keyword.
type Identifier struct {
	cfg model.CoverageConfig
}

// NewIdentifier creates an identifier over a coverage taxonomy.
func NewIdentifier(cfg model.CoverageConfig) *Identifier {
	return &Identifier{cfg: cfg}
}

// Identify returns the research gaps and the per-section coverage
// table, both in taxonomy order.
func (i *Identifier) Identify(facts []model.Fact) ([]model.ResearchGap, []model.SectionCoverage) {
	gaps := make([]model.ResearchGap, 0)
	coverage := make([]model.SectionCoverage, 0, len(i.cfg.Sections))

	for _, section := range i.cfg.Sections {
		matched := matchFacts(section, facts)
		covered, missing := fieldCoverage(section, matched)

		sc := model.SectionCoverage{
			Section:       section.Name,
			FactCount:     len(matched),
			MinFacts:      section.MinFacts,
			FieldsCovered: covered,
			FieldsMissing: missing,
			Score:         sectionScore(section, len(matched), len(covered)),
		}
		coverage = append(coverage, sc)

		if len(matched) < section.MinFacts {
			gaps = append(gaps, model.ResearchGap{
				ID:       uuid.NewString(),
				Section:  section.Name,
				Severity: model.SeverityHigh,
				Recommendation: fmt.Sprintf("Add research on %s: only %d of %d required facts found",
					label(section.Name), len(matched), section.MinFacts),
			})
		}

		for _, field := range missing {
			gaps = append(gaps, model.ResearchGap{
				ID:       uuid.NewString(),
				Section:  section.Name,
				Field:    field,
				Severity: fieldSeverity(i.cfg, section.Weight),
				Recommendation: fmt.Sprintf("Cover %s in the %s section",
					label(field), label(section.Name)),
			})
		}
	}

	return gaps, coverage
}

// matchFacts selects the facts belonging to a section, by category
// membership or keyword mention.
func matchFacts(section model.CoverageSection, facts []model.Fact) []model.Fact {
	var matched []model.Fact

	for _, fact := range facts {
		if factMatches(section, fact) {
			matched = append(matched, fact)
		}
	}

	return matched
}

func factMatches(section model.CoverageSection, fact model.Fact) bool {
	for _, category := range section.Categories {
		if fact.Category == category {
			return true
		}
	}

	content := strings.ToLower(fact.Content)
	for _, keyword := range section.Keywords {
		if strings.Contains(content, keyword) {
			return true
		}
	}

	return false
}

// fieldCoverage splits a section's expected sub-fields into those some
// matched fact mentions and those nothing mentions.
func fieldCoverage(section model.CoverageSection, matched []model.Fact) (covered, missing []string) {
	covered = make([]string, 0, len(section.Fields))
	missing = make([]string, 0)

	for _, field := range section.Fields {
		if fieldMentioned(field, matched) {
			covered = append(covered, field.Name)
		} else {
			missing = append(missing, field.Name)
		}
	}

	return covered, missing
}

func fieldMentioned(field model.CoverageField, facts []model.Fact) bool {
	for _, fact := range facts {
		content := strings.ToLower(fact.Content)
		for _, keyword := range field.Keywords {
			if strings.Contains(content, keyword) {
				return true
			}
		}
	}
	return false
}

// sectionScore blends fact volume (70%) with field coverage (30%).
func sectionScore(section model.CoverageSection, factCount, coveredFields int) float64 {
	volume := 1.0
	if section.MinFacts > 0 {
		volume = float64(factCount) / float64(section.MinFacts)
		if volume > 1 {
			volume = 1
		}
	}

	fields := 1.0
	if len(section.Fields) > 0 {
		fields = float64(coveredFields) / float64(len(section.Fields))
	}

	return 70*volume + 30*fields
}

// fieldSeverity scales a missing sub-field by how much its section
// matters.
func fieldSeverity(cfg model.CoverageConfig, weight float64) model.Severity {
	switch {
	case weight >= cfg.HighWeight:
		return model.SeverityHigh
	case weight >= cfg.MediumWeight:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func label(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
