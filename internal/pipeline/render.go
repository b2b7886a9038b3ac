package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

const banner = "═══════════════════════════════════════════════════════════"

// Renderer writes quality reports as JSON, Markdown, and a terminal
// summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer is appended to Markdown
// output only.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.QualityReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document.
func (r *Renderer) RenderMarkdown(report *model.QualityReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders the full report document.
func (r *Renderer) Markdown(report *model.QualityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Quality Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "**Verdict:** %s — %.1f/100 (%s)\n\n", verdict(report.Pass), report.OverallScore, report.Level)

	fmt.Fprintf(&b, "- Evaluated: %s\n", report.EvaluatedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.Elapsed != "" {
		fmt.Fprintf(&b, "- Elapsed: %s\n", report.Elapsed)
	}
	fmt.Fprintf(&b, "- Facts analyzed: %d\n", report.FactCount)
	if report.IterationNeeded {
		b.WriteString("- Another research iteration is needed\n")
	}
	b.WriteString("\n")

	if len(report.CriticalIssues) > 0 {
		b.WriteString("## Critical issues\n\n")
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Sub-scores\n\n")
	b.WriteString("| Component | Score |\n|-----------|------:|\n")
	fmt.Fprintf(&b, "| Facts | %.1f |\n", report.SubScores.Facts)
	fmt.Fprintf(&b, "| Contradictions | %.1f |\n", report.SubScores.Contradictions)
	fmt.Fprintf(&b, "| Gaps | %.1f |\n", report.SubScores.Gaps)
	fmt.Fprintf(&b, "| Confidence | %.1f |\n\n", report.SubScores.Confidence)

	writeSections(&b, report)
	writeContradictions(&b, report.Contradictions)
	writeGaps(&b, report.Gaps)
	writeValidation(&b, report.Validation)

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n*Generated by credence*\n")
	}

	return b.String()
}

func writeSections(b *strings.Builder, report *model.QualityReport) {
	if len(report.SectionScores) == 0 {
		return
	}

	failing := make(map[string]bool, len(report.FailingSections))
	for _, section := range report.FailingSections {
		failing[section] = true
	}

	b.WriteString("## Section coverage\n\n")
	b.WriteString("| Section | Score | Status |\n|---------|------:|--------|\n")
	for _, section := range sortedKeys(report.SectionScores) {
		status := "ok"
		if failing[section] {
			status = "failing"
		}
		fmt.Fprintf(b, "| %s | %.1f | %s |\n", section, report.SectionScores[section], status)
	}
	b.WriteString("\n")
}

func writeContradictions(b *strings.Builder, report *model.ContradictionReport) {
	if report.Total() == 0 {
		return
	}

	fmt.Fprintf(b, "## Contradictions (%d)\n\n", report.Total())
	for _, con := range report.Contradictions {
		fmt.Fprintf(b, "- **%s** [%s] %s vs %s: %s\n",
			con.Severity, con.Topic, con.FactA.Agent, con.FactB.Agent, con.Explanation)
	}
	b.WriteString("\n")
}

func writeGaps(b *strings.Builder, gaps []model.ResearchGap) {
	if len(gaps) == 0 {
		return
	}

	fmt.Fprintf(b, "## Coverage gaps (%d)\n\n", len(gaps))
	for _, gap := range gaps {
		fmt.Fprintf(b, "- **%s** %s: %s\n", gap.Severity, gap.Section, gap.Recommendation)
	}
	b.WriteString("\n")
}

func writeValidation(b *strings.Builder, summary *model.ValidationSummary) {
	if summary == nil || summary.TotalClaims == 0 {
		return
	}

	b.WriteString("## Ground-truth validation\n\n")
	if summary.Provider != "" {
		fmt.Fprintf(b, "Provider: %s — score %.1f/100\n\n", summary.Provider, summary.Score)
	}

	b.WriteString("| Field | Claimed | Reference | Outcome | Deviation |\n")
	b.WriteString("|-------|--------:|----------:|---------|----------:|\n")
	for _, report := range summary.Reports {
		deviation := "—"
		reference := "—"
		if report.Outcome != model.OutcomeUnverifiable {
			deviation = fmt.Sprintf("%.1f%%", report.DeviationPct)
			reference = fmt.Sprintf("%.4g", report.Authoritative)
		}
		fmt.Fprintf(b, "| %s | %.4g | %s | %s | %s |\n",
			report.Field, report.Claimed, reference, report.Outcome, deviation)
	}
	fmt.Fprintf(b, "\n> %s\n\n", summary.Statement)
}

// RenderSummary prints the terminal verdict to stdout.
func (r *Renderer) RenderSummary(report *model.QualityReport) {
	r.writeSummary(os.Stdout, report)
}

func (r *Renderer) writeSummary(w io.Writer, report *model.QualityReport) {
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "  Research Quality: %s\n", report.Subject)
	fmt.Fprintf(w, "%s\n\n", banner)

	fmt.Fprintf(w, "  Verdict:     %s  %.1f/100 (%s)\n", verdict(report.Pass), report.OverallScore, report.Level)
	fmt.Fprintf(w, "  Facts:       %d   Contradictions: %d   Gaps: %d\n",
		report.FactCount, report.Contradictions.Total(), len(report.Gaps))
	fmt.Fprintf(w, "  Sub-scores:  facts %.1f | contradictions %.1f | gaps %.1f | confidence %.1f\n",
		report.SubScores.Facts, report.SubScores.Contradictions, report.SubScores.Gaps, report.SubScores.Confidence)

	if v := report.Validation; v != nil && v.TotalClaims > 0 {
		fmt.Fprintf(w, "  Validation:  %d/%d verified against %s (score %.1f)\n",
			v.Verified, v.TotalClaims, v.Provider, v.Score)
	}

	if len(report.FailingSections) > 0 {
		fmt.Fprintf(w, "  Failing:     %s\n", strings.Join(report.FailingSections, ", "))
	}

	if len(report.CriticalIssues) > 0 {
		fmt.Fprintf(w, "\n  Critical issues:\n")
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(w, "    ✗ %s\n", issue)
		}
	}

	if len(report.KeyGaps) > 0 {
		fmt.Fprintf(w, "\n  Key gaps:\n")
		for _, gap := range report.KeyGaps {
			fmt.Fprintf(w, "    - %s\n", gap)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\n  Recommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "    - %s\n", rec)
		}
	}

	fmt.Fprintln(w)
}

func verdict(pass bool) string {
	if pass {
		return "✓ PASS"
	}
	return "✗ FAIL"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
