package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/credenceproj/credence/internal/pipeline"
	"github.com/credenceproj/credence/internal/worker"
)

var (
	workers      int
	outDir       string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Evaluate multiple research bundles in parallel",
	Long: `Batch evaluates every bundle listed in a file, one path per line.
Blank lines and #-comments are skipped.

Each bundle runs through the same pipeline as the evaluate command,
and a JSON and Markdown report is written per bundle into the output
directory. A bundle that fails to load or evaluate is reported and
skipped; it never stops the rest of the batch.

Example:
  credence batch bundles.txt
  credence batch bundles.txt --workers 8 --out-dir ./reports
  credence batch bundles.txt --provider-url http://localhost:9090`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Batch flags
	batchCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of concurrent evaluations")
	batchCmd.Flags().StringVar(&outDir, "out-dir", "./credence-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Inherit flags from evaluate command
	batchCmd.Flags().StringVar(&providerURL, "provider-url", "", "base URL of a ground-truth provider service")
	batchCmd.Flags().StringVar(&judgeProvider, "judge", "", "LLM judge provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&judgeModel, "judge-model", "", "override the judge model name")
	batchCmd.Flags().Float64Var(&passThreshold, "pass-threshold", 0, "overall score required to pass (0 keeps the default)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Credence Batch Evaluation\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if judgeProvider != "" {
		judgeLabel := cfg.Judge.Provider
		if cfg.Judge.Model != "" {
			judgeLabel += "/" + cfg.Judge.Model
		}
		fmt.Fprintf(os.Stderr, "  Judge:        %s\n", judgeLabel)
	}

	// Create output directory
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create engine
	engine, err := pipeline.New(cfg, pipeline.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	// Create batch processor
	processor := worker.NewBatchProcessor(engine, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Evaluating bundles with %d workers...\n", workers)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := processor.ProcessFile(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	passCount := 0
	failCount := 0
	errorCount := 0

	for _, result := range results {
		if result.Error != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		report := result.Report

		// Generate output file names
		slug := sanitizeFilename(report.Subject)
		jsonPath := filepath.Join(outDir, slug+".json")
		mdPath := filepath.Join(outDir, slug+".md")

		// Render report
		if err := renderer.RenderJSON(report, jsonPath); err != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(report, mdPath); err != nil {
			errorCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		glyph := "✓"
		if report.Pass {
			passCount++
		} else {
			failCount++
			glyph = "✗"
		}
		fmt.Fprintf(os.Stderr, "%s %s: %.1f/100 (%s)\n", glyph, report.Subject, report.OverallScore, report.Level)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Bundles:   %d\n", len(results))
	fmt.Fprintf(os.Stderr, "  Passed:    %d\n", passCount)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", failCount)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errorCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outDir)
	fmt.Fprintf(os.Stderr, "\n")

	// A failing bundle is a result, not a batch error.
	return nil
}

// sanitizeFilename sanitizes a subject name for use as a filename
func sanitizeFilename(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r == ' ', r == '-', r == '_', r == '.':
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "report"
	}

	// Limit length
	if len(out) > 100 {
		out = out[:100]
	}

	return out
}
