package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/credenceproj/credence/internal/model"
	"github.com/credenceproj/credence/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	gate          bool
	providerURL   string
	judgeProvider string
	judgeModel    string
	passThreshold float64
	evalTimeout   time.Duration
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <bundle>",
	Short: "Evaluate a research bundle and produce a quality report",
	Long: `Evaluate runs the full verification pipeline against one research
bundle: fact extraction, confidence scoring, contradiction detection,
ground-truth validation, coverage analysis and the final quality
verdict.

The bundle is a JSON or YAML file holding the subject and every agent
analysis from one research round. When the bundle carries an inline
ground_truth block, claims are checked against it; otherwise the
configured provider is used, if any.

Example:
  # Evaluate a bundle and print the summary
  credence evaluate research/apple.json

  # Write the full report alongside the summary
  credence evaluate research/apple.json --json report.json --md report.md

  # Fail the process when the research does not pass (for CI gates)
  credence evaluate research/apple.json --gate

  # Check claims against a reference-data service
  credence evaluate research/apple.json --provider-url http://localhost:9090`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&outJSON, "json", "", "write the full report as JSON to this path")
	evaluateCmd.Flags().StringVar(&outMD, "md", "", "write the report as Markdown to this path")
	evaluateCmd.Flags().BoolVar(&gate, "gate", false, "exit non-zero when the research fails the quality threshold")
	evaluateCmd.Flags().StringVar(&providerURL, "provider-url", "", "base URL of a ground-truth provider service")
	evaluateCmd.Flags().StringVar(&judgeProvider, "judge", "", "LLM judge provider: openai, anthropic or ollama")
	evaluateCmd.Flags().StringVar(&judgeModel, "judge-model", "", "override the judge model name")
	evaluateCmd.Flags().Float64Var(&passThreshold, "pass-threshold", 0, "overall score required to pass (0 keeps the default)")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 2*time.Minute, "timeout for the whole evaluation")

	rootCmd.AddCommand(evaluateCmd)
}

// buildConfig assembles the engine config: defaults, then the config
// file, then flags and environment variables. Shared by evaluate and
// batch.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// An explicit --config that cannot be read is an error; a missing
	// default config file is not.
	file := viper.ConfigFileUsed()
	if cfgFile != "" {
		file = cfgFile
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Output.Verbose = verbose

	if providerURL != "" {
		cfg.GroundTruth.ProviderURL = providerURL
	}
	if passThreshold > 0 {
		cfg.Quality.PassThreshold = passThreshold
	}

	if judgeProvider != "" {
		cfg.Judge.Provider = judgeProvider
		if judgeModel != "" {
			cfg.Judge.Model = judgeModel
		}

		switch judgeProvider {
		case "openai":
			cfg.Judge.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Judge.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.Judge.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.Judge.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
				cfg.Judge.BaseURL = url
			}
		}
	}

	return cfg, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙ Evaluating: %s\n", path)
	}

	engine, err := pipeline.New(cfg, pipeline.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	report, err := engine.EvaluateFile(ctx, path)
	if err != nil {
		return fmt.Errorf("evaluate failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Analyzed %d facts\n", report.FactCount)
		fmt.Fprintf(os.Stderr, "✓ Overall score: %.1f/100 (%s)\n", report.OverallScore, report.Level)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)

	if gate && !report.Pass {
		return fmt.Errorf("quality gate: %s scored %.1f (%s), below the %.0f threshold",
			report.Subject, report.OverallScore, report.Level, cfg.Quality.PassThreshold)
	}
	return nil
}
