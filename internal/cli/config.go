package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/credenceproj/credence/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Credence configuration",
	Long: `Manage Credence configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CREDENCE_*)
3. Config file (~/.credence/config.yaml)
4. Defaults`,
}

// sectionNotes maps top-level config keys to the comment written above
// them by config init.
var sectionNotes = map[string]string{
	"extraction":    "Fact extraction from research bundles",
	"contradiction": "Numeric tolerance bands for conflicting claims",
	"confidence":    "Per-fact confidence scoring weights",
	"ground_truth":  "Reference data fetching and caching",
	"coverage":      "Expected sections for a complete company profile",
	"quality":       "Overall scoring weights and the pass gate",
	"judge":         "Optional LLM tie-breaker for contested claims",
	"http":          "Outbound HTTP client and proxy settings",
	"output":        "Report rendering",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, environment variables, and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := viper.ConfigFileUsed()
		if cfgFile != "" {
			file = cfgFile
		}
		if file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Effective Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println(string(yamlData))

		judgeLine := cfg.Judge.Provider
		if judgeLine == "" {
			judgeLine = "none (heuristic scoring only)"
		} else if cfg.Judge.Model != "" {
			judgeLine += "/" + cfg.Judge.Model
		}
		sourceLine := cfg.GroundTruth.ProviderURL
		if sourceLine == "" {
			sourceLine = "none (inline or static reference data only)"
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Key settings:")
		fmt.Printf("  Pass threshold:    %.0f/100\n", cfg.Quality.PassThreshold)
		fmt.Printf("  Judge:             %s\n", judgeLine)
		fmt.Printf("  Reference source:  %s\n", sourceLine)
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (CREDENCE_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.credence/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.credence/config.yaml with every section documented.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.credence"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'credence config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		// Helper for writing with error checking
		printf := func(format string, a ...interface{}) {
			if err != nil {
				return
			}
			_, err = fmt.Fprintf(f, format, a...)
		}

		printf("# Credence Configuration File\n")
		printf("# Generated by 'credence config init'. Every value below is the\n")
		printf("# built-in default; edit only what you want to change.\n")
		printf("#\n")
		printf("# Configuration hierarchy (highest to lowest priority):\n")
		printf("#   1. CLI flags\n")
		printf("#   2. Environment variables (CREDENCE_*)\n")
		printf("#   3. This config file\n")
		printf("#   4. Built-in defaults\n")

		if wErr := writeCommentedConfig(printf); wErr != nil {
			return wErr
		}

		printf("\n# API keys are read from the environment, never from this file:\n")
		printf("#   export OPENAI_API_KEY=sk-...\n")
		printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
		printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

		if err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  credence config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

// writeCommentedConfig emits the default configuration as YAML with a
// comment line introducing each top-level section.
func writeCommentedConfig(printf func(format string, a ...interface{})) error {
	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	for _, line := range strings.Split(strings.TrimRight(string(yamlData), "\n"), "\n") {
		if key, ok := strings.CutSuffix(line, ":"); ok && !strings.HasPrefix(line, " ") {
			printf("\n")
			if note, known := sectionNotes[key]; known {
				printf("# %s\n", note)
			}
		}
		printf("%s\n", line)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
