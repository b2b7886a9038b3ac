package judge

import (
	"fmt"
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

// NewJudge creates a semantic judge from configuration. An empty provider
// returns (nil, nil): contradiction detection then runs its numeric rule
// path alone.
func NewJudge(cfg model.JudgeConfig) (Judge, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIJudge(cfg)

	case "anthropic", "claude":
		return NewAnthropicJudge(cfg)

	case "ollama":
		return NewOllamaJudge(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown judge provider: %s (supported: openai, anthropic, ollama)", cfg.Provider)
	}
}
