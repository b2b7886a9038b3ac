package judge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/credenceproj/credence/internal/model"
)

// OpenAIJudge implements the Judge interface over OpenAI chat models.
type OpenAIJudge struct {
	client *openai.Client
	cfg    model.JudgeConfig
}

// NewOpenAIJudge creates a new OpenAI-backed judge.
func NewOpenAIJudge(cfg model.JudgeConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (j *OpenAIJudge) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (j *OpenAIJudge) IsAvailable(ctx context.Context) bool {
	// Lightweight API call; surfaces key and connectivity problems early
	if _, err := j.client.ListModels(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// AssessClaims judges one claim pair using the Chat Completions API.
func (j *OpenAIJudge) AssessClaims(ctx context.Context, a, b string) (*Verdict, error) {
	modelName := j.cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := j.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	timeout := time.Duration(j.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(a, b),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2, // Classification, not generation
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseVerdict(strings.TrimSpace(resp.Choices[0].Message.Content))
}
