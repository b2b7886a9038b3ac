package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Judge renders a verdict on whether two research claims conflict. It is
// optional everywhere it is consumed: detection runs numeric-only without
// one.
type Judge interface {
	// Name returns the provider name
	Name() string

	// AssessClaims judges whether two claims contradict each other
	AssessClaims(ctx context.Context, a, b string) (*Verdict, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Verdict is a judge's answer for one claim pair.
type Verdict struct {
	Conflict    bool    `json:"conflict"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

const systemPrompt = "You are a fact-checking assistant that compares research claims about companies. Respond with a single JSON object and nothing else."

// BuildPrompt constructs the conflict-assessment prompt for a claim pair.
func BuildPrompt(a, b string) string {
	return fmt.Sprintf(`Two research agents made these claims about the same company:

Claim A: %s
Claim B: %s

Do the claims contradict each other? Paraphrases, different aspects of the
same topic, and compatible statements are NOT contradictions; only mutually
exclusive assertions are.

Respond with ONLY this JSON object, no prose:
{"conflict": true or false, "confidence": 0.0 to 1.0, "explanation": "one sentence"}`, a, b)
}

// parseVerdict decodes the first JSON object found in a completion. Models
// sometimes wrap the object in prose or code fences.
func parseVerdict(completion string) (*Verdict, error) {
	raw := extractJSONObject(completion)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in judge response")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return nil, fmt.Errorf("verdict confidence %v out of [0,1]", v.Confidence)
	}
	return &v, nil
}

// extractJSONObject returns the first balanced {...} block in s, honoring
// string literals and escapes.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
