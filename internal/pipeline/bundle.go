package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/credenceproj/credence/internal/model"
)

// Bundle is one evaluation input file: the research output of every agent
// for a single subject, optionally with an inline reference snapshot.
type Bundle struct {
	Subject     string                `json:"subject" yaml:"subject"`
	SubjectID   string                `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
	Analyses    []model.AgentAnalysis `json:"analyses" yaml:"analyses"`
	GroundTruth map[string]float64    `json:"ground_truth,omitempty" yaml:"ground_truth,omitempty"`
}

// Key returns the identifier used for ground-truth lookups.
func (b *Bundle) Key() string {
	if b.SubjectID != "" {
		return b.SubjectID
	}
	return b.Subject
}

// Request converts the bundle into an engine request.
func (b *Bundle) Request() *EvaluateRequest {
	return &EvaluateRequest{
		Subject:   b.Subject,
		SubjectID: b.SubjectID,
		Analyses:  b.Analyses,
	}
}

// LoadBundle reads a research bundle from a JSON or YAML file, chosen by
// extension. A malformed bundle is a load-time error, not an evaluation
// degradation.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var bundle Bundle
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("bundle %s: unsupported extension %q, want .json, .yaml or .yml", path, ext)
	}

	if err := bundle.validate(); err != nil {
		return nil, fmt.Errorf("bundle %s: %w", path, err)
	}

	return &bundle, nil
}

func (b *Bundle) validate() error {
	if strings.TrimSpace(b.Subject) == "" {
		return errors.New("missing subject")
	}
	if len(b.Analyses) == 0 {
		return errors.New("no analyses")
	}
	for i, analysis := range b.Analyses {
		if strings.TrimSpace(analysis.Agent) == "" {
			return fmt.Errorf("analysis %d has no agent name", i)
		}
		if strings.TrimSpace(analysis.Text) == "" {
			return fmt.Errorf("analysis %d (%s) has no text", i, analysis.Agent)
		}
	}
	return nil
}
