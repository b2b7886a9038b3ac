package groundtruth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/credenceproj/credence/internal/model"
)

// Provider supplies authoritative reference numbers for a subject.
type Provider interface {
	// Name identifies the provider in reports and cache keys.
	Name() string
	// Fetch returns the reference snapshot for a subject.
	Fetch(ctx context.Context, subject string) (*model.GroundTruthData, error)
}

// StaticProvider serves fixed in-memory snapshots. Bundles carry their
// ground truth inline this way, and tests use it to avoid the network.
type StaticProvider struct {
	name string
	data map[string]map[string]float64
}

// NewStaticProvider creates a provider over a subject-to-fields map.
func NewStaticProvider(name string, data map[string]map[string]float64) *StaticProvider {
	normalized := make(map[string]map[string]float64, len(data))
	for subject, fields := range data {
		normalized[normalizeSubject(subject)] = fields
	}

	return &StaticProvider{
		name: name,
		data: normalized,
	}
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return p.name
}

// Fetch returns the snapshot for a subject, or an error when the
// subject is unknown.
func (p *StaticProvider) Fetch(ctx context.Context, subject string) (*model.GroundTruthData, error) {
	fields, ok := p.data[normalizeSubject(subject)]
	if !ok {
		return nil, fmt.Errorf("no reference data for subject %q", subject)
	}

	copied := make(map[string]float64, len(fields))
	for name, value := range fields {
		copied[name] = value
	}

	return &model.GroundTruthData{
		Provider:  p.name,
		Subject:   subject,
		FetchedAt: time.Now(),
		Fields:    copied,
	}, nil
}

func normalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
