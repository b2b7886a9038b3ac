package model

import "time"

// Source describes one supporting source supplied with an agent analysis.
type Source struct {
	Name        string     `json:"name" yaml:"name"`                                     // Publisher or document name
	URL         string     `json:"url,omitempty" yaml:"url,omitempty"`                   // Location, used for authority classification
	PublishedAt *time.Time `json:"published_at,omitempty" yaml:"published_at,omitempty"` // Publication date when known
	Excerpt     string     `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`           // Quoted passage backing the analysis
}

// AgentAnalysis is the engine's input unit: one research agent's free-text
// analysis plus the sources it cites.
type AgentAnalysis struct {
	Agent   string   `json:"agent" yaml:"agent"`                         // Producing agent's name
	Text    string   `json:"text" yaml:"text"`                           // Free-text analysis, may contain HTML markup
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"` // Supporting sources
}

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Regulators, filings, official publications
	TierSecondary AuthorityTier = 2 // Major news and financial-data publishers
	TierTertiary  AuthorityTier = 3 // Blogs, aggregators, unclassified domains
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}
