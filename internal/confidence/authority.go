package confidence

import (
	"net/url"
	"strings"

	"github.com/credenceproj/credence/internal/model"
)

// Classifier assigns authority tiers to sources by domain. Regulatory and
// official registries are primary, major news and financial-data outlets
// secondary, everything else tertiary.
type Classifier struct {
	cfg       model.AuthorityConfig
	primary   map[string]bool
	secondary map[string]bool
	overrides map[string]model.AuthorityTier
}

// NewClassifier builds a classifier from the configured domain lists.
func NewClassifier(cfg model.AuthorityConfig) *Classifier {
	c := &Classifier{
		cfg:       cfg,
		primary:   make(map[string]bool, len(cfg.PrimaryDomains)),
		secondary: make(map[string]bool, len(cfg.SecondaryDomains)),
		overrides: make(map[string]model.AuthorityTier, len(cfg.DomainMap)),
	}
	for _, d := range cfg.PrimaryDomains {
		c.primary[strings.ToLower(d)] = true
	}
	for _, d := range cfg.SecondaryDomains {
		c.secondary[strings.ToLower(d)] = true
	}
	for host, tier := range cfg.DomainMap {
		c.overrides[strings.ToLower(host)] = parseTier(tier)
	}
	return c
}

// Classify maps a source URL to an authority tier. Empty or unparseable
// URLs are tertiary.
func (c *Classifier) Classify(rawURL string) model.AuthorityTier {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		// Bundle sources often carry bare hosts without a scheme.
		u, err = url.Parse("https://" + trimmed)
		if err != nil || u.Host == "" {
			return model.TierTertiary
		}
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	// Walk parent domains so news.reuters.com matches reuters.com.
	for probe := host; probe != ""; {
		if tier, ok := c.overrides[probe]; ok {
			return tier
		}
		if c.primary[probe] {
			return model.TierPrimary
		}
		if c.secondary[probe] {
			return model.TierSecondary
		}
		idx := strings.Index(probe, ".")
		if idx < 0 {
			break
		}
		probe = probe[idx+1:]
	}

	if isOfficialHost(host) || isInvestorRelations(host, strings.ToLower(u.Path)) {
		return model.TierPrimary
	}
	return model.TierTertiary
}

// Weight converts a tier into its configured factor weight.
func (c *Classifier) Weight(tier model.AuthorityTier) float64 {
	switch tier {
	case model.TierPrimary:
		return c.cfg.PrimaryWeight
	case model.TierSecondary:
		return c.cfg.SecondaryWeight
	default:
		return c.cfg.TertiaryWeight
	}
}

// isOfficialHost covers government and academic registries not worth
// enumerating per country.
func isOfficialHost(host string) bool {
	for _, suffix := range []string{".gov", ".edu", ".gov.uk", ".ac.uk", ".mil"} {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// isInvestorRelations spots company IR properties, which speak for the
// company itself.
func isInvestorRelations(host, path string) bool {
	if strings.HasPrefix(host, "ir.") || strings.HasPrefix(host, "investor.") ||
		strings.HasPrefix(host, "investors.") {
		return true
	}
	return strings.Contains(path, "/investor-relations") || strings.Contains(path, "/investors")
}

func parseTier(s string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "official", "regulatory":
		return model.TierPrimary
	case "secondary", "news", "financial":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
