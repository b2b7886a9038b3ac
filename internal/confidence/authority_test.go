package confidence

import (
	"testing"

	"github.com/credenceproj/credence/internal/model"
)

func TestClassifier_Tiers(t *testing.T) {
	cfg := model.DefaultConfig().Confidence.Authority
	cfg.DomainMap = map[string]string{"trusted-blog.net": "secondary"}
	classifier := NewClassifier(cfg)

	tests := []struct {
		desc string
		url  string
		want model.AuthorityTier
	}{
		{"regulator", "https://www.sec.gov/cgi-bin/browse-edgar", model.TierPrimary},
		{"regulator subdomain", "https://efts.sec.gov/LATEST/search", model.TierPrimary},
		{"government suffix", "https://data.ny.gov/budget", model.TierPrimary},
		{"academic suffix", "https://som.yale.edu/research", model.TierPrimary},
		{"investor relations host", "https://ir.acme.com/annual-report", model.TierPrimary},
		{"investor relations path", "https://acme.com/investor-relations/q4", model.TierPrimary},
		{"major outlet", "https://www.reuters.com/markets/acme", model.TierSecondary},
		{"outlet subdomain", "https://live.bloomberg.com/feed", model.TierSecondary},
		{"schemeless host", "finance.yahoo.com/quote/ACME", model.TierSecondary},
		{"domain map override", "https://trusted-blog.net/posts/1", model.TierSecondary},
		{"unknown host", "https://random-blog.example.com/post", model.TierTertiary},
		{"empty url", "", model.TierTertiary},
		{"garbage", "not a url at all", model.TierTertiary},
	}

	for _, tt := range tests {
		if got := classifier.Classify(tt.url); got != tt.want {
			t.Errorf("%s: Classify(%q) = %v, want %v", tt.desc, tt.url, got, tt.want)
		}
	}
}

func TestClassifier_Weights(t *testing.T) {
	classifier := NewClassifier(model.DefaultConfig().Confidence.Authority)

	if w := classifier.Weight(model.TierPrimary); w != 1.0 {
		t.Errorf("Primary weight = %v, want 1.0", w)
	}
	if w := classifier.Weight(model.TierSecondary); w != 0.7 {
		t.Errorf("Secondary weight = %v, want 0.7", w)
	}
	if w := classifier.Weight(model.TierTertiary); w != 0.3 {
		t.Errorf("Tertiary weight = %v, want 0.3", w)
	}
	if w := classifier.Weight(model.TierUnknown); w != 0.3 {
		t.Errorf("Unknown tier weight = %v, want tertiary fallback 0.3", w)
	}
}
