package groundtruth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/credenceproj/credence/internal/model"
	"github.com/credenceproj/credence/internal/util"
	"github.com/credenceproj/credence/internal/worker"
)

const defaultFetchTimeout = 10 * time.Second

// HTTPProvider fetches reference data over HTTP: one GET per subject
// against <base-url>/<subject>, expecting a flat JSON object of named
// numeric fields plus optional "confidence" and "as_of". Single-shot,
// no retries: a missing snapshot downgrades claims to unverifiable
// instead of stalling the evaluation.
type HTTPProvider struct {
	baseURL    string
	name       string
	timeout    time.Duration
	maxBytes   int64
	userAgent  string
	httpClient *http.Client
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
}

// NewHTTPProvider creates a provider for the given base URL. The HTTP
// configuration supplies the user agent, proxy settings, and response
// size cap; fetchTimeout bounds each request on top of the caller
// context.
func NewHTTPProvider(baseURL string, fetchTimeout time.Duration, httpCfg model.HTTPConfig) (*HTTPProvider, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("provider URL %q needs a scheme and host", baseURL)
	}

	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	maxBytes := httpCfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	client := &http.Client{
		Timeout: fetchTimeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		name:       parsed.Host,
		timeout:    fetchTimeout,
		maxBytes:   maxBytes,
		userAgent:  httpCfg.UserAgent,
		httpClient: client,
		robots:     util.NewRobotsChecker(httpCfg.UserAgent, client),
		limiter:    worker.NewLimiter(1, 2),
	}, nil
}

// Name returns the provider host.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Fetch retrieves the snapshot for a subject.
func (p *HTTPProvider) Fetch(ctx context.Context, subject string) (*model.GroundTruthData, error) {
	endpoint := p.baseURL + "/" + url.PathEscape(subject)

	allowed, crawlDelay, err := p.robots.CanFetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("robots.txt disallows %s", endpoint)
	}
	if crawlDelay > 0 {
		p.limiter.SetHostRate(p.name, 1/crawlDelay.Seconds(), 1)
	}

	if err := p.limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ground truth: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return parseSnapshot(p.name, subject, body)
}

// parseSnapshot decodes a flat JSON object into a snapshot. Numeric
// values become fields; "confidence" and "as_of" are pulled out;
// anything else is ignored.
func parseSnapshot(provider, subject string, body []byte) (*model.GroundTruthData, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode ground truth: %w", err)
	}

	data := &model.GroundTruthData{
		Provider:  provider,
		Subject:   subject,
		FetchedAt: time.Now(),
		Fields:    make(map[string]float64),
	}

	for key, value := range raw {
		switch key {
		case "confidence":
			if v, ok := value.(float64); ok {
				data.Confidence = v
			}
		case "as_of":
			if s, ok := value.(string); ok {
				if t, err := parseAsOf(s); err == nil {
					data.FetchedAt = t
				}
			}
		default:
			if v, ok := value.(float64); ok {
				data.Fields[key] = v
			}
		}
	}

	if len(data.Fields) == 0 {
		return nil, fmt.Errorf("ground truth for %q has no numeric fields", subject)
	}

	return data, nil
}

func parseAsOf(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
