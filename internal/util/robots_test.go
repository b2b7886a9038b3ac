package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testRobots = `User-agent: credence
Disallow: /private
Crawl-delay: 2

User-agent: *
Disallow:
`

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, testRobots)
	}))
	defer server.Close()

	checker := NewRobotsChecker("credence/1.0 (+https://example.com/bot)", nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/reference/acme")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /reference/acme to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/data")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("expected /private/data to be disallowed")
	}

	// Both checks hit the same host: one robots.txt fetch
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 robots.txt fetch, got %d", got)
	}
}

func TestRobotsChecker_MissingRobotsAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewRobotsChecker("credence/1.0", nil)

	if !checker.IsAllowed(context.Background(), server.URL+"/anything") {
		t.Error("expected allow when robots.txt is missing")
	}
}

func TestRobotsChecker_UnreachableHostFailsOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	checker := NewRobotsChecker("credence/1.0", nil)

	allowed, _, err := checker.CanFetch(context.Background(), url+"/data")
	if err != nil {
		t.Fatalf("CanFetch returned error: %v", err)
	}
	if !allowed {
		t.Error("expected fail-open allow when robots.txt cannot be fetched")
	}
}

func TestRobotsChecker_Clear(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, testRobots)
	}))
	defer server.Close()

	checker := NewRobotsChecker("credence/1.0", nil)
	ctx := context.Background()

	checker.IsAllowed(ctx, server.URL+"/a")
	checker.Clear()
	checker.IsAllowed(ctx, server.URL+"/b")

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected refetch after Clear, got %d fetches", got)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		desc string
		ua   string
		want string
	}{
		{"product with version and url", "credence/1.0 (+https://example.com/bot)", "credence"},
		{"bare product", "credence", "credence"},
		{"browser style", "Mozilla/5.0 AppleWebKit/537.36", "Mozilla"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.desc, tt.want, got)
		}
	}
}
