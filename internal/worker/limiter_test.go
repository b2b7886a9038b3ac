package worker

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

func TestNewLimiter_Defaults(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 2 {
		t.Errorf("expected default burst 2 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Limit(1) {
		t.Errorf("expected rate 1 for zero input, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://data.sec.gov/api/xbrl"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different host has its own bucket
	if err := limiter.Wait(ctx, "https://finance.example.com/quote"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	// 1 rps, burst 1: the first request drains the bucket
	limiter := NewLimiter(1, 1)
	url := "https://data.sec.gov/api/xbrl"

	if !limiter.Allow(url) {
		t.Error("first request should be allowed")
	}
	if limiter.Allow(url) {
		t.Error("second request should be throttled")
	}

	// Another host is unaffected
	if !limiter.Allow("https://other.example.com") {
		t.Error("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.example.com"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("https://" + host + "/data") {
		t.Error("first request should pass")
	}
	if limiter.Allow("https://" + host + "/data") {
		t.Error("second request should fail under the per-host rate")
	}

	if !limiter.Allow("https://fast.example.com") {
		t.Error("other host should keep the default rate")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	limiter := NewLimiter(10, 5)

	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for unparseable URL")
	}
	if limiter.Allow("/relative/path") {
		t.Error("expected deny for URL without a host")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://data.sec.gov/api/xbrl")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "data.sec.gov" {
		t.Errorf("expected data.sec.gov, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}

	if _, err := hostOf("/no/host/here"); err == nil {
		t.Error("expected error for URL without a host")
	}
}
