package util

import (
	"net/http/httptest"
	"testing"
)

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	pf := NewProxyFunc("http://plain:8080", "http://secure:8443", "")

	httpsReq := httptest.NewRequest("GET", "https://data.sec.gov/api", nil)
	proxyURL, err := pf(httpsReq)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "secure:8443" {
		t.Errorf("expected https proxy secure:8443, got %v", proxyURL)
	}

	httpReq := httptest.NewRequest("GET", "http://example.com/", nil)
	proxyURL, err = pf(httpReq)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "plain:8080" {
		t.Errorf("expected http proxy plain:8080, got %v", proxyURL)
	}
}

func TestNewProxyFunc_HTTPProxyCoversHTTPS(t *testing.T) {
	pf := NewProxyFunc("http://plain:8080", "", "")

	req := httptest.NewRequest("GET", "https://data.sec.gov/api", nil)
	proxyURL, err := pf(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "plain:8080" {
		t.Errorf("expected fallback to http proxy, got %v", proxyURL)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	pf := NewProxyFunc("http://plain:8080", "", "internal.example.com, .corp.local")

	tests := []struct {
		desc   string
		url    string
		direct bool
	}{
		{"exact match", "https://internal.example.com/x", true},
		{"subdomain of plain entry", "https://svc.internal.example.com/x", true},
		{"dot entry matches subdomains", "https://db.corp.local/x", true},
		{"dot entry skips apex", "https://corp.local/x", false},
		{"unrelated host", "https://other.example.org/x", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.url, nil)
		proxyURL, err := pf(req)
		if err != nil {
			t.Fatalf("%s: proxy func failed: %v", tt.desc, err)
		}
		if tt.direct && proxyURL != nil {
			t.Errorf("%s: expected direct connection, got proxy %v", tt.desc, proxyURL)
		}
		if !tt.direct && proxyURL == nil {
			t.Errorf("%s: expected proxy, got direct connection", tt.desc)
		}
	}
}

func TestHostBypassed_Wildcard(t *testing.T) {
	if !hostBypassed("anything.example.com", []string{"*"}) {
		t.Error("expected * to bypass every host")
	}
	if hostBypassed("example.com", nil) {
		t.Error("expected empty list to bypass nothing")
	}
}
