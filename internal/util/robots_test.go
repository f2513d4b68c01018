package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
)

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\nCrawl-delay: 2\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "edgarscan/0.1 (research)")
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/Archives/edgar/data/1/a.txt")
	if err != nil {
		t.Fatalf("CanFetch() error: %v", err)
	}
	if !allowed {
		t.Error("Expected archive path allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("crawl delay = %v, want 2s", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/x")
	if allowed {
		t.Error("Expected private path disallowed")
	}

	if robotsHits.Load() != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", robotsHits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "edgarscan")
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("CanFetch() = %v, %v; want allowed", allowed, err)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"edgarscan/0.1 (research; contact@example.com)", "edgarscan"},
		{"Mozilla/5.0", "Mozilla"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.in); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc(model.HTTPConfig{
		HTTPProxy:  "http://proxy.internal:3128",
		HTTPSProxy: "http://secure-proxy.internal:3128",
	})

	for _, tt := range []struct {
		target string
		want   string
	}{
		{"https://www.sec.gov/robots.txt", "secure-proxy.internal:3128"},
		{"http://example.com/", "proxy.internal:3128"},
	} {
		u, _ := url.Parse(tt.target)
		got, err := proxy(&http.Request{URL: u})
		if err != nil {
			t.Fatalf("proxy(%s) error: %v", tt.target, err)
		}
		if got.Host != tt.want {
			t.Errorf("proxy(%s) = %s, want %s", tt.target, got.Host, tt.want)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second})
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Errorf("Transport = %T", client.Transport)
	}
}

func TestRobotsChecker_UnreachableHostFetchedOnce(t *testing.T) {
	var hits atomic.Int32
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		hits.Add(1)
		return nil, errors.New("connection refused")
	})}

	checker := NewRobotsChecker(client, "edgarscan")
	for i := 0; i < 3; i++ {
		allowed, delay, err := checker.CanFetch(context.Background(), "https://www.sec.gov/Archives/x.txt")
		if err != nil || !allowed || delay != 0 {
			t.Fatalf("CanFetch() = %v, %v, %v; want allowed", allowed, delay, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("robots.txt requested %d times, want 1", hits.Load())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
