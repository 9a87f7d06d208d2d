package worker

import (
	"context"
	"testing"
)

func TestNewLimiter_DefaultBurst(t *testing.T) {
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, 3); l.defaultBurst != 3 {
		t.Errorf("expected burst 3, got %d", l.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.github.com/repos/foo/bar"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://pypi.org/project/foo/json"); err != nil {
		t.Errorf("wait failed for second host: %v", err)
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://api.github.com/repos/foo/bar") {
		t.Error("first request to a host should pass")
	}
	if limiter.Allow("https://api.github.com/repos/foo/baz") {
		t.Error("second request to the same host should be limited")
	}
	if !limiter.Allow("https://gitlab.com/api/v4/projects/1") {
		t.Error("a different host should have its own budget")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://api.github.com/repos/foo/bar")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "api.github.com" {
		t.Errorf("expected api.github.com, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
