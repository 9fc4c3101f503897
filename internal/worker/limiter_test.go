package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 1 {
		t.Errorf("expected burst 1 for negative input, got %d", l2.burst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/privacy"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://facebook.com/policy"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if limiter.Hosts() != 2 {
		t.Errorf("expected 2 hosts, got %d", limiter.Hosts())
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 1)

	if err := limiter.Wait(context.Background(), "not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
	if limiter.Allow("::") {
		t.Error("expected Allow to reject an invalid URL")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://example.com"

	if !limiter.Allow(url) {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow(url) {
		t.Error("second immediate request should be limited")
	}

	// other hosts have their own bucket
	if !limiter.Allow("http://other.example") {
		t.Error("different host should not share the limit")
	}
}

func TestLimiter_SameHostDifferentPaths(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://example.com/privacy") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("https://EXAMPLE.com/terms") {
		t.Error("paths and case of one host should share the limit")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("request %d limited with limiting disabled", i)
		}
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	url := "http://example.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error from cancelled context")
	}
}
