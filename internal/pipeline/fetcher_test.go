package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/policywatch/internal/model"
)

func testFetcher() *Fetcher {
	return NewFetcher(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20}, nil)
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := testFetcher()
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	// Override sleep for fast tests
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := testFetcher()
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := testFetcher()
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	// 404 is not retryable, so should fail immediately
	if got := err.Error(); got != "unexpected status: 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := testFetcher()
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error after all retries exhausted")
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := testFetcher()
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after 429 retry, got %v", err)
	}
	if result.HTML != "<html>OK</html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503}, true},
		{"500", &StatusError{Code: 500}, true},
		{"502 wrapped", fmt.Errorf("load: %w", &StatusError{Code: 502}), true},
		{"429", &StatusError{Code: 429}, true},
		{"404", &StatusError{Code: 404}, false},
		{"403", &StatusError{Code: 403}, false},
		{"connection refused", fmt.Errorf("%w: connection refused", errTransport), true},
		{"canceled", fmt.Errorf("%w: %w", errTransport, context.Canceled), false},
		{"robots", ErrDisallowed, false},
		{"read body", errors.New("read body: unexpected EOF"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	if isRetryableFetchError(nil) {
		t.Error("Expected nil error to not be retryable")
	}
}

func TestFetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	fetcher := NewFetcher(model.HTTPConfig{Timeout: time.Second, UserAgent: "test-agent", MaxBodyBytes: 4}, nil)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result.HTML != "0123" {
		t.Errorf("Expected body cut at 4 bytes, got %q", result.HTML)
	}
}

func TestFetch_RobotsDisallow(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	cfg := model.HTTPConfig{Timeout: time.Second, UserAgent: "policywatch/0.3", MaxBodyBytes: 1 << 20, RespectRobots: true}
	fetcher := NewFetcher(cfg, nil)

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/private/privacy"); !errors.Is(err, ErrDisallowed) {
		t.Errorf("Expected ErrDisallowed, got %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/legal/privacy"); err != nil {
		t.Errorf("Expected allowed fetch, got %v", err)
	}
	if pageHits.Load() != 1 {
		t.Errorf("Expected 1 page hit, got %d", pageHits.Load())
	}
}

func TestLoadAndProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			_, _ = fmt.Fprint(w, "<html><head><title>Blank</title></head><body><script>x()</script></body></html>")
		default:
			_, _ = fmt.Fprint(w, "<html><head><title>Privacy Notice</title></head><body><nav>Menu</nav><article>We collect data.</article></body></html>")
		}
	}))
	defer server.Close()

	fetcher := testFetcher()

	page, err := fetcher.Load(context.Background(), server.URL+"/privacy")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if page.Title() != "Privacy Notice" || page.URL() != server.URL+"/privacy" {
		t.Errorf("Unexpected page: %q %q", page.Title(), page.URL())
	}

	title, body, err := fetcher.Probe(context.Background(), server.URL+"/privacy")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if title != "Privacy Notice" || body != "Menu We collect data." {
		t.Errorf("Probe = %q, %q", title, body)
	}

	title, body, err = fetcher.Probe(context.Background(), server.URL+"/empty")
	if err != nil || title != "Blank" || body != "" {
		t.Errorf("Probe(empty) = %q, %q, %v", title, body, err)
	}
}
