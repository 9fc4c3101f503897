package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"positive", 4, 4},
		{"zero", 0, 1},
		{"negative", -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPool(tt.workers).Workers(); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPool_RunVisitsEveryIndex(t *testing.T) {
	pool := NewPool(3)

	var mu sync.Mutex
	seen := make(map[int]bool)
	err := pool.Run(context.Background(), 50, func(ctx context.Context, i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != 50 {
		t.Errorf("expected 50 indexes, got %d", len(seen))
	}
}

func TestPool_RunBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var inFlight, peak atomic.Int32
	err := pool.Run(context.Background(), 10, func(ctx context.Context, i int) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
}

func TestPool_RunEmpty(t *testing.T) {
	called := false
	if err := NewPool(2).Run(context.Background(), 0, func(context.Context, int) { called = true }); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if called {
		t.Error("fn called for empty run")
	}
}

func TestPool_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1)

	var calls atomic.Int32
	err := pool.Run(ctx, 100, func(ctx context.Context, i int) {
		if calls.Add(1) == 3 {
			cancel()
		}
	})

	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls.Load() >= 100 {
		t.Errorf("expected cancellation to skip remaining tasks, got %d calls", calls.Load())
	}
}
