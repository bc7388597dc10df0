package codex

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 32,
			want:    32,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs, MinWorkers), MaxWorkers),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveWorkers(tt.workers)
			if got != tt.want {
				t.Errorf("ResolveWorkers(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunJobs - Ordered results on a bounded pool
// ---------------------------------------------------------------------------

func TestRunJobs(t *testing.T) {
	t.Parallel()

	errOdd := errors.New("odd")
	var running, peak atomic.Int32

	results, errs := runJobs(context.Background(), 2, 9, func(i int) (int, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		if i%2 == 1 {
			return 0, errOdd
		}
		return i * i, nil
	})

	for i := range 9 {
		if i%2 == 1 {
			if !errors.Is(errs[i], errOdd) {
				t.Errorf("errs[%d] = %v, want %v", i, errs[i], errOdd)
			}
			continue
		}
		if errs[i] != nil {
			t.Errorf("errs[%d] = %v, want nil", i, errs[i])
		}
		if results[i] != i*i {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*i)
		}
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", p)
	}
}

func TestRunJobs_Empty(t *testing.T) {
	t.Parallel()

	results, errs := runJobs(context.Background(), 4, 0, func(int) (string, error) {
		t.Error("fn called for zero jobs")
		return "", nil
	})
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("runJobs() = %v, %v, want empty", results, errs)
	}
}

func TestRunJobs_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	_, errs := runJobs(ctx, 3, 5, func(int) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	if n := calls.Load(); n != 0 {
		t.Errorf("fn called %d times after cancel, want 0", n)
	}
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("errs[%d] = %v, want %v", i, err, context.Canceled)
		}
	}
}
