package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	var count atomic.Int64
	var wg sync.WaitGroup
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	wg.Wait()

	if got := count.Load(); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()

	if pool.maxWorkers < 1 {
		t.Errorf("maxWorkers = %d, want >= 1", pool.maxWorkers)
	}
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	if !errors.Is(err, ErrPoolShutdown) {
		t.Errorf("Submit() error = %v, want ErrPoolShutdown", err)
	}
}

func TestWorkerPool_SubmitAfterShutdownRepeated(t *testing.T) {
	// Submit on a shut-down pool must deterministically return
	// ErrPoolShutdown; an open send case would make this flake.
	for i := 0; i < 500; i++ {
		pool := NewWorkerPool(1)
		pool.Shutdown()

		err := pool.Submit(context.Background(), func() {})
		if !errors.Is(err, ErrPoolShutdown) {
			t.Fatalf("iteration %d: Submit() error = %v, want ErrPoolShutdown", i, err)
		}
	}
}

func TestWorkerPool_SubmitContextCancelled(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	// Fill the single worker and the task buffer with blocking tasks.
	release := make(chan struct{})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := pool.Submit(ctx, func() { <-release }); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	cancelled, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := pool.Submit(cancelled, func() { <-release })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Submit() error = %v, want context.DeadlineExceeded", err)
	}
	close(release)
}
