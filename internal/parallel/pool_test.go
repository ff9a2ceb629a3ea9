package parallel

import (
	"errors"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		expected := runtime.GOMAXPROCS(0)
		if pool.Workers() != expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, pool.Workers(), expected)
		}
		pool.Close()
	}
}

// =============================================================================
// ExecuteAll Tests
// =============================================================================

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() {
			counter.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_ExecuteAll_AllIndices(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)

	work := make([]func(), 10)
	for i := range work {
		work[i] = func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}

	pool.ExecuteAll(work)

	for i := range 10 {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

func TestWorkerPool_ExecuteAll_Empty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Should not panic or block
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){})
}

// =============================================================================
// ExecuteAllErr Tests
// =============================================================================

func TestWorkerPool_ExecuteAllErr_Success(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func() error, 12)
	for i := range work {
		work[i] = func() error {
			counter.Add(1)
			return nil
		}
	}

	if err := pool.ExecuteAllErr(work); err != nil {
		t.Fatalf("ExecuteAllErr() = %v, want nil", err)
	}
	if counter.Load() != 12 {
		t.Errorf("counter = %d, want 12", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllErr_JoinsErrors(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	errA := errors.New("band a failed")
	errB := errors.New("band b failed")

	var counter atomic.Int64
	work := []func() error{
		func() error { counter.Add(1); return nil },
		func() error { counter.Add(1); return errA },
		func() error { counter.Add(1); return nil },
		func() error { counter.Add(1); return errB },
	}

	err := pool.ExecuteAllErr(work)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("ExecuteAllErr() = %v, want both task errors", err)
	}
	// A failure never abandons the other tasks.
	if counter.Load() != 4 {
		t.Errorf("counter = %d, want 4", counter.Load())
	}
}

func TestWorkerPool_ExecuteAllErr_Panic(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	err := pool.ExecuteAllErr([]func() error{
		func() error { panic("boom") },
		func() error { return nil },
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("ExecuteAllErr() = %v, want panic reported as error", err)
	}

	// Worker survives the panic.
	if err := pool.ExecuteAllErr([]func() error{func() error { return nil }}); err != nil {
		t.Errorf("ExecuteAllErr() after panic = %v, want nil", err)
	}
}

func TestWorkerPool_ExecuteAllErr_Closed(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	err := pool.ExecuteAllErr([]func() error{func() error { return nil }})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("ExecuteAllErr() on closed pool = %v, want ErrPoolClosed", err)
	}
	if err := pool.ExecuteAllErr(nil); err != nil {
		t.Errorf("ExecuteAllErr(nil) = %v, want nil", err)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_Close(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after close")
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)

	// Multiple closes should not panic
	pool.Close()
	pool.Close()
	pool.Close()
}

func TestWorkerPool_OperationsAfterClose(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	var executed atomic.Bool
	pool.ExecuteAll([]func(){func() { executed.Store(true) }})

	if executed.Load() {
		t.Error("work should not execute after close")
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup

	// Multiple goroutines submitting work concurrently
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			work := make([]func() error, 10)
			for i := range work {
				work[i] = func() error {
					counter.Add(1)
					return nil
				}
			}
			if err := pool.ExecuteAllErr(work); err != nil {
				t.Errorf("ExecuteAllErr() = %v", err)
			}
		}()
	}

	wg.Wait()

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_SingleWorker(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 20)
	for i := range work {
		work[i] = func() {
			counter.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if counter.Load() != 20 {
		t.Errorf("counter = %d, want 20", counter.Load())
	}
}

func TestWorkerPool_QueuedWork(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if q := pool.QueuedWork(); q != 0 {
		t.Errorf("QueuedWork() on idle pool = %d, want 0", q)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkWorkerPool_ExecuteAllErr(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	work := make([]func() error, pool.Workers())
	for i := range work {
		work[i] = func() error { return nil }
	}

	b.ResetTimer()
	for b.Loop() {
		_ = pool.ExecuteAllErr(work)
	}
}
