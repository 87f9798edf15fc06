// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/par"
	"github.com/rs/zerolog"
)

func newTestPool(t *testing.T, opts ...par.Option) *par.Pool {
	t.Helper()
	opts = append([]par.Option{par.WithLogger(zerolog.Nop())}, opts...)
	p, err := par.NewPool(opts...)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(p.Shutdown)
	return p
}

// TestPoolSubmitWait tests submission, execution, and the completion
// condition.
func TestPoolSubmitWait(t *testing.T) {
	const tasks = 100

	p := newTestPool(t, par.WithWorkers(4))
	var ran atomic.Int64

	for range tasks {
		if err := p.Submit(func(worker int) {
			if worker < 0 || worker >= p.Workers() {
				t.Errorf("worker index %d out of range [0, %d)", worker, p.Workers())
			}
			ran.Add(1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Wait()

	if got := ran.Load(); got != tasks {
		t.Fatalf("ran: got %d, want %d", got, tasks)
	}

	s := p.Stats()
	if s.Queued != 0 || s.InFlight != 0 {
		t.Fatalf("after Wait: queued=%d inflight=%d, want 0/0", s.Queued, s.InFlight)
	}
	if s.Submitted != tasks || s.Completed != tasks {
		t.Fatalf("stats: submitted=%d completed=%d, want %d/%d", s.Submitted, s.Completed, tasks, tasks)
	}
	if s.Workers != 4 {
		t.Fatalf("stats: workers=%d, want 4", s.Workers)
	}
}

// TestPoolShutdownIdempotent tests that a second Shutdown is a no-op and
// that a shut-down pool rejects new tasks.
func TestPoolShutdownIdempotent(t *testing.T) {
	p, err := par.NewPool(par.WithWorkers(2), par.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	p.Shutdown()
	p.Shutdown() // Must not block or panic.

	if err := p.Submit(func(int) {}); !errors.Is(err, par.ErrShutdown) {
		t.Fatalf("Submit after Shutdown: got %v, want ErrShutdown", err)
	}
}

// TestPoolShutdownDrains tests that already-queued tasks run to completion
// during a graceful shutdown.
func TestPoolShutdownDrains(t *testing.T) {
	const tasks = 32

	p, err := par.NewPool(par.WithWorkers(2), par.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	var ran atomic.Int64
	for range tasks {
		if err := p.Submit(func(int) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	p.Shutdown()

	if got := ran.Load(); got != tasks {
		t.Fatalf("ran: got %d, want %d", got, tasks)
	}
}

// TestPoolNilTask tests usage-error reporting.
func TestPoolNilTask(t *testing.T) {
	p := newTestPool(t, par.WithWorkers(1))

	if err := p.Submit(nil); !errors.Is(err, par.ErrNilFunc) {
		t.Fatalf("Submit(nil): got %v, want ErrNilFunc", err)
	}
	if err := p.SubmitTask(nil); !errors.Is(err, par.ErrNilFunc) {
		t.Fatalf("SubmitTask(nil): got %v, want ErrNilFunc", err)
	}
	if err := p.SubmitTask(&par.Task{}); !errors.Is(err, par.ErrNilFunc) {
		t.Fatalf("SubmitTask(empty): got %v, want ErrNilFunc", err)
	}
	if err := p.Critical(nil); !errors.Is(err, par.ErrNilFunc) {
		t.Fatalf("Critical(nil): got %v, want ErrNilFunc", err)
	}
}

// TestPoolPanicRecovery tests that a panicking task reaches the handler
// and does not take its worker down.
func TestPoolPanicRecovery(t *testing.T) {
	var recovered atomic.Value
	p := newTestPool(t,
		par.WithWorkers(1),
		par.WithPanicHandler(func(worker int, r any) {
			recovered.Store(r)
		}),
	)

	if err := p.Submit(func(int) { panic("boom") }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p.Wait()

	if got := recovered.Load(); got != "boom" {
		t.Fatalf("recovered: got %v, want \"boom\"", got)
	}

	// The single worker survived and keeps executing.
	var ran atomic.Bool
	if err := p.Submit(func(int) { ran.Store(true) }); err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
	p.Wait()
	if !ran.Load() {
		t.Fatal("task after panic did not run")
	}
}

// TestPoolCritical tests mutual exclusion of critical sections.
func TestPoolCritical(t *testing.T) {
	const tasks = 64

	p := newTestPool(t, par.WithWorkers(4))
	counter := 0 // Plain int: only safe if Critical truly excludes.

	for range tasks {
		if err := p.Submit(func(int) {
			if err := p.Critical(func() { counter++ }); err != nil {
				t.Errorf("Critical: %v", err)
			}
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Wait()

	if err := p.Critical(func() {
		if counter != tasks {
			t.Errorf("counter: got %d, want %d", counter, tasks)
		}
	}); err != nil {
		t.Fatalf("Critical: %v", err)
	}
}

// TestPoolBarrier tests the pool's worker-count rendezvous: one task per
// worker, all meeting at the barrier.
func TestPoolBarrier(t *testing.T) {
	const workers = 4

	p := newTestPool(t, par.WithWorkers(workers))
	var before atomic.Int32

	for range workers {
		if err := p.Submit(func(int) {
			before.Add(1)
			p.Barrier().Wait()
			if n := before.Load(); n != workers {
				t.Errorf("passed barrier with %d arrivals, want %d", n, workers)
			}
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Wait()
}

// TestPoolTaskPriorityRecorded tests that Task.Priority is carried but
// execution remains FIFO.
func TestPoolTaskPriorityRecorded(t *testing.T) {
	p := newTestPool(t, par.WithWorkers(1))

	var order []int // Written by the single worker only.

	// Stall the single worker so the remaining tasks queue up in
	// submission order.
	gate := make(chan struct{})
	if err := p.Submit(func(int) { <-gate }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for id, pri := range []int{0, 9, 3} {
		if err := p.SubmitTask(&par.Task{
			Fn:       func(int) { order = append(order, id) },
			Priority: pri,
		}); err != nil {
			t.Fatalf("SubmitTask: %v", err)
		}
	}
	close(gate)
	p.Wait()

	for i, id := range order {
		if id != i {
			t.Fatalf("execution order %v, want FIFO [0 1 2]", order)
		}
	}
	if len(order) != 3 {
		t.Fatalf("executed %d tasks, want 3", len(order))
	}
}

// TestDefaultPool tests the lazy package-level pool and its wrappers.
func TestDefaultPool(t *testing.T) {
	defer par.Shutdown()

	var ran atomic.Bool
	if err := par.Go(func(int) { ran.Store(true) }); err != nil {
		t.Fatalf("Go: %v", err)
	}
	par.Default().Wait()
	if !ran.Load() {
		t.Fatal("task on default pool did not run")
	}

	if err := par.Critical(func() {}); err != nil {
		t.Fatalf("Critical: %v", err)
	}

	par.Shutdown()
	// A fresh default pool is created after shutdown.
	if err := par.Go(func(int) {}); err != nil {
		t.Fatalf("Go after Shutdown: %v", err)
	}
	par.Default().Wait()
}
