// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"github.com/eapache/queue"
	"github.com/rs/zerolog"
)

// workerWake bounds every idle wait so workers periodically re-check the
// shutdown flag even if a signal is never delivered.
const workerWake = 100 * time.Millisecond

// Pool is a fixed set of long-lived worker goroutines pulling tasks from
// a shared FIFO queue.
//
// The task queue, the queued/in-flight counters, and the shutdown flag are
// all guarded by one mutex. The queue is a plain ring buffer under that
// mutex rather than a lock-free structure: submission is not the hot path
// of a parallel-for (chunk bodies are), and the single-lock design keeps
// the completion accounting trivially consistent with the queue state.
//
// The pool signals its completion condition exactly when both the queued
// and the in-flight counts are zero; Wait blocks on that condition.
type Pool struct {
	mu    sync.Mutex
	work  *sync.Cond   // "work available"; also woken by shutdown
	idle  *sync.Cond   // "all complete": queued == 0 && inflight == 0
	tasks *queue.Queue // FIFO of *Task, guarded by mu

	queued   int  // Tasks submitted but not yet claimed
	inflight int  // Tasks currently executing
	stopping bool // Set once by Shutdown

	workers int
	wg      sync.WaitGroup

	critical sync.Mutex // Backs Critical
	barrier  *Barrier   // Worker-count rendezvous

	log     zerolog.Logger
	onPanic func(worker int, recovered any)

	submitted atomix.Uint64
	completed atomix.Uint64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Workers   int    // Worker goroutine count
	Queued    int    // Tasks waiting in the shared queue
	InFlight  int    // Tasks currently executing
	Submitted uint64 // Total tasks accepted since creation
	Completed uint64 // Total tasks finished since creation
}

// NewPool creates a pool and starts its workers.
//
// The worker count defaults to the detected hardware concurrency; see
// [WithWorkers]. Workers run until Shutdown.
func NewPool(opts ...Option) (*Pool, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		tasks:   queue.New(),
		workers: resolveWorkers(o.workers),
		log:     o.logger,
		onPanic: o.panicHandler,
	}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	p.barrier = NewBarrier(p.workers).
		WithTimeout(o.barrierTimeout).
		WithLogger(p.log)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker(i)
	}
	return p, nil
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// Barrier returns the pool's worker-count barrier. All workers of a
// phase-structured computation call Wait on it to rendezvous.
func (p *Pool) Barrier() *Barrier {
	return p.barrier
}

// Submit enqueues a single-shot task. The function receives the index of
// the worker that executes it.
// Returns ErrNilFunc for a nil function and ErrShutdown after Shutdown.
func (p *Pool) Submit(fn func(worker int)) error {
	return p.SubmitTask(&Task{Fn: fn})
}

// Go is an alias for Submit.
func (p *Pool) Go(fn func(worker int)) error {
	return p.Submit(fn)
}

// SubmitTask enqueues a task. The pool takes ownership of t until a worker
// has executed it; the caller must not reuse t.
func (p *Pool) SubmitTask(t *Task) error {
	if t == nil || t.Fn == nil {
		return ErrNilFunc
	}
	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return ErrShutdown
	}
	p.tasks.Add(t)
	p.queued++
	p.mu.Unlock()

	p.submitted.Add(1)
	p.work.Signal()
	return nil
}

// Critical executes fn under the pool's exclusive lock. At most one
// critical section runs at a time per pool.
func (p *Pool) Critical(fn func()) error {
	if fn == nil {
		return ErrNilFunc
	}
	p.critical.Lock()
	defer p.critical.Unlock()
	fn()
	return nil
}

// Wait blocks until the pool is quiescent: no task queued and none in
// flight. Tasks submitted concurrently with Wait extend the wait.
// There is no bounded variant at this layer.
func (p *Pool) Wait() {
	p.mu.Lock()
	for p.queued+p.inflight > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Shutdown stops the pool: no new tasks are accepted, already-queued tasks
// are drained, and all workers are joined before Shutdown returns.
// Shutdown is idempotent; a second call is a no-op.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return
	}
	p.stopping = true
	p.mu.Unlock()

	p.work.Broadcast()
	p.wg.Wait()
	p.log.Debug().Int("workers", p.workers).Msg("pool shut down")
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	s := Stats{
		Workers:  p.workers,
		Queued:   p.queued,
		InFlight: p.inflight,
	}
	p.mu.Unlock()
	s.Submitted = p.submitted.Load()
	s.Completed = p.completed.Load()
	return s
}

// worker is the main loop of one worker goroutine.
//
// Shutdown is cooperative: the flag is observed only here, at the top of
// the wait loop, never mid-task. The idle wait is bounded so a missed
// signal can delay a worker by at most workerWake.
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	p.log.Debug().Int("worker", id).Msg("worker started")

	for {
		p.mu.Lock()
		for !p.stopping && p.tasks.Length() == 0 {
			waitTimed(p.work, time.Now().Add(workerWake))
		}
		if p.tasks.Length() == 0 {
			// Stopping and drained.
			p.mu.Unlock()
			break
		}
		t := p.tasks.Remove().(*Task)
		p.queued--
		p.inflight++
		p.mu.Unlock()

		p.run(t, id)

		p.mu.Lock()
		p.inflight--
		if p.queued == 0 && p.inflight == 0 {
			p.idle.Broadcast()
		}
		p.mu.Unlock()
	}

	p.log.Debug().Int("worker", id).Msg("worker stopped")
}

// run executes one task outside the pool lock, recovering panics so a
// failing task cannot take its worker down.
func (p *Pool) run(t *Task, worker int) {
	defer func() {
		if r := recover(); r != nil {
			if p.onPanic != nil {
				p.onPanic(worker, r)
			} else {
				p.log.Error().
					Int("worker", worker).
					Any("recovered", r).
					Msg("task panicked")
			}
		}
		p.completed.Add(1)
	}()
	t.Fn(worker)
}
