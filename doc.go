// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package par provides the parallel-execution runtime core: a worker-pool
// scheduler for data-parallel loops and independent tasks, built on a small
// set of freestanding concurrency primitives.
//
// The package offers:
//
//   - For: a synchronous parallel-for over an integer range, split into
//     chunks per a scheduling policy (static, dynamic, guided)
//   - Pool: a fixed set of long-lived workers pulling from a shared FIFO
//   - Unbounded: a Michael–Scott lock-free MPMC queue with a sentinel node
//   - RWLock: a reader/writer lock with bounded-time acquisition
//   - Barrier: a reusable N-party rendezvous with a deadlock escape timeout
//
// # Quick Start
//
// Run a loop body over [0, n) on the default pool:
//
//	total := int64(0)
//	err := par.For(0, 1000, 1, func(i int64, worker int) {
//	    atomic.AddInt64(&total, i)
//	})
//
// Or own the pool explicitly:
//
//	p, err := par.NewPool(par.WithWorkers(8))
//	if err != nil {
//	    return err
//	}
//	defer p.Shutdown()
//
//	err = p.For(0, int64(len(data)), 1, func(i int64, worker int) {
//	    data[i] = transform(data[i])
//	})
//
// # Scheduling Policies
//
// The policy controls how the iteration range is partitioned into chunks:
//
//	Static  — exactly one contiguous chunk per worker, submitted once.
//	          Lowest scheduling overhead; risks load imbalance.
//	Dynamic — many chunks of a fixed size; idle workers pull the next
//	          chunk, yielding natural load balancing.
//	Guided  — chunk sizes decay geometrically (remaining / 2*workers),
//	          floored at the configured minimum chunk.
//	Auto    — the built-in heuristic (dynamic with a size derived from
//	          the range and worker count). Runtime is an alias for Auto.
//
// Select a policy and chunk size per call:
//
//	err := p.For(0, n, 1, body, par.Sched(par.Dynamic), par.Chunk(64))
//
// Within a chunk, iteration order is exactly start→end stepping by step
// (negative steps iterate descending ranges). Across chunks, completion
// order is unspecified.
//
// # Tasks and Synchronization
//
// Single-shot tasks go through Go or Submit; Critical runs a function under
// a per-pool exclusive lock; the pool's Barrier synchronizes its workers:
//
//	p.Go(func(worker int) { warmCache(worker) })
//	p.Critical(func() { results = append(results, r) })
//
// # Error Handling
//
// Operations that cannot proceed immediately return [ErrWouldBlock], a
// control-flow signal rather than a failure: an empty queue Dequeue, or a
// write-lock claim while another writer holds the lock. Bounded waits that
// expire return [ErrTimeout] so callers can retry. Usage errors
// ([ErrZeroStep], [ErrNilFunc], [ErrOverflow]) and lifecycle errors
// ([ErrShutdown]) are reported synchronously from the failing call.
//
//	if err := l.WLock(50 * time.Millisecond); err != nil {
//	    if errors.Is(err, par.ErrWouldBlock) {
//	        // another writer holds the lock
//	    } else if errors.Is(err, par.ErrTimeout) {
//	        // readers did not drain in time
//	    }
//	}
//
// # Cancellation
//
// The only cancellation mechanism is Pool.Shutdown, which is cooperative:
// workers observe the shutdown flag between tasks, never mid-task. A
// long-running chunk body cannot be preempted; callers that need finer
// cancellation should check their own flag inside the body.
//
// # Thread Safety
//
// All exported methods are safe for concurrent use. The shared task queue,
// the queued/in-flight counters, and the shutdown flag are guarded by one
// mutex per pool; Unbounded uses no mutex at all.
package par
