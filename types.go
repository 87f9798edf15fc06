// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import "unsafe"

// Body is a parallel loop body. It is invoked once per iteration index,
// in order within a chunk, with the index of the worker executing the
// chunk. The worker index is in [0, Pool.Workers()) and is stable for the
// whole chunk — it is the replacement for a thread-local "current thread"
// accessor.
type Body func(i int64, worker int)

// Task is a single-shot unit of work for a Pool.
//
// A Task is owned by the queue that holds it until a worker claims it, and
// is not reused after execution. Priority is recorded for callers that
// classify their work; the shared queue executes strictly in FIFO
// submission order regardless of priority.
type Task struct {
	// Fn is the task body. Receives the executing worker's index.
	Fn func(worker int)

	// Priority classifies the task. Does not affect execution order.
	Priority int
}

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Both operations are non-blocking: Dequeue returns ErrWouldBlock when the
// queue is empty, and an implementation with bounded capacity returns
// ErrWouldBlock from Enqueue when full ([Unbounded] never does).
//
// The interface intentionally excludes length because accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
// Track counts in application logic when needed.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value, so the original can be
// modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into the queue.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value, copied out of the queue.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

// QueuePtr is the combined interface for unsafe.Pointer queues.
//
// QueuePtr passes pointers directly without copying, enabling zero-copy
// transfer of objects between goroutines. Ownership semantics: the
// producer transfers ownership to the consumer and should not access the
// object after enqueueing it.
type QueuePtr interface {
	// Enqueue adds a pointer to the queue (non-blocking).
	Enqueue(elem unsafe.Pointer) error
	// Dequeue removes and returns a pointer from the queue (non-blocking).
	// Returns (nil, ErrWouldBlock) if the queue is empty.
	Dequeue() (unsafe.Pointer, error)
}
