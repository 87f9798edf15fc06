// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// Unbounded is a lock-free unbounded multi-producer multi-consumer FIFO.
//
// Based on the Michael–Scott algorithm (PODC 1996): a singly-linked list
// with a permanently-present sentinel node. Head points at the sentinel,
// tail points at the sentinel or the last linked node. Enqueue links at the
// tail, Dequeue swings head forward and retires the old sentinel (the
// dequeued node becomes the new sentinel).
//
// Progress: Enqueue and Dequeue are lock-free — some enqueuer or dequeuer
// always completes under contention, though an individual call may retry.
// Empty is wait-free.
//
// Unbounded never reports a full condition; Enqueue allocates one node per
// element and always succeeds.
// Node reclamation is left to the garbage collector, which is what makes
// the bare Michael–Scott protocol safe here: a retired sentinel stays alive
// for exactly as long as a lagging reader still holds it.
type Unbounded[T any] struct {
	_    pad
	head atomic.Pointer[msNode[T]] // Sentinel; owner of the next dequeue
	_    pad
	tail atomic.Pointer[msNode[T]] // Last node, possibly lagging by one
	_    pad
}

type msNode[T any] struct {
	next atomic.Pointer[msNode[T]]
	data T
}

// NewUnbounded creates an empty queue holding one sentinel node.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{}
	sentinel := &msNode[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Enqueue adds an element to the tail of the queue.
// The element is copied into a fresh node; the original can be modified
// after Enqueue returns. The error result is always nil and exists for
// [Producer]-compatible call sites.
func (q *Unbounded[T]) Enqueue(elem *T) error {
	n := &msNode[T]{data: *elem}
	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if tail != q.tail.Load() {
			// Tail moved under us; re-read.
			sw.Once()
			continue
		}
		if next == nil {
			if tail.next.CompareAndSwap(nil, n) {
				// Linked. The tail swing is non-mandatory: a failed CAS
				// means another thread already helped.
				q.tail.CompareAndSwap(tail, n)
				return nil
			}
		} else {
			// Tail is lagging; help it forward before retrying.
			q.tail.CompareAndSwap(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns the element at the head of the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Unbounded[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		next := head.next.Load()
		if head != q.head.Load() {
			sw.Once()
			continue
		}
		if head == tail {
			if next == nil {
				var zero T
				return zero, ErrWouldBlock
			}
			// Tail is lagging behind a linked node; help it forward.
			q.tail.CompareAndSwap(tail, next)
		} else {
			// Read data before the swing: after the CAS another dequeuer
			// may retire next as its own sentinel.
			elem := next.data
			if q.head.CompareAndSwap(head, next) {
				// head is retired; next is the new sentinel. Its data
				// field is left in place — clearing it would race with
				// dequeuers that loaded head before our CAS.
				return elem, nil
			}
		}
		sw.Once()
	}
}

// Empty reports whether the queue is logically empty.
// Wait-free: a single load of the sentinel's next link.
func (q *Unbounded[T]) Empty() bool {
	return q.head.Load().next.Load() == nil
}

// UnboundedPtr is an Unbounded queue for unsafe.Pointer values.
//
// Ownership transfers with the pointer: the producer should not access the
// object after enqueueing it.
type UnboundedPtr struct {
	q Unbounded[unsafe.Pointer]
}

// NewUnboundedPtr creates an empty pointer queue.
func NewUnboundedPtr() *UnboundedPtr {
	p := &UnboundedPtr{}
	sentinel := &msNode[unsafe.Pointer]{}
	p.q.head.Store(sentinel)
	p.q.tail.Store(sentinel)
	return p
}

// Enqueue adds a pointer to the tail of the queue.
func (p *UnboundedPtr) Enqueue(elem unsafe.Pointer) error {
	return p.q.Enqueue(&elem)
}

// Dequeue removes and returns the pointer at the head of the queue.
// Returns (nil, ErrWouldBlock) if the queue is empty.
func (p *UnboundedPtr) Dequeue() (unsafe.Pointer, error) {
	return p.q.Dequeue()
}

// Empty reports whether the queue is logically empty.
func (p *UnboundedPtr) Empty() bool {
	return p.q.Empty()
}
