// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// RWLock is a reader/writer lock with bounded-time acquisition.
//
// Many readers may hold the lock concurrently, or one writer exclusively,
// never both. Both acquisition sides take a timeout; a timeout of zero
// waits indefinitely. Timed-out calls return [ErrTimeout] and mutate no
// state, so they are always safe to retry.
//
// Writer admission is claim-based, not queued: WLock fails immediately
// with [ErrWouldBlock] when another writer already holds the claim.
// Writer starvation under continuous read pressure is possible and is a
// deliberate policy of this lock — readers are never held up by a merely
// waiting writer, only by an admitted one.
type RWLock struct {
	readers atomix.Int32 // Active reader count
	writer  atomix.Bool  // Writer claim flag; at most one holder

	mu sync.Mutex
	// done covers both transitions waiters care about: "last reader left"
	// (writer waiting to enter) and "writer gone" (readers waiting to
	// enter). WUnlock broadcasts so both kinds of waiters re-check.
	done *sync.Cond
}

// NewRWLock creates an unlocked RWLock.
func NewRWLock() *RWLock {
	l := &RWLock{}
	l.done = sync.NewCond(&l.mu)
	return l
}

// RLock acquires the lock for reading, waiting up to timeout for an active
// writer to release. A timeout of zero waits indefinitely.
// Returns ErrTimeout if the writer did not release in time.
func (l *RWLock) RLock(timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.writer.LoadAcquire() {
		if !waitTimed(l.done, deadline) {
			return ErrTimeout
		}
	}
	// The check and the increment both happen under mu; a writer admitted
	// after our check blocks on mu before it can observe the reader count.
	l.readers.Add(1)
	return nil
}

// RUnlock releases one read hold. The last reader out wakes any admitted
// writer waiting for the count to drain.
func (l *RWLock) RUnlock() {
	if l.readers.Add(-1) == 0 {
		l.mu.Lock()
		l.done.Broadcast()
		l.mu.Unlock()
	}
}

// WLock acquires the lock for writing.
//
// The writer claim is taken by compare-and-swap: if another writer already
// holds it, WLock fails immediately with ErrWouldBlock rather than
// queueing. With the claim held, WLock waits up to timeout for active
// readers to drain; on timeout the claim is released and ErrTimeout is
// returned.
func (l *RWLock) WLock(timeout time.Duration) error {
	if !l.writer.CompareAndSwapAcqRel(false, true) {
		return ErrWouldBlock
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.readers.Load() > 0 {
		if !waitTimed(l.done, deadline) {
			l.writer.StoreRelease(false)
			l.done.Broadcast()
			return ErrTimeout
		}
	}
	return nil
}

// WUnlock releases the write hold and wakes all waiters, blocked readers
// and any future writer alike.
func (l *RWLock) WUnlock() {
	l.mu.Lock()
	l.writer.StoreRelease(false)
	l.done.Broadcast()
	l.mu.Unlock()
}
