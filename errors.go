// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Unbounded.Dequeue: the queue is empty (no data available)
// For RWLock.WLock: another writer already holds the lock (no writer queuing)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        consume(v)
//	        continue
//	    }
//	    if par.IsWouldBlock(err) {
//	        backoff.Wait()  // Queue empty - adaptive wait
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrTimeout indicates a bounded wait expired before the condition held:
// an RWLock acquisition that ran out its deadline. Distinct from
// ErrWouldBlock so callers can tell "busy right now" from "waited and gave
// up", and retry accordingly. No state is mutated by a timed-out call.
var ErrTimeout = errors.New("par: timed out")

// ErrShutdown is returned when submitting work to a pool that has been
// shut down. A shut-down pool cannot accept new tasks.
var ErrShutdown = errors.New("par: pool is shut down")

// ErrZeroStep is returned by For when the step argument is zero.
// A zero step cannot make progress through any range.
var ErrZeroStep = errors.New("par: step must be non-zero")

// ErrNilFunc is returned when a nil function is passed where a task or
// loop body is required.
var ErrNilFunc = errors.New("par: function is nil")

// ErrOverflow is returned by For when the iteration count of the requested
// range does not fit the scheduler's arithmetic. The call fails closed:
// no chunk is submitted.
var ErrOverflow = errors.New("par: iteration count overflow")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil and for semantic signals such as ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
