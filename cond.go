// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"sync"
	"time"
)

// waitTimed blocks on c until signaled or until deadline passes. The caller
// must hold c.L and must re-check its predicate on return. A zero deadline
// waits indefinitely.
//
// Returns false iff the deadline had already passed when called, so the
// usual shape is:
//
//	for !predicate() {
//	    if !waitTimed(c, deadline) {
//	        return ErrTimeout
//	    }
//	}
//
// sync.Cond has no deadline support; a one-shot timer broadcasts instead.
// The broadcast may wake unrelated waiters on the same cond — they re-check
// their predicates and go back to sleep.
func waitTimed(c *sync.Cond, deadline time.Time) bool {
	if deadline.IsZero() {
		c.Wait()
		return true
	}
	d := time.Until(deadline)
	if d <= 0 {
		return false
	}
	t := time.AfterFunc(d, c.Broadcast)
	c.Wait()
	t.Stop()
	return true
}
