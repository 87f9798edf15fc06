// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBarrierTimeout is the deadlock escape bound for Barrier.Wait when
// none is configured. A party that never arrives would otherwise block the
// rest forever; after this long the barrier force-releases instead.
const DefaultBarrierTimeout = 30 * time.Second

// Barrier is a reusable N-party rendezvous: Wait blocks every arriving
// party until the last one arrives, then releases them all and resets for
// the next phase.
//
// Reuse is generation-counted: the last arrival resets the count and bumps
// the generation before broadcasting, so a released party that immediately
// re-enters Wait joins the next phase and can never consume a stale wakeup.
//
// Wait carries a deadlock escape timeout. A barrier whose parties stop
// showing up is worse than one that releases early, so expiry forces a
// reset and releases every waiter, logging a warning rather than returning
// an error.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int    // Arrivals this phase; 0 <= count < parties
	gen     uint64 // Bumped on every release, normal or forced
	escape  time.Duration
	log     zerolog.Logger
}

// NewBarrier creates a barrier for the given number of parties.
// Panics if parties < 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("par: parties must be >= 1")
	}
	b := &Barrier{
		parties: parties,
		escape:  DefaultBarrierTimeout,
		log:     defaultLogger(),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// WithTimeout sets the deadlock escape bound and returns b.
// Configure before first use.
func (b *Barrier) WithTimeout(d time.Duration) *Barrier {
	if d > 0 {
		b.escape = d
	}
	return b
}

// WithLogger sets the logger for forced-release warnings and returns b.
// Configure before first use.
func (b *Barrier) WithLogger(log zerolog.Logger) *Barrier {
	b.log = log
	return b
}

// Parties returns the number of parties the barrier rendezvouses.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties have called Wait, then releases them and
// resets the barrier for reuse. If the remaining parties do not arrive
// within the escape timeout, Wait forces a reset, releases every waiter,
// and logs a warning.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.count++
	if b.count == b.parties {
		// Last arrival: reset before broadcast so released parties can
		// re-enter the next phase immediately.
		b.release()
		return
	}

	gen := b.gen
	deadline := time.Now().Add(b.escape)
	for gen == b.gen {
		if !waitTimed(b.cond, deadline) {
			// Escape a permanent deadlock: some party never arrived.
			b.release()
			b.log.Warn().
				Int("parties", b.parties).
				Dur("timeout", b.escape).
				Msg("barrier timeout forced release")
			return
		}
	}
}

// release resets the phase and wakes all waiters. Caller holds b.mu.
func (b *Barrier) release() {
	b.count = 0
	b.gen++
	b.cond.Broadcast()
}
