// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import "sync"

// The default pool is created lazily on first use and lives until
// Shutdown. Callers that want dependency injection instead of process-wide
// state should create their own Pool and ignore these wrappers.
var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Default returns the process-wide default pool, creating it with default
// options on first use. After Shutdown, the next call creates a fresh pool.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil {
		defaultPool, _ = NewPool()
	}
	return defaultPool
}

// SetDefault replaces the default pool. The previous pool, if any, is not
// shut down; the caller keeps that responsibility.
func SetDefault(p *Pool) {
	defaultMu.Lock()
	defaultPool = p
	defaultMu.Unlock()
}

// Shutdown shuts down the default pool, if one was created. The next
// Default call starts over with a fresh pool.
func Shutdown() {
	defaultMu.Lock()
	p := defaultPool
	defaultPool = nil
	defaultMu.Unlock()
	if p != nil {
		p.Shutdown()
	}
}

// For runs a parallel loop on the default pool. See [Pool.For].
func For(start, end, step int64, body Body, opts ...ForOption) error {
	return Default().For(start, end, step, body, opts...)
}

// Go submits a single-shot task to the default pool. See [Pool.Submit].
func Go(fn func(worker int)) error {
	return Default().Submit(fn)
}

// Critical executes fn under the default pool's exclusive lock.
// See [Pool.Critical].
func Critical(fn func()) error {
	return Default().Critical(fn)
}

// BarrierWait rendezvouses on the default pool's worker-count barrier.
// See [Pool.Barrier].
func BarrierWait() {
	Default().Barrier().Wait()
}
