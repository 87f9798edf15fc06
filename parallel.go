// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import "math"

// ForOption configures a single For call.
type ForOption func(*forConfig)

type forConfig struct {
	sched   Schedule
	chunk   uint64
	workers int
}

// Sched selects the scheduling policy for this call. The default is Auto.
func Sched(s Schedule) ForOption {
	return func(c *forConfig) {
		c.sched = s
	}
}

// Chunk sets the chunk size in iterations. Non-positive values select the
// built-in heuristic. Under Guided the value is the minimum chunk size.
// Static ignores it.
func Chunk(n int64) ForOption {
	return func(c *forConfig) {
		if n > 0 {
			c.chunk = uint64(n)
		}
	}
}

// MaxWorkers caps how many chunks Static and Guided target, without
// resizing the pool. Non-positive values (and values above the pool's
// worker count) select the pool's worker count.
func MaxWorkers(n int) ForOption {
	return func(c *forConfig) {
		c.workers = n
	}
}

// For executes body(i, worker) for every i in {start, start+step, ...}
// short of end, distributing iterations across the pool's workers per the
// configured scheduling policy. Negative steps iterate descending ranges.
//
// The call is synchronous: For returns only after every iteration has run,
// blocking on the pool's completion condition. There is no asynchronous
// variant at this layer.
//
// An empty range (start >= end with a positive step, or the mirror image)
// succeeds trivially. A zero step returns ErrZeroStep, a nil body
// ErrNilFunc; a range whose iteration count overflows the scheduler's
// arithmetic fails closed with ErrOverflow before submitting any chunk.
func (p *Pool) For(start, end, step int64, body Body, opts ...ForOption) error {
	if body == nil {
		return ErrNilFunc
	}
	if step == 0 {
		return ErrZeroStep
	}
	n, err := rangeCount(start, end, step)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	cfg := forConfig{sched: Auto}
	for _, opt := range opts {
		opt(&cfg)
	}
	w := cfg.workers
	if w <= 0 || w > p.workers {
		w = p.workers
	}
	chunk := cfg.chunk
	if chunk == 0 {
		chunk = heuristicChunk(n, w)
	}

	var spans []span
	switch cfg.sched {
	case Static:
		spans = staticSpans(n, w)
	case Dynamic:
		spans = fixedSpans(n, chunk)
	case Guided:
		spans = guidedSpans(n, w, cfg.chunk)
	default: // Auto, Runtime
		spans = fixedSpans(n, chunk)
	}

	for _, s := range spans {
		if err := p.Submit(chunkTask(start, step, s, body)); err != nil {
			// Shutdown raced the submission; wait out whatever made it in.
			p.Wait()
			return err
		}
	}
	p.Wait()
	return nil
}

// chunkTask binds one span to a task body iterating it in order.
// Index arithmetic is modular on purpose: every index in the span lies in
// [start, end), so the two's-complement result is exact even where the
// intermediate product would overflow int64.
func chunkTask(start, step int64, s span, body Body) func(worker int) {
	return func(worker int) {
		i := int64(uint64(start) + s.lo*uint64(step))
		for k := s.lo; k < s.hi; k++ {
			body(i, worker)
			i = int64(uint64(i) + uint64(step))
		}
	}
}

// rangeCount returns the number of iterations of the loop
// for i := start; toward end; i += step, computed exactly in uint64.
// Counts beyond the scheduler's arithmetic fail closed with ErrOverflow.
func rangeCount(start, end, step int64) (uint64, error) {
	var diff, s uint64
	if step > 0 {
		if start >= end {
			return 0, nil
		}
		diff = uint64(end) - uint64(start)
		s = uint64(step)
	} else {
		if start <= end {
			return 0, nil
		}
		diff = uint64(start) - uint64(end)
		s = -uint64(step) // Two's complement; exact even for MinInt64
	}
	n := diff / s
	if diff%s != 0 {
		n++
	}
	if n > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return n, nil
}
