// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

// Schedule selects how a parallel-for range is partitioned into chunks
// and handed to workers.
type Schedule int

const (
	// Auto selects the built-in heuristic: dynamic chunking with a chunk
	// size derived from the range length and worker count.
	Auto Schedule = iota
	// Static pre-partitions the range into exactly one contiguous chunk
	// per worker, submitted once. Minimal scheduling overhead; risks load
	// imbalance when iteration costs vary.
	Static
	// Dynamic partitions the range into many chunks of the configured
	// size, all submitted up front. Idle workers pull the next chunk,
	// yielding natural load balancing at higher queuing overhead.
	Dynamic
	// Guided partitions the range into chunks of geometrically decaying
	// size: each chunk takes remaining/(2*workers) iterations, floored at
	// the configured minimum. Large chunks early keep overhead low; small
	// chunks late smooth out imbalance.
	Guided
	// Runtime defers the choice to the runtime, which currently resolves
	// to Auto.
	Runtime
)

// String returns the lower-case policy name.
func (s Schedule) String() string {
	switch s {
	case Auto:
		return "auto"
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Guided:
		return "guided"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Chunk size heuristic tiers, in iterations.
const (
	smallRange  = 100
	mediumRange = 10_000
)

// heuristicChunk picks a chunk size for an n-iteration range on w workers:
// small ranges use a quarter of the range, medium ranges target eight
// chunks per worker, large ranges sixteen. Never below one.
func heuristicChunk(n uint64, w int) uint64 {
	var c uint64
	switch {
	case n < smallRange:
		c = n / 4
	case n < mediumRange:
		c = n / uint64(8*w)
	default:
		c = n / uint64(16*w)
	}
	if c < 1 {
		c = 1
	}
	return c
}

// span is a half-open chunk [lo, hi) of logical iteration indices.
// Logical index k maps to loop index start + k*step.
type span struct {
	lo, hi uint64
}

// staticSpans splits n iterations into exactly w contiguous spans using
// the proportional split begin = n*i/w, so span lengths differ by at most
// one iteration. Spans for i >= n are empty and skipped.
func staticSpans(n uint64, w int) []span {
	spans := make([]span, 0, w)
	uw := uint64(w)
	for i := uint64(0); i < uw; i++ {
		// n*i can overflow uint64 for extreme n; split via quotient and
		// remainder instead of the direct product.
		lo := mulDiv(n, i, uw)
		hi := mulDiv(n, i+1, uw)
		if lo == hi {
			continue
		}
		spans = append(spans, span{lo: lo, hi: hi})
	}
	return spans
}

// mulDiv computes n*i/w without overflowing the intermediate product.
func mulDiv(n, i, w uint64) uint64 {
	q := n / w
	r := n % w
	return q*i + r*i/w
}

// fixedSpans splits n iterations into ceil(n/c) spans of c iterations
// (the last may be short).
func fixedSpans(n, c uint64) []span {
	spans := make([]span, 0, (n+c-1)/c)
	for lo := uint64(0); lo < n; {
		hi := lo + c
		if hi > n || hi < lo {
			hi = n
		}
		spans = append(spans, span{lo: lo, hi: hi})
		lo = hi
	}
	return spans
}

// guidedSpans splits n iterations into spans of geometrically decaying
// size: remaining/(2*w), floored at min.
func guidedSpans(n uint64, w int, min uint64) []span {
	if min < 1 {
		min = 1
	}
	var spans []span
	for lo := uint64(0); lo < n; {
		c := (n - lo) / uint64(2*w)
		if c < min {
			c = min
		}
		hi := lo + c
		if hi > n || hi < lo {
			hi = n
		}
		spans = append(spans, span{lo: lo, hi: hi})
		lo = hi
	}
	return spans
}
