// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package par

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// fallbackWorkers is used when hardware concurrency cannot be detected.
const fallbackWorkers = 4

// options configures pool creation.
type options struct {
	workers        int
	logger         zerolog.Logger
	panicHandler   func(worker int, recovered any)
	barrierTimeout time.Duration
}

// Option configures a Pool at creation time.
type Option func(*options)

// WithWorkers sets the number of worker goroutines.
// Non-positive values select the detected hardware concurrency.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the pool's structured logger. The default logger writes
// warn-and-above to stderr.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithPanicHandler sets the handler invoked when a task panics. The
// default handler logs the recovered value; the worker survives either
// way.
func WithPanicHandler(h func(worker int, recovered any)) Option {
	return func(o *options) {
		o.panicHandler = h
	}
}

// WithBarrierTimeout sets the deadlock escape bound of the pool's barrier.
func WithBarrierTimeout(d time.Duration) Option {
	return func(o *options) {
		o.barrierTimeout = d
	}
}

// defaultLogger is the library-quiet logger: timestamped, warn-and-above,
// to stderr.
func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
}

func defaultOptions() options {
	return options{
		workers:        0, // resolved to hardware concurrency
		logger:         defaultLogger(),
		barrierTimeout: DefaultBarrierTimeout,
	}
}

// resolveWorkers maps a configured worker count to an effective one:
// explicit positive counts are taken as-is; otherwise the detected
// hardware concurrency, falling back to a small fixed count when
// detection yields nothing usable.
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	if c := runtime.NumCPU(); c > 0 {
		return c
	}
	return fallbackWorkers
}
