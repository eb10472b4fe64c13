// Package ratelimit throttles outbound LLM calls with a sliding-window
// counter. State is process-wide: one limiter is constructed in main and
// shared by every request handler.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Limiter allows at most maxCalls within a sliding window. Callers that are
// refused must degrade gracefully (skip the LLM call), never block.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	window   time.Duration
	calls    []time.Time
	now      func() time.Time

	dropsTotal prometheus.Counter
	logger     *zap.Logger
}

// New creates a limiter allowing maxCalls per window.
// dropsTotal (optional) counts refused calls.
func New(maxCalls int, window time.Duration, dropsTotal prometheus.Counter, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		maxCalls:   maxCalls,
		window:     window,
		now:        time.Now,
		dropsTotal: dropsTotal,
		logger:     logger,
	}
}

// WithClock overrides the time source (tests).
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records and permits a call when the window has capacity. When the
// window is full it refuses, records the drop, and returns how long until
// the next call would be allowed.
func (l *Limiter) Allow() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.calls) < l.maxCalls {
		l.calls = append(l.calls, now)
		return true, 0
	}

	wait := l.window - now.Sub(l.calls[0])
	if wait < 0 {
		wait = 0
	}

	if l.dropsTotal != nil {
		l.dropsTotal.Inc()
	}
	l.logger.Warn("llm rate limit reached",
		zap.Int("max_calls", l.maxCalls),
		zap.Duration("window", l.window),
		zap.Duration("retry_after", wait),
	)

	return false, wait
}

// evict drops timestamps that fell out of the window. Caller holds the lock.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}
