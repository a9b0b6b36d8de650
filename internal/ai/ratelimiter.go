package ai

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// window is one sliding rate window: at any instant, at most max admissions
// may have happened within the last duration.
type window struct {
	duration time.Duration
	max      int
	stamps   []time.Time
}

func (w *window) prune(now time.Time) {
	i := 0
	for i < len(w.stamps) && now.Sub(w.stamps[i]) >= w.duration {
		i++
	}
	w.stamps = w.stamps[i:]
}

// waitTime returns how long the caller must wait before one more admission
// fits, zero if it fits now.
func (w *window) waitTime(now time.Time) time.Duration {
	w.prune(now)
	if len(w.stamps) < w.max {
		return 0
	}
	return w.duration - now.Sub(w.stamps[0])
}

type waiter struct {
	ready chan struct{}
	ctx   context.Context
}

// RateLimiter throttles outbound provider calls under two independent
// ceilings (per-minute and per-hour) with a fixed minimum gap between
// admissions. Waiters are admitted strictly in arrival order; a single drain
// goroutine owns all window bookkeeping, so timestamps are never mutated
// concurrently.
//
// The limiter is constructed once per process and injected wherever provider
// calls are made; Reset exists for test isolation.
type RateLimiter struct {
	mu      sync.Mutex
	windows []*window
	queue   []*waiter
	running bool
	minGap  time.Duration

	// resetCh wakes a sleeping admit when Reset is called; replaced on
	// every Reset.
	resetCh chan struct{}

	now func() time.Time
}

type RateLimiterConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	// MinGap is the pacing floor between any two admissions, independent
	// of the window math.
	MinGap time.Duration
}

func NewRateLimiter(cfg RateLimiterConfig) (*RateLimiter, error) {
	if cfg.RequestsPerMinute < 1 || cfg.RequestsPerHour < 1 {
		return nil, fmt.Errorf("rate limiter ceilings must be at least 1 (got %d/min, %d/hour)",
			cfg.RequestsPerMinute, cfg.RequestsPerHour)
	}

	return &RateLimiter{
		windows: []*window{
			{duration: time.Minute, max: cfg.RequestsPerMinute},
			{duration: time.Hour, max: cfg.RequestsPerHour},
		},
		minGap:  cfg.MinGap,
		resetCh: make(chan struct{}),
		now:     time.Now,
	}, nil
}

// WaitForAvailability blocks the calling goroutine until admitting one more
// provider call would not violate either window, then records the admission
// in both windows and returns. Callers are served FIFO. Returns the context
// error if ctx is cancelled while queued.
func (l *RateLimiter) WaitForAvailability(ctx context.Context) error {
	w := &waiter{ready: make(chan struct{}), ctx: ctx}

	l.mu.Lock()
	l.queue = append(l.queue, w)
	if !l.running {
		l.running = true
		go l.drain()
	}
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain serves queued waiters one at a time. It exits when the queue empties
// and is restarted by the next WaitForAvailability call.
func (l *RateLimiter) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.running = false
			l.mu.Unlock()
			return
		}
		w := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		// Abandoned waiters are skipped without burning window capacity.
		if w.ctx.Err() != nil {
			continue
		}

		if l.admit(w) {
			close(w.ready)
			if l.minGap > 0 {
				time.Sleep(l.minGap)
			}
		}
	}
}

// admit waits until both windows have room, then records the admission
// timestamp in each. Returns false if the waiter's context expired first.
func (l *RateLimiter) admit(w *waiter) bool {
	for {
		l.mu.Lock()
		resetCh := l.resetCh
		now := l.now()
		var wait time.Duration
		for _, win := range l.windows {
			if d := win.waitTime(now); d > wait {
				wait = d
			}
		}
		if wait <= 0 {
			for _, win := range l.windows {
				win.stamps = append(win.stamps, now)
			}
			l.mu.Unlock()
			return true
		}
		l.mu.Unlock()

		select {
		case <-w.ctx.Done():
			return false
		case <-resetCh:
			// Windows were cleared; re-check immediately.
		case <-time.After(wait):
		}
	}
}

// Reset clears all recorded admissions and releases any queued waiters.
// Intended for test isolation only: released waiters return success without
// window bookkeeping.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, win := range l.windows {
		win.stamps = nil
	}
	for _, w := range l.queue {
		close(w.ready)
	}
	l.queue = nil
	close(l.resetCh)
	l.resetCh = make(chan struct{})
}
