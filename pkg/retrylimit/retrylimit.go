// Package retrylimit throttles calls to a remote API with a limiter that
// slows down when the remote side pushes back, and retries transient
// failures with exponential backoff.
//
//	lim := retrylimit.NewLimiter(2, 0.5, 5)
//	err := retrylimit.Do(ctx, lim, retrylimit.DefaultPolicy(), func(ctx context.Context) error {
//	    return callAPI(ctx)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// calm is how long a limiter must go without pushback before speeding up again.
const calm = 10 * time.Second

// Limiter is a token bucket whose rate halves on pushback and creeps back up
// by one request per second after successes. Safe for concurrent use.
type Limiter struct {
	mu           sync.Mutex
	limiter      *rate.Limiter
	min, max     rate.Limit
	lastPushback time.Time
}

// NewLimiter starts at initial requests per second and stays within [min, max].
func NewLimiter(initial, min, max rate.Limit) *Limiter {
	if min <= 0 {
		min = 0.1
	}
	if max < min {
		max = min
	}
	initial = clamp(initial, min, max)
	return &Limiter{
		limiter: rate.NewLimiter(initial, burst(initial)),
		min:     min,
		max:     max,
	}
}

// Wait blocks until a request may be made or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Success raises the rate unless the remote side pushed back recently.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastPushback) > calm {
		l.set(l.limiter.Limit() + 1)
	}
}

// Pushback halves the rate.
func (l *Limiter) Pushback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastPushback = time.Now()
	l.set(l.limiter.Limit() / 2)
}

// Limit is the current rate in requests per second.
func (l *Limiter) Limit() rate.Limit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limiter.Limit()
}

func (l *Limiter) set(r rate.Limit) {
	r = clamp(r, l.min, l.max)
	if r != l.limiter.Limit() {
		l.limiter.SetLimit(r)
		l.limiter.SetBurst(burst(r))
	}
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Retryable reports whether err is worth another attempt: 429 and 5xx
// responses. Anything else, including transport errors, is returned at once.
func Retryable(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusTooManyRequests || se.Code >= 500
}

type Policy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Attempts: 2, Delay: 250 * time.Millisecond, MaxDelay: 2 * time.Second}
}

// Do runs fn until it succeeds, fails with a non-retryable error, the
// attempts run out or ctx is done. A nil limiter disables throttling.
func Do(ctx context.Context, lim *Limiter, p Policy, fn func(context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	delay := p.Delay

	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		if !Retryable(err) {
			return err
		}

		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusTooManyRequests && lim != nil {
			lim.Pushback()
		}
		if attempt == p.Attempts {
			break
		}

		slog.Debug("Retrying request", "attempt", attempt, "error", err, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return err
}

func clamp(r, min, max rate.Limit) rate.Limit {
	if r < min {
		return min
	}
	if r > max {
		return max
	}
	return r
}

func burst(r rate.Limit) int {
	if r < 1 {
		return 1
	}
	return int(r)
}
