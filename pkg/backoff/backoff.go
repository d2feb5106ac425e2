package backoff

import (
	"context"
	"time"
)

// Backoff implements a simple exponential backoff strategy that caps the
// calculated delay at a configured maximum.
type Backoff struct {
	base    time.Duration // starting delay
	max     time.Duration // maximum delay cap
	attempt int           // current attempt counter
}

// New creates a new backoff helper with base and max durations.
func New(base, max time.Duration) *Backoff {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	return &Backoff{
		base: base,
		max:  max,
	}
}

// Next returns the delay for the current attempt and increments the internal
// counter so that each subsequent call produces an exponentially longer delay
// until the configured maximum is reached.
func (b *Backoff) Next() time.Duration {
	// Calculate delay: base * 2^attempt.
	delay := b.base << uint(b.attempt)
	if delay > b.max || delay <= 0 {
		delay = b.max
	} else {
		b.attempt++
	}
	return delay
}

// Wait sleeps for the next delay. It returns ctx.Err() if the context ends first.
func (b *Backoff) Wait(ctx context.Context) error {
	timer := time.NewTimer(b.Next())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Attempts returns how many delays have grown the sequence so far.
func (b *Backoff) Attempts() int {
	return b.attempt
}

// Reset sets the attempt counter back to zero so that the next call to Next
// returns the base delay again.
func (b *Backoff) Reset() {
	b.attempt = 0
}
