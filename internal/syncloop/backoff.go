package syncloop

import "time"

const (
	DefaultBackoffBase = 2 * time.Second
	DefaultBackoffMax  = 30 * time.Second
)

// Backoff doubles the retry delay after each consecutive failure, starting at
// Base and capped at Max. A zero Backoff uses the defaults.
type Backoff struct {
	Base time.Duration
	Max  time.Duration

	current time.Duration
}

// Next records a failure and returns the delay before the retry
func (b *Backoff) Next() time.Duration {
	base, maxDelay := b.Base, b.Max
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if maxDelay <= 0 {
		maxDelay = DefaultBackoffMax
	}

	if b.current == 0 {
		b.current = base
	} else {
		b.current *= 2
	}
	if b.current > maxDelay {
		b.current = maxDelay
	}
	return b.current
}

// Reset clears the failure streak
func (b *Backoff) Reset() {
	b.current = 0
}

// Active reports whether the last poll failed
func (b *Backoff) Active() bool {
	return b.current > 0
}
