package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMaxTokens = 4096

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds is the whole-second delay a denied caller should wait
// before retrying, rounded up so the retry lands after the window frees up.
func (d Decision) RetryAfterSeconds(now time.Time) int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.ResetAt.Sub(now).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

// Limiter is a sliding-window request cap per caller token. Windows live in
// a bounded cache and are evicted after sitting idle for the interval, so an
// abandoned token cannot pin memory. Safe for concurrent use.
type Limiter struct {
	interval time.Duration

	mu      sync.Mutex
	windows *expirable.LRU[string, []time.Time]
	now     func() time.Time
}

// NewLimiter builds a limiter over the given trailing interval.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		windows:  expirable.NewLRU[string, []time.Time](defaultMaxTokens, nil, interval),
		now:      time.Now,
	}
}

// Check records a request for token unless the window is already full.
// On denial, ResetAt is the oldest retained timestamp plus the interval, so
// callers can compute a precise retry delay.
func (l *Limiter) Check(limit int, token string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.interval)

	stamps, _ := l.windows.Get(token)
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		l.windows.Add(token, kept)
		return Decision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   kept[0].Add(l.interval),
		}
	}

	kept = append(kept, now)
	l.windows.Add(token, kept)
	return Decision{
		Allowed:   true,
		Remaining: limit - len(kept),
		ResetAt:   kept[0].Add(l.interval),
	}
}
