package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API names an upstream provider with its own request budget.
type API string

const (
	// APIYahoo represents the Yahoo Finance quote API
	APIYahoo API = "yahoo"
	// APIGoogle represents the Google Finance quote pages
	APIGoogle API = "google"
)

// Limiter manages rate limits for different APIs.
// A nil *Limiter allows everything.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New returns a limiter with the given requests-per-second budget per API.
// A non-positive rate leaves that API unlimited.
func New(limits map[API]float64) *Limiter {
	l := &Limiter{limiters: make(map[API]*rate.Limiter, len(limits))}
	for api, rps := range limits {
		l.Set(api, rps)
	}
	return l
}

// Set replaces the budget for one API.
func (l *Limiter) Set(api API, rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rps <= 0 {
		l.limiters[api] = rate.NewLimiter(rate.Inf, 1)
		return
	}
	// Burst of one keeps concurrent pollers from bunching requests.
	l.limiters[api] = rate.NewLimiter(rate.Limit(rps), 1)
}

// Wait blocks until a request to api may be sent, or ctx is done.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	if l == nil {
		return nil
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return nil
	}

	return limiter.Wait(ctx)
}

// Allow reports whether a request to api may be sent now without waiting.
func (l *Limiter) Allow(api API) bool {
	if l == nil {
		return true
	}

	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return true
	}

	return limiter.Allow()
}
