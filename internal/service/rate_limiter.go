package service

import (
	"sync"
	"time"
)

// ClientRateLimit is the in-memory fallback limiter for report endpoints,
// used when redis is unavailable. Fixed window per client IP.
type ClientRateLimit struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	window   time.Duration
	maxReqs  int
}

// NewClientRateLimit creates a new rate limiter
func NewClientRateLimit(window time.Duration, maxReqs int) *ClientRateLimit {
	return &ClientRateLimit{
		requests: make(map[string][]time.Time),
		window:   window,
		maxReqs:  maxReqs,
	}
}

// Check records a request for the IP and reports whether it is within the
// limit.
func (r *ClientRateLimit) Check(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	// Drop requests that fell out of the window
	if reqs, exists := r.requests[ip]; exists {
		valid := reqs[:0]
		for _, t := range reqs {
			if now.Sub(t) < r.window {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(r.requests, ip)
		} else {
			r.requests[ip] = valid
		}
	}

	if len(r.requests[ip]) >= r.maxReqs {
		return false
	}

	r.requests[ip] = append(r.requests[ip], now)
	return true
}
