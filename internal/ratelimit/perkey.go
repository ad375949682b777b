package ratelimit

import (
	"sync"
	"time"
)

// PerKeyConfig configures a PerKeyLimiter instance.
type PerKeyConfig struct {
	MaxTokens     float64       // Maximum tokens per key (burst capacity)
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often inactive buckets are removed
}

// PerKeyLimiter tracks rate limits per key (e.g., Telegram user ID).
// It creates a separate token bucket for each key and cleans up
// buckets that have refilled completely.
type PerKeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	config   PerKeyConfig
	onDrop   func() // Optional callback when a request is dropped
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerKeyLimiter creates a new per-key rate limiter and starts its
// cleanup loop. Call Stop when done.
func NewPerKeyLimiter(cfg PerKeyConfig) *PerKeyLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}

	pkl := &PerKeyLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pkl.cleanupLoop()

	return pkl
}

// OnDrop sets a callback invoked when a request is dropped due to rate limiting.
func (pkl *PerKeyLimiter) OnDrop(fn func()) {
	pkl.onDrop = fn
}

// Allow reports whether the key may proceed now, consuming a token if so.
func (pkl *PerKeyLimiter) Allow(key string) bool {
	pkl.mu.Lock()
	lim, ok := pkl.limiters[key]
	if !ok {
		lim = New(pkl.config.MaxTokens, pkl.config.RefillRate)
		pkl.limiters[key] = lim
	}
	pkl.mu.Unlock()

	allowed := lim.Allow()
	if !allowed && pkl.onDrop != nil {
		pkl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of tracked keys.
func (pkl *PerKeyLimiter) ActiveCount() int {
	pkl.mu.Lock()
	defer pkl.mu.Unlock()
	return len(pkl.limiters)
}

// Stop terminates the cleanup loop.
func (pkl *PerKeyLimiter) Stop() {
	pkl.stopOnce.Do(func() {
		close(pkl.stopCh)
	})
}

// cleanupLoop periodically removes buckets that are back at full capacity.
func (pkl *PerKeyLimiter) cleanupLoop() {
	ticker := time.NewTicker(pkl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pkl.stopCh:
			return
		case <-ticker.C:
			pkl.mu.Lock()
			for key, lim := range pkl.limiters {
				if lim.Tokens() >= pkl.config.MaxTokens {
					delete(pkl.limiters, key)
				}
			}
			pkl.mu.Unlock()
		}
	}
}
