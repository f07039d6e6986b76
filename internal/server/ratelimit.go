package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"fitcheck/internal/config"
)

// clientLimiter pairs a token bucket with its last use for cleanup.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterManager keeps one token bucket per client key and evicts idle
// entries in the background.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	cfg      config.RateLimitConfig
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiterManager creates a limiter manager and starts its cleanup
// loop.
func NewLimiterManager(cfg config.RateLimitConfig) *LimiterManager {
	lm := &LimiterManager{
		limiters: make(map[string]*clientLimiter),
		cfg:      cfg,
		stop:     make(chan struct{}),
	}
	go lm.cleanupLoop()
	return lm
}

// Allow reports whether the client identified by key may proceed.
func (lm *LimiterManager) Allow(key string) bool {
	if !lm.cfg.Enabled {
		return true
	}
	return lm.getLimiter(key).Allow()
}

func (lm *LimiterManager) getLimiter(key string) *rate.Limiter {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	cl, ok := lm.limiters[key]
	if !ok {
		limit := rate.Limit(float64(lm.cfg.RequestsPerMinute) / 60.0)
		cl = &clientLimiter{limiter: rate.NewLimiter(limit, lm.cfg.Burst)}
		lm.limiters[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (lm *LimiterManager) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-lm.stop:
			return
		case <-ticker.C:
			lm.cleanup(10 * time.Minute)
		}
	}
}

func (lm *LimiterManager) cleanup(maxIdle time.Duration) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, cl := range lm.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(lm.limiters, key)
		}
	}
}

// Size returns the number of tracked clients.
func (lm *LimiterManager) Size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.limiters)
}

// Close stops the cleanup loop.
func (lm *LimiterManager) Close() {
	lm.stopOnce.Do(func() { close(lm.stop) })
}
