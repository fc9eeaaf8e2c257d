package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/draftforge/internal/config"
)

// RejectLimiter counts rejected requests per IP and locks out IPs that keep
// sending them.
type RejectLimiter struct {
	mu                sync.Mutex
	rejects           map[string]*rejectInfo
	maxAttempts       int
	lockoutSeconds    int
	maxLockoutSeconds int
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type rejectInfo struct {
	count        int
	lockedUntil  time.Time
	lockoutCount int // Number of times locked out (for exponential backoff)
}

// NewRejectLimiter creates a new limiter with the given config.
func NewRejectLimiter(cfg config.RateLimitConfig) *RejectLimiter {
	rl := &RejectLimiter{
		rejects:           make(map[string]*rejectInfo),
		maxAttempts:       cfg.MaxAttempts,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
	}

	if rl.maxAttempts == 0 {
		rl.maxAttempts = 10
	}
	if rl.lockoutSeconds == 0 {
		rl.lockoutSeconds = 30
	}
	if rl.maxLockoutSeconds == 0 {
		rl.maxLockoutSeconds = 300
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine.
func (rl *RejectLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// IsLocked checks if the given IP is currently locked out.
// Returns true if locked, along with the remaining lockout duration.
func (rl *RejectLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.rejects[ip]
	if !exists {
		return false, 0
	}

	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}

	return false, 0
}

// RecordReject records a rejected request from the given IP.
// Returns true if the IP is now locked out, along with the lockout duration.
func (rl *RejectLimiter) RecordReject(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.rejects[ip]
	if !exists {
		info = &rejectInfo{}
		rl.rejects[ip] = info
	}

	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}

	info.count++
	if info.count < rl.maxAttempts {
		return false, 0
	}

	info.lockoutCount++
	// Exponential backoff: double the lockout each time, up to max
	lockout := time.Duration(rl.lockoutSeconds) * time.Second
	maxLockout := time.Duration(rl.maxLockoutSeconds) * time.Second
	for i := 1; i < info.lockoutCount; i++ {
		if lockout >= maxLockout/2 {
			lockout = maxLockout
			break
		}
		lockout *= 2
	}
	if lockout > maxLockout {
		lockout = maxLockout
	}
	info.lockedUntil = time.Now().Add(lockout)
	info.count = 0
	return true, lockout
}

// Rejects returns the current reject count for an IP.
func (rl *RejectLimiter) Rejects(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, exists := rl.rejects[ip]; exists {
		return info.count
	}
	return 0
}

func (rl *RejectLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops entries unlocked for at least 10 minutes with no pending
// rejects.
func (rl *RejectLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, info := range rl.rejects {
		if info.lockedUntil.Before(cutoff) && info.count == 0 {
			delete(rl.rejects, ip)
		}
	}
}
