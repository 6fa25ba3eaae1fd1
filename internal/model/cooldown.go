package model

import (
	"sync"
	"time"
)

// Default placement cooldowns. Loopback clients get a short cooldown so local
// development stays fast without weakening the production rate limit.
const (
	DefaultCooldown      = 10 * time.Second
	DefaultLocalCooldown = 1 * time.Second
)

// CooldownStatus is the admission decision for one client key.
type CooldownStatus struct {
	Allowed   bool
	Remaining time.Duration
}

// CooldownTracker maps a client key to the earliest time that key may place
// again. No entry means "never placed", which admits immediately. Expired
// entries are evicted lazily on the next check for that key, and in bulk by
// Sweep.
type CooldownTracker struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
	standard  time.Duration
	local     time.Duration
}

func NewCooldownTracker(standard, local time.Duration) *CooldownTracker {
	if standard <= 0 {
		standard = DefaultCooldown
	}
	if local <= 0 {
		local = DefaultLocalCooldown
	}
	return &CooldownTracker{
		deadlines: make(map[string]time.Time),
		standard:  standard,
		local:     local,
	}
}

// Check decides admission for key at the given instant. It never extends or
// creates a cooldown; recording happens separately so a rejected placement
// never consumes cooldown.
func (ct *CooldownTracker) Check(key string, now time.Time) CooldownStatus {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	deadline, exists := ct.deadlines[key]
	if !exists {
		return CooldownStatus{Allowed: true}
	}
	if !now.Before(deadline) {
		delete(ct.deadlines, key)
		return CooldownStatus{Allowed: true}
	}
	return CooldownStatus{Allowed: false, Remaining: deadline.Sub(now)}
}

// Record stores a fresh deadline for key, overwriting any prior entry, and
// returns it. Called only after a placement has been accepted.
func (ct *CooldownTracker) Record(key string, now time.Time) time.Time {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	duration := ct.standard
	if IsLocalKey(key) {
		duration = ct.local
	}
	deadline := now.Add(duration)
	ct.deadlines[key] = deadline
	return deadline
}

// Sweep removes every expired entry and returns how many were dropped. Lazy
// eviction only clears a key on its own next check, so without a periodic
// sweep the map would grow with every short-lived address ever seen.
func (ct *CooldownTracker) Sweep(now time.Time) int {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	dropped := 0
	for key, deadline := range ct.deadlines {
		if !now.Before(deadline) {
			delete(ct.deadlines, key)
			dropped++
		}
	}
	return dropped
}

// Size returns the number of live entries, expired or not.
func (ct *CooldownTracker) Size() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.deadlines)
}

// IsLocalKey reports whether key names the local machine.
func IsLocalKey(key string) bool {
	return key == "::1" || key == "127.0.0.1" || key == "localhost"
}
