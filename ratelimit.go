package passquiz

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultRateWindow  = 15 * time.Minute
)

// RateLimitStore holds one record per key. Implementations must be safe for
// concurrent use; RateLimiter serializes its own read-modify-write cycles.
type RateLimitStore interface {
	Get(key string) (RateLimitRecord, bool)
	Set(key string, rec RateLimitRecord)
	Delete(key string)
}

// RateLimitResult is the outcome of one attempt
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter caps attempts per key within a fixed window
type RateLimiter struct {
	mu          sync.Mutex
	store       RateLimitStore
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a limiter over store. Non-positive limits fall back to defaults.
func NewRateLimiter(store RateLimitStore, maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	return &RateLimiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// SetClock replaces the time source
func (rl *RateLimiter) SetClock(now func() time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.now = now
}

// Check records an attempt for key and reports whether it is allowed
func (rl *RateLimiter) Check(key string) RateLimitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rec, ok := rl.store.Get(key)

	if !ok || now.After(rec.ResetTime) {
		rl.store.Set(key, RateLimitRecord{Count: 1, ResetTime: now.Add(rl.window)})
		return RateLimitResult{Allowed: true, Remaining: rl.maxAttempts - 1, ResetIn: rl.window}
	}

	if rec.Count >= rl.maxAttempts {
		return RateLimitResult{Allowed: false, Remaining: 0, ResetIn: rec.ResetTime.Sub(now)}
	}

	rec.Count++
	rl.store.Set(key, rec)
	return RateLimitResult{
		Allowed:   true,
		Remaining: rl.maxAttempts - rec.Count,
		ResetIn:   rec.ResetTime.Sub(now),
	}
}

// Reset forgets all attempts for key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.store.Delete(key)
}

// MemoryRateLimitStore keeps records in process memory
type MemoryRateLimitStore struct {
	mu      sync.RWMutex
	records map[string]RateLimitRecord
}

// NewMemoryRateLimitStore creates an empty in-memory store
func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		records: make(map[string]RateLimitRecord),
	}
}

// Get returns the record for key
func (s *MemoryRateLimitStore) Get(key string) (RateLimitRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Set stores the record for key
func (s *MemoryRateLimitStore) Set(key string, rec RateLimitRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = rec
}

// Delete removes the record for key
func (s *MemoryRateLimitStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}

// Len returns the number of stored records
func (s *MemoryRateLimitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Sweep removes records whose window ended before now and returns how many were removed
func (s *MemoryRateLimitStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if now.After(rec.ResetTime) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired records every interval until ctx is done
func (s *MemoryRateLimitStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				VerboseLog("Rate limiter evicted %d expired records", n)
			}
		}
	}
}
