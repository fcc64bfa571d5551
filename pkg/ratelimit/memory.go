package ratelimit

import (
	"context"
	"sync"
	"time"
)

// rateLimitEntry tracks request count for a key
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	deleted bool
	mu      sync.Mutex
}

// Memory is a fixed-window limiter kept in process memory.
type Memory struct {
	limit  int
	window time.Duration
	store  sync.Map
	now    func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemory starts a limiter allowing limit requests per window and a
// janitor that drops expired keys every cleanupEvery. Call Close to stop it.
func NewMemory(limit int, window, cleanupEvery time.Duration) *Memory {
	m := &Memory{
		limit:  limit,
		window: window,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go m.cleanupLoop(cleanupEvery)
	}
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()

	for {
		entryI, _ := m.store.LoadOrStore(key, &rateLimitEntry{
			resetAt: now.Add(m.window),
		})
		entry := entryI.(*rateLimitEntry)

		entry.mu.Lock()
		// The janitor removed this entry after we loaded it; load again.
		if entry.deleted {
			entry.mu.Unlock()
			continue
		}

		// Reset if window expired
		if !now.Before(entry.resetAt) {
			entry.count = 0
			entry.resetAt = now.Add(m.window)
		}
		entry.count++
		res := newResult(entry.count, m.limit, entry.resetAt)
		entry.mu.Unlock()

		return res, nil
	}
}

func (m *Memory) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *Memory) cleanup() {
	now := m.now()
	m.store.Range(func(key, value any) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if !now.Before(entry.resetAt) {
			entry.deleted = true
			m.store.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// Close stops the janitor goroutine.
func (m *Memory) Close() {
	m.closeOnce.Do(func() { close(m.stop) })
}
