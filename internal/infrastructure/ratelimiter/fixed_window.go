// Package ratelimiter throttles clients of the local backend.
package ratelimiter

import (
	"sync"
	"time"
)

type Limiter interface {
	// Allow counts one request for key and reports the wait until the next
	// window when it is over the limit.
	Allow(key string) (bool, time.Duration)
	Close()
}

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow allows limit requests per key in each window. Expired windows
// are swept once per window.
type FixedWindow struct {
	windows map[string]*window
	limit   int
	size    time.Duration
	now     func() time.Time
	mu      sync.Mutex

	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func NewFixedWindow(limit int, size time.Duration) *FixedWindow {
	if size <= 0 {
		size = time.Second
	}
	rl := &FixedWindow{
		windows: make(map[string]*window),
		limit:   limit,
		size:    size,
		now:     time.Now,
		ticker:  time.NewTicker(size),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *FixedWindow) Allow(key string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Truncate(rl.size).Add(rl.size)}
		return true, 0
	}
	if w.count >= rl.limit {
		return false, w.resetAt.Sub(now)
	}
	w.count++
	return true, 0
}

func (rl *FixedWindow) sweep() {
	for {
		select {
		case <-rl.ticker.C:
			now := rl.now()
			rl.mu.Lock()
			for key, w := range rl.windows {
				if !now.Before(w.resetAt) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindow) Close() {
	rl.once.Do(func() {
		close(rl.done)
		rl.ticker.Stop()
	})
}
