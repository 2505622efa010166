package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a token bucket per client: limit requests per period, refilled
// evenly, with a burst of limit.
type Limiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	every    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewLimiter(limit int, per time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	l := &Limiter{
		clients: make(map[string]*client),
		every:   rate.Every(per / time.Duration(limit)),
		burst:   limit,
		// A bucket idle this long is full again and can be forgotten.
		idle: per,
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Allow takes one token for clientID. When none is left it returns false and
// the wait until the next token.
func (l *Limiter) Allow(clientID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[clientID]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[clientID] = c
	}
	c.lastSeen = now

	res := c.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, l.idle
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.clients, clientID)
}

// Stop ends the background cleanup.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *Limiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idle {
			delete(l.clients, id)
		}
	}
}
