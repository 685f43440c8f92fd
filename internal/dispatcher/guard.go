package dispatcher

import (
	"errors"
	"sync"
)

// ErrBusy is returned while another call for the same key is in flight
var ErrBusy = errors.New("operation already in progress")

// Guard lets at most one call per key run at a time. Calls arriving while
// the key is busy are rejected, not queued.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[string]struct{})}
}

// Do runs fn unless key is busy
func (g *Guard) Do(key string, fn func() error) error {
	if !g.acquire(key) {
		return ErrBusy
	}
	defer g.release(key)
	return fn()
}

// Busy reports whether a call for key is in flight
func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inFlight[key]
	return ok
}

func (g *Guard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

func (g *Guard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}

// Key joins the parts of a guard key, e.g. Key("like", userID, videoID)
func Key(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, '|')
		}
		b = append(b, p...)
	}
	return string(b)
}
