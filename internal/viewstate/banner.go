package viewstate

import (
	"sync"
	"time"
)

// DefaultBannerTTL is how long a failure message stays visible
const DefaultBannerTTL = 5 * time.Second

// Banner holds the last failure message and clears itself after ttl
type Banner struct {
	mu       sync.Mutex
	message  string
	ttl      time.Duration
	timer    *time.Timer
	seq      uint64
	onChange func()
}

func NewBanner(ttl time.Duration, onChange func()) *Banner {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return &Banner{ttl: ttl, onChange: onChange}
}

// Show replaces the message and restarts the clear timer
func (b *Banner) Show(message string) {
	b.mu.Lock()
	b.message = message
	b.seq++
	seq := b.seq
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(seq) })
	b.mu.Unlock()

	b.notify()
}

func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

func (b *Banner) Clear() {
	b.mu.Lock()
	b.message = ""
	b.seq++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()
}

// expire clears the message unless a newer one replaced it
func (b *Banner) expire(seq uint64) {
	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		return
	}
	b.message = ""
	b.timer = nil
	b.mu.Unlock()

	b.notify()
}

func (b *Banner) notify() {
	if b.onChange != nil {
		b.onChange()
	}
}
