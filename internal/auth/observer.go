package auth

import (
	"sync"
	"time"
)

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// AuthEvent is one auth state transition
type AuthEvent struct {
	UserID string    `json:"user_id"`
	Kind   EventKind `json:"kind"`
	At     time.Time `json:"at"`
}

// Observer fans auth transitions out to every subscriber. A subscriber that
// falls behind by more than its buffer misses events.
type Observer struct {
	mu     sync.RWMutex
	subs   map[int]chan AuthEvent
	nextID int
}

func NewObserver() *Observer {
	return &Observer{subs: make(map[int]chan AuthEvent)}
}

// Subscribe returns the event channel and a function that ends the subscription
func (o *Observer) Subscribe(buffer int) (<-chan AuthEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan AuthEvent, buffer)

	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = ch
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
			close(ch)
		})
	}
}

func (o *Observer) Publish(event AuthEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, ch := range o.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
