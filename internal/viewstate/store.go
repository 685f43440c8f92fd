// Package viewstate holds the per-page state of a list view: the loaded
// items, the filtered projection shown to the user and the load status.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusMutating
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusMutating:
		return "mutating"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrInvalidTransition = errors.New("invalid view state transition")
	ErrUnknownSortKey    = errors.New("unknown sort key")
	ErrClosed            = errors.New("view state closed")
)

// State is a copy of a page's state; callers may keep and read it freely
type State[T any] struct {
	Items    []T     `json:"-"`
	Filtered []T     `json:"items"`
	Total    int     `json:"total"`
	Status   Status  `json:"status"`
	Err      error   `json:"-"`
	Error    string  `json:"error,omitempty"`
	Banner   string  `json:"banner,omitempty"`
	Filters  Filters `json:"filters"`
	Version  uint64  `json:"version"`
}

// Store is the state of one page. Every change to items or filters
// recomputes Filtered.
type Store[T any] struct {
	mu       sync.RWMutex
	spec     Spec[T]
	items    []T
	filtered []T
	status   Status
	err      error
	filters  Filters
	version  uint64
	closed   bool

	banner   *Banner
	watchers map[int]chan State[T]
	nextID   int
}

func NewStore[T any](spec Spec[T], bannerTTL time.Duration) *Store[T] {
	s := &Store[T]{
		spec:     spec,
		items:    []T{},
		filtered: []T{},
		watchers: make(map[int]chan State[T]),
	}
	s.banner = NewBanner(bannerTTL, s.broadcast)
	return s
}

func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store[T]) snapshotLocked() State[T] {
	state := State[T]{
		Items:    append([]T(nil), s.items...),
		Filtered: append([]T{}, s.filtered...),
		Total:    len(s.items),
		Status:   s.status,
		Err:      s.err,
		Banner:   s.banner.Message(),
		Filters:  s.filters.clone(),
		Version:  s.version,
	}
	if s.err != nil {
		state.Error = s.err.Error()
	}
	return state
}

func (s *Store[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *Store[T]) SetSearch(search string) error {
	return s.update(func() error {
		s.filters.Search = search
		return nil
	})
}

// SetSort selects key ascending; selecting the active key again flips the
// direction. An empty key removes sorting.
func (s *Store[T]) SetSort(key string) error {
	return s.update(func() error {
		if key == "" {
			s.filters.SortKey = ""
			s.filters.SortDesc = false
			return nil
		}
		if _, ok := s.spec.SortKeys[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
		}
		if s.filters.SortKey == key {
			s.filters.SortDesc = !s.filters.SortDesc
			return nil
		}
		s.filters.SortKey = key
		s.filters.SortDesc = false
		return nil
	})
}

// SetMatch sets an equality filter; an empty value removes it
func (s *Store[T]) SetMatch(key, value string) error {
	return s.update(func() error {
		if value == "" {
			delete(s.filters.Match, key)
			return nil
		}
		if s.filters.Match == nil {
			s.filters.Match = make(map[string]string)
		}
		s.filters.Match[key] = value
		return nil
	})
}

// SetFilters replaces all filters at once. A SortKey not in the spec is an error.
func (s *Store[T]) SetFilters(filters Filters) error {
	return s.update(func() error {
		if filters.SortKey != "" {
			if _, ok := s.spec.SortKeys[filters.SortKey]; !ok {
				return fmt.Errorf("%w: %s", ErrUnknownSortKey, filters.SortKey)
			}
		}
		s.filters = filters.clone()
		return nil
	})
}

// BeginLoad moves Idle, Loaded or Error to Loading
func (s *Store[T]) BeginLoad() error {
	return s.update(func() error {
		switch s.status {
		case StatusIdle, StatusLoaded, StatusError:
			s.status = StatusLoading
			return nil
		}
		return s.invalid("begin load")
	})
}

// Loaded finishes a load with items
func (s *Store[T]) Loaded(items []T) error {
	return s.update(func() error {
		if s.status != StatusLoading {
			return s.invalid("loaded")
		}
		s.items = append([]T(nil), items...)
		s.status = StatusLoaded
		s.err = nil
		return nil
	})
}

// Sync replaces items with a state pushed by a subscription. A pending load
// or an earlier failure is resolved to Loaded; a mutation in flight stays
// in flight.
func (s *Store[T]) Sync(items []T) error {
	return s.update(func() error {
		if s.status == StatusIdle {
			return s.invalid("sync")
		}
		s.items = append([]T(nil), items...)
		if s.status == StatusLoading || s.status == StatusError {
			s.status = StatusLoaded
			s.err = nil
		}
		return nil
	})
}

// Fail ends a load or mutation with err and shows it on the banner. A nil
// err ends a mutation successfully.
func (s *Store[T]) Fail(err error) error {
	if err == nil {
		return s.EndMutation(nil)
	}
	if err := s.update(func() error {
		switch s.status {
		case StatusLoading, StatusMutating, StatusLoaded:
			s.status = StatusError
			s.err = err
			return nil
		}
		return s.invalid("fail")
	}); err != nil {
		return err
	}
	s.banner.Show(err.Error())
	return nil
}

// BeginMutation moves Loaded to Mutating
func (s *Store[T]) BeginMutation() error {
	return s.update(func() error {
		if s.status != StatusLoaded {
			return s.invalid("begin mutation")
		}
		s.status = StatusMutating
		return nil
	})
}

// Patch rewrites items while a mutation is in flight
func (s *Store[T]) Patch(fn func(items []T) []T) error {
	return s.update(func() error {
		if s.status != StatusMutating {
			return s.invalid("patch")
		}
		s.items = fn(append([]T(nil), s.items...))
		return nil
	})
}

// EndMutation moves Mutating to Loaded, or to Error when err is set
func (s *Store[T]) EndMutation(err error) error {
	if err != nil {
		return s.Fail(err)
	}
	return s.update(func() error {
		if s.status != StatusMutating {
			return s.invalid("end mutation")
		}
		s.status = StatusLoaded
		return nil
	})
}

// Watch streams state copies until ctx ends or the store closes. A slow
// reader only sees the newest state.
func (s *Store[T]) Watch(ctx context.Context) (<-chan State[T], error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	ch := make(chan State[T], 1)
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}()

	return ch, nil
}

// Close discards all state and ends every watch
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.items = nil
	s.filtered = nil
	s.status = StatusIdle
	s.err = nil
	s.banner.Clear()
	for id, w := range s.watchers {
		delete(s.watchers, id)
		close(w)
	}
}

func (s *Store[T]) update(fn func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.filtered = Apply(s.items, s.filters, s.spec)
	s.version++
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

func (s *Store[T]) invalid(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, s.status)
}

// broadcast is called by the banner when its message changes
func (s *Store[T]) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.version++
	s.publishLocked()
}

func (s *Store[T]) publishLocked() {
	if len(s.watchers) == 0 {
		return
	}
	state := s.snapshotLocked()
	for _, w := range s.watchers {
		select {
		case w <- state:
			continue
		default:
		}
		select {
		case <-w:
		default:
		}
		select {
		case w <- state:
		default:
		}
	}
}
