package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learnhub-service/internal/events"
)

// Notifier turns change events into wake-ups for live queries. Every store
// instance subscribes to the feed once and fans out in process; a listener
// that has not consumed its previous wake-up is not signalled twice.
type Notifier struct {
	feed   events.Feed
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[string]*listener
	closed    bool

	cancel context.CancelFunc
	done   chan struct{}
}

type listener struct {
	collection string
	docID      string
	wake       chan struct{}
}

// NewNotifier subscribes to feed. A nil feed keeps notifications in process.
func NewNotifier(feed events.Feed, logger *slog.Logger) (*Notifier, error) {
	h := &Notifier{
		feed:      feed,
		logger:    logger,
		listeners: make(map[string]*listener),
		done:      make(chan struct{}),
	}

	if feed == nil {
		close(h.done)
		return h, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	changes, err := feed.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	go func() {
		defer close(h.done)
		for event := range changes {
			h.dispatch(event)
		}
	}()

	return h, nil
}

// Publish announces a committed write. Without a feed listeners are woken directly.
func (h *Notifier) Publish(ctx context.Context, collection, docID string, kind events.ChangeKind) {
	event := events.NewChangeEvent(collection, docID, kind)
	if h.feed == nil {
		h.dispatch(event)
		return
	}
	if err := h.feed.Publish(ctx, event); err != nil {
		// the write itself succeeded; listeners catch up on the next change
		h.logger.Error("Failed to publish change event",
			"collection", collection,
			"doc_id", docID,
			"error", err)
	}
}

func (h *Notifier) dispatch(event events.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, l := range h.listeners {
		if l.collection != event.Collection {
			continue
		}
		if l.docID != "" && l.docID != event.DocID {
			continue
		}
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
}

func (h *Notifier) register(collection, docID string) (string, <-chan struct{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return "", nil, ErrUnavailable
	}

	id := uuid.New().String()
	l := &listener{
		collection: collection,
		docID:      docID,
		wake:       make(chan struct{}, 1),
	}
	h.listeners[id] = l
	return id, l.wake, nil
}

func (h *Notifier) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
}

// Close stops the feed subscription. Live queries end with their contexts.
func (h *Notifier) Close() {
	h.mu.Lock()
	h.closed = true
	h.listeners = make(map[string]*listener)
	h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
	<-h.done
}

// Watch emits an initial snapshot from read, then a fresh one after every
// matching change. Only the newest snapshot is kept for a slow consumer.
// The returned channel closes when ctx ends.
func (h *Notifier) Watch(ctx context.Context, collection, docID string, read func(context.Context) ([]Document, error)) (<-chan Snapshot, error) {
	id, wake, err := h.register(collection, docID)
	if err != nil {
		return nil, err
	}

	out := make(chan Snapshot, 1)

	emit := func() {
		docs, err := read(ctx)
		if ctx.Err() != nil {
			return
		}
		snapshot := Snapshot{
			Collection: collection,
			DocID:      docID,
			Docs:       docs,
			ReadTime:   time.Now().UTC(),
			Err:        err,
		}
		for {
			select {
			case out <- snapshot:
				return
			default:
			}
			// replace the undelivered snapshot with the newer one
			select {
			case <-out:
			default:
			}
		}
	}

	go func() {
		defer close(out)
		defer h.unregister(id)

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				emit()
			}
		}
	}()

	return out, nil
}
