package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// source binds one entity to its repository reads, view spec and delete flow
type source[T any] struct {
	name   string
	spec   viewstate.Spec[T]
	id     func(T) string
	list   func(ctx context.Context) ([]T, error)
	watch  func(ctx context.Context) (<-chan repositories.Snapshot[T], error)
	remove func(ctx context.Context, actor Actor, id string) error
}

// page is a live list page; the interface hides the record type
type page interface {
	setFilters(filters viewstate.Filters) error
	remove(ctx context.Context, actor Actor, id string) error
	stream(ctx context.Context, pageID string) (<-chan ViewResult, error)
	idleSince() (time.Time, bool)
	close()
}

type ViewServiceConfig struct {
	BannerTTL   time.Duration
	PageIdleTTL time.Duration
}

// viewService keeps live pages in a registry. A page nobody streams for
// PageIdleTTL is closed by the janitor.
type viewService struct {
	logger  *slog.Logger
	config  ViewServiceConfig
	sources map[string]func() (page, error)
	query   map[string]func(ctx context.Context, filters viewstate.Filters) (any, error)

	mu    sync.Mutex
	pages map[string]page

	stop chan struct{}
	once sync.Once
}

func NewViewService(
	repo repositories.Repository,
	users UserService,
	videos VideoService,
	challenges ChallengeService,
	events EventService,
	logger *slog.Logger,
	config ViewServiceConfig,
) ViewService {
	if config.BannerTTL <= 0 {
		config.BannerTTL = 5 * time.Second
	}
	if config.PageIdleTTL <= 0 {
		config.PageIdleTTL = 10 * time.Minute
	}

	s := &viewService{
		logger: logger,
		config: config,
		pages:  make(map[string]page),
		stop:   make(chan struct{}),
	}

	userSource := source[models.User]{
		name: EntityUsers,
		spec: userSpec,
		id:   func(u models.User) string { return u.ID },
		list: func(ctx context.Context) ([]models.User, error) {
			return repo.User().List(ctx, repositories.UserFilters{})
		},
		watch: func(ctx context.Context) (<-chan repositories.Snapshot[models.User], error) {
			return repo.User().Watch(ctx, repositories.UserFilters{})
		},
		remove: users.Delete,
	}
	videoSource := source[models.Video]{
		name: EntityVideos,
		spec: videoSpec,
		id:   func(v models.Video) string { return v.ID },
		list: func(ctx context.Context) ([]models.Video, error) {
			return repo.Video().List(ctx, repositories.VideoFilters{})
		},
		watch: func(ctx context.Context) (<-chan repositories.Snapshot[models.Video], error) {
			return repo.Video().Watch(ctx, repositories.VideoFilters{})
		},
		remove: videos.Delete,
	}
	challengeSource := source[models.Challenge]{
		name: EntityChallenges,
		spec: challengeSpec,
		id:   func(c models.Challenge) string { return c.ID },
		list: func(ctx context.Context) ([]models.Challenge, error) {
			return repo.Challenge().List(ctx, repositories.ChallengeFilters{})
		},
		watch: func(ctx context.Context) (<-chan repositories.Snapshot[models.Challenge], error) {
			return repo.Challenge().Watch(ctx, repositories.ChallengeFilters{})
		},
		remove: challenges.Delete,
	}
	eventSource := source[models.Event]{
		name: EntityEvents,
		spec: eventSpec,
		id:   func(e models.Event) string { return e.ID },
		list: func(ctx context.Context) ([]models.Event, error) {
			return repo.Event().List(ctx, repositories.EventFilters{})
		},
		watch: func(ctx context.Context) (<-chan repositories.Snapshot[models.Event], error) {
			return repo.Event().Watch(ctx, repositories.EventFilters{})
		},
		remove: events.Delete,
	}

	s.sources = map[string]func() (page, error){
		EntityUsers:      func() (page, error) { return openPage(userSource, config.BannerTTL, logger) },
		EntityVideos:     func() (page, error) { return openPage(videoSource, config.BannerTTL, logger) },
		EntityChallenges: func() (page, error) { return openPage(challengeSource, config.BannerTTL, logger) },
		EntityEvents:     func() (page, error) { return openPage(eventSource, config.BannerTTL, logger) },
	}
	s.query = map[string]func(ctx context.Context, filters viewstate.Filters) (any, error){
		EntityUsers: func(ctx context.Context, f viewstate.Filters) (any, error) {
			return queryOnce(ctx, userSource, f, config.BannerTTL)
		},
		EntityVideos: func(ctx context.Context, f viewstate.Filters) (any, error) {
			return queryOnce(ctx, videoSource, f, config.BannerTTL)
		},
		EntityChallenges: func(ctx context.Context, f viewstate.Filters) (any, error) {
			return queryOnce(ctx, challengeSource, f, config.BannerTTL)
		},
		EntityEvents: func(ctx context.Context, f viewstate.Filters) (any, error) {
			return queryOnce(ctx, eventSource, f, config.BannerTTL)
		},
	}

	go s.janitor()
	return s
}

// ===== ONE-SHOT QUERIES =====

func (s *viewService) Query(ctx context.Context, entity string, filters viewstate.Filters) (*ViewResult, error) {
	run, ok := s.query[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	state, err := run(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &ViewResult{Entity: entity, State: state}, nil
}

func queryOnce[T any](ctx context.Context, src source[T], filters viewstate.Filters, bannerTTL time.Duration) (viewstate.State[T], error) {
	state := viewstate.NewStore(src.spec, bannerTTL)
	defer state.Close()

	if err := state.SetFilters(filters); err != nil {
		return viewstate.State[T]{}, err
	}
	if err := state.BeginLoad(); err != nil {
		return viewstate.State[T]{}, err
	}
	items, err := src.list(ctx)
	if err != nil {
		_ = state.Fail(err)
		return viewstate.State[T]{}, fmt.Errorf("failed to load %s: %w", src.name, err)
	}
	if err := state.Loaded(items); err != nil {
		return viewstate.State[T]{}, err
	}
	return state.Snapshot(), nil
}

// ===== LIVE PAGES =====

func (s *viewService) Open(ctx context.Context, entity string, filters viewstate.Filters) (string, <-chan ViewResult, error) {
	open, ok := s.sources[entity]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	p, err := open()
	if err != nil {
		return "", nil, err
	}
	if err := p.setFilters(filters); err != nil {
		p.close()
		return "", nil, err
	}

	pageID := uuid.NewString()
	results, err := p.stream(ctx, pageID)
	if err != nil {
		p.close()
		return "", nil, err
	}

	s.mu.Lock()
	s.pages[pageID] = p
	s.mu.Unlock()

	s.logger.Info("View page opened", "page_id", pageID, "entity", entity)
	return pageID, results, nil
}

func (s *viewService) SetFilters(pageID string, filters viewstate.Filters) error {
	p, err := s.page(pageID)
	if err != nil {
		return err
	}
	return p.setFilters(filters)
}

func (s *viewService) Remove(ctx context.Context, actor Actor, pageID, recordID string) error {
	p, err := s.page(pageID)
	if err != nil {
		return err
	}
	return p.remove(ctx, actor, recordID)
}

func (s *viewService) Close(pageID string) error {
	s.mu.Lock()
	p, ok := s.pages[pageID]
	delete(s.pages, pageID)
	s.mu.Unlock()
	if !ok {
		return ErrPageNotFound
	}
	p.close()
	s.logger.Info("View page closed", "page_id", pageID)
	return nil
}

// Shutdown stops the janitor and closes every page
func (s *viewService) Shutdown() {
	s.once.Do(func() { close(s.stop) })

	s.mu.Lock()
	pages := s.pages
	s.pages = make(map[string]page)
	s.mu.Unlock()

	for _, p := range pages {
		p.close()
	}
}

func (s *viewService) page(pageID string) (page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	}
	return p, nil
}

func (s *viewService) janitor() {
	interval := s.config.PageIdleTTL / 2
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.expire(now)
		}
	}
}

func (s *viewService) expire(now time.Time) {
	s.mu.Lock()
	var idle []page
	for id, p := range s.pages {
		since, ok := p.idleSince()
		if ok && now.Sub(since) >= s.config.PageIdleTTL {
			idle = append(idle, p)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, p := range idle {
		p.close()
	}
	if len(idle) > 0 {
		s.logger.Info("Closed idle view pages", "count", len(idle))
	}
}

// livePage feeds a view state store from a subscription and runs deletes
// through a dispatcher
type livePage[T any] struct {
	src      source[T]
	state    *viewstate.Store[T]
	dispatch *dispatcher.Dispatcher[T]
	logger   *slog.Logger
	cancel   context.CancelFunc

	streams  atomic.Int32
	lastSeen atomic.Int64
}

func openPage[T any](src source[T], bannerTTL time.Duration, logger *slog.Logger) (page, error) {
	state := viewstate.NewStore(src.spec, bannerTTL)
	if err := state.BeginLoad(); err != nil {
		state.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	snapshots, err := src.watch(ctx)
	if err != nil {
		cancel()
		state.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", src.name, err)
	}

	p := &livePage[T]{
		src:      src,
		state:    state,
		dispatch: dispatcher.New(state, src.id, logger),
		logger:   logger,
		cancel:   cancel,
	}
	p.touch()

	go p.sync(snapshots)
	return p, nil
}

// sync applies every pushed snapshot to the store until the subscription ends
func (p *livePage[T]) sync(snapshots <-chan repositories.Snapshot[T]) {
	for snap := range snapshots {
		var err error
		if snap.Err != nil {
			err = p.state.Fail(snap.Err)
		} else {
			err = p.state.Sync(snap.Items)
		}
		if err != nil && !errors.Is(err, viewstate.ErrClosed) {
			p.logger.Warn("Failed to apply snapshot", "entity", p.src.name, "error", err)
		}
	}
}

func (p *livePage[T]) setFilters(filters viewstate.Filters) error {
	p.touch()
	return p.state.SetFilters(filters)
}

// remove deletes optimistically. A page left in error by an earlier failure
// is re-armed from its current items first.
func (p *livePage[T]) remove(ctx context.Context, actor Actor, id string) error {
	p.touch()
	if p.state.Status() == viewstate.StatusError {
		if err := p.state.BeginLoad(); err != nil {
			return err
		}
		if err := p.state.Loaded(p.state.Items()); err != nil {
			return err
		}
	}
	return p.dispatch.Remove(ctx, id, func(ctx context.Context) error {
		return p.src.remove(ctx, actor, id)
	})
}

func (p *livePage[T]) stream(ctx context.Context, pageID string) (<-chan ViewResult, error) {
	states, err := p.state.Watch(ctx)
	if err != nil {
		return nil, err
	}
	p.streams.Add(1)
	p.touch()

	out := make(chan ViewResult, 1)
	go func() {
		defer close(out)
		defer func() {
			p.streams.Add(-1)
			p.touch()
		}()
		for state := range states {
			select {
			case out <- ViewResult{PageID: pageID, Entity: p.src.name, State: state}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// idleSince reports when the page was last used, or false while streamed
func (p *livePage[T]) idleSince() (time.Time, bool) {
	if p.streams.Load() > 0 {
		return time.Time{}, false
	}
	return time.Unix(0, p.lastSeen.Load()), true
}

func (p *livePage[T]) touch() {
	p.lastSeen.Store(time.Now().UnixNano())
}

func (p *livePage[T]) close() {
	p.cancel()
	p.state.Close()
}
