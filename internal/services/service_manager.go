package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/cache"
	"github.com/SAP-F-2025/learnhub-service/internal/config"
	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// CascadeDeletes removes comments, replies and reports with their parent
	CascadeDeletes bool

	// View pages
	BannerTTL   time.Duration
	PageIdleTTL time.Duration

	DefaultTimeout time.Duration
}

// ConfigFromApp derives the service configuration from the application config
func ConfigFromApp(cfg *config.Config) ServiceManagerConfig {
	return ServiceManagerConfig{
		CascadeDeletes: cfg.CascadeDeletes,
		BannerTTL:      cfg.BannerTTL,
		PageIdleTTL:    cfg.PageIdleTTL,
		DefaultTimeout: 30 * time.Second,
	}
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repos     repositories.RepositoryManager
	cache     *cache.CacheManager
	ai        ai.Completer
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	userService      UserService
	videoService     VideoService
	commentService   CommentService
	challengeService ChallengeService
	eventService     EventService
	categoryService  CategoryService
	roadmapService   RoadmapService
	assistService    LearningAssistService
	dashboardService DashboardService
	exportService    ExportService
	viewService      ViewService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies.
// The repository manager must already be initialized; completer may be nil.
func NewServiceManager(
	repos repositories.RepositoryManager,
	cm *cache.CacheManager,
	completer ai.Completer,
	logger *slog.Logger,
	validator *validator.Validator,
	config ServiceManagerConfig,
) ServiceManager {
	if cm == nil {
		cm = cache.NewCacheManager(nil)
	}
	return &serviceManager{
		repos:     repos,
		cache:     cm,
		ai:        completer,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return errors.New("service manager is shut down")
	}
	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	repo := sm.repos.GetRepository()
	if repo == nil {
		return errors.New("repository manager not initialized")
	}

	// one guard for every toggle so a user's clicks on a record never overlap
	guard := dispatcher.NewGuard()

	sm.userService = NewUserService(repo, sm.logger, sm.validator)
	sm.videoService = NewVideoService(repo, sm.logger, sm.validator, guard, sm.config.CascadeDeletes)
	sm.commentService = NewCommentService(repo, sm.logger, sm.validator, sm.config.CascadeDeletes)
	sm.challengeService = NewChallengeService(repo, sm.logger, sm.validator)
	sm.eventService = NewEventService(repo, sm.logger, sm.validator)
	sm.categoryService = NewCategoryService(repo, sm.logger, sm.validator)
	sm.roadmapService = NewRoadmapService(repo, sm.ai, sm.logger, sm.validator)
	sm.assistService = NewLearningAssistService(sm.ai, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(repo, sm.cache.Stats, sm.logger)
	sm.exportService = NewExportService(repo, sm.logger)
	sm.viewService = NewViewService(repo, sm.userService, sm.videoService, sm.challengeService, sm.eventService, sm.logger,
		ViewServiceConfig{BannerTTL: sm.config.BannerTTL, PageIdleTTL: sm.config.PageIdleTTL})

	if err := sm.repos.HealthCheck(ctx); err != nil {
		sm.viewService.Shutdown()
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully", "cascade_deletes", sm.config.CascadeDeletes)
	return nil
}

// Service getters
func (sm *serviceManager) User() UserService {
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Video() VideoService {
	sm.mustBeInitialized()
	return sm.videoService
}

func (sm *serviceManager) Comment() CommentService {
	sm.mustBeInitialized()
	return sm.commentService
}

func (sm *serviceManager) Challenge() ChallengeService {
	sm.mustBeInitialized()
	return sm.challengeService
}

func (sm *serviceManager) Event() EventService {
	sm.mustBeInitialized()
	return sm.eventService
}

func (sm *serviceManager) Category() CategoryService {
	sm.mustBeInitialized()
	return sm.categoryService
}

func (sm *serviceManager) Roadmap() RoadmapService {
	sm.mustBeInitialized()
	return sm.roadmapService
}

func (sm *serviceManager) Assist() LearningAssistService {
	sm.mustBeInitialized()
	return sm.assistService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) View() ViewService {
	sm.mustBeInitialized()
	return sm.viewService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repos.HealthCheck(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	// Cache is optional; report but do not fail
	if err := sm.cache.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		sm.logger.Warn("Cache health check failed", "error", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.viewService != nil {
		sm.viewService.Shutdown()
	}
	if err := sm.repos.Shutdown(ctx); err != nil {
		sm.logger.Error("Failed to shutdown repository manager", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")
	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
