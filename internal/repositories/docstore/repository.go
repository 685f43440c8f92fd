// Package docstore implements the typed repositories over a document store.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// DocumentRepository implements the main Repository interface
type DocumentRepository struct {
	store store.DocumentStore

	user       repositories.UserRepository
	identity   repositories.IdentityDirectory
	preference repositories.PreferenceRepository
	video      repositories.VideoRepository
	comment    repositories.CommentRepository
	report     repositories.ReportRepository
	challenge  repositories.ChallengeRepository
	event      repositories.EventRepository
	category   repositories.CategoryRepository
	roadmap    repositories.RoadmapRepository
	dashboard  repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	Store    store.DocumentStore
	Identity repositories.IdentityDirectory // optional
	Logger   *slog.Logger
}

func NewDocumentRepository(config RepositoryConfig) repositories.Repository {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := config.Store

	return &DocumentRepository{
		store:      s,
		user:       NewUserRepository(s, logger),
		identity:   config.Identity,
		preference: NewPreferenceRepository(s, logger),
		video:      NewVideoRepository(s, logger),
		comment:    NewCommentRepository(s, logger),
		report:     NewReportRepository(s, logger),
		challenge:  NewChallengeRepository(s, logger),
		event:      NewEventRepository(s, logger),
		category:   NewCategoryRepository(s, logger),
		roadmap:    NewRoadmapRepository(s, logger),
		dashboard:  NewDashboardRepository(s, logger),
	}
}

func (r *DocumentRepository) User() repositories.UserRepository { return r.user }

// Identity is nil when no identity provider is configured
func (r *DocumentRepository) Identity() repositories.IdentityDirectory { return r.identity }

func (r *DocumentRepository) Preference() repositories.PreferenceRepository { return r.preference }

func (r *DocumentRepository) Video() repositories.VideoRepository { return r.video }

func (r *DocumentRepository) Comment() repositories.CommentRepository { return r.comment }

func (r *DocumentRepository) Report() repositories.ReportRepository { return r.report }

func (r *DocumentRepository) Challenge() repositories.ChallengeRepository { return r.challenge }

func (r *DocumentRepository) Event() repositories.EventRepository { return r.event }

func (r *DocumentRepository) Category() repositories.CategoryRepository { return r.category }

func (r *DocumentRepository) Roadmap() repositories.RoadmapRepository { return r.roadmap }

func (r *DocumentRepository) Dashboard() repositories.DashboardRepository { return r.dashboard }

// Ping checks the health of the document store
func (r *DocumentRepository) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("document store ping failed: %w", err)
	}
	return nil
}

// Close closes the document store
func (r *DocumentRepository) Close() error {
	if err := r.store.Close(); err != nil {
		return fmt.Errorf("failed to close document store: %w", err)
	}
	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize checks the store connection and builds the repositories
func (rm *RepositoryManager) Initialize() error {
	if rm.config.Store == nil {
		return fmt.Errorf("document store is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rm.config.Store.Ping(ctx); err != nil {
		return fmt.Errorf("document store connection failed: %w", err)
	}

	rm.repo = NewDocumentRepository(rm.config)
	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
