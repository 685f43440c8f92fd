package repositories

import "context"

// Repository groups the per-entity repositories
type Repository interface {
	User() UserRepository
	Identity() IdentityDirectory
	Preference() PreferenceRepository

	Video() VideoRepository
	Comment() CommentRepository
	Report() ReportRepository

	Challenge() ChallengeRepository
	Event() EventRepository
	Category() CategoryRepository
	Roadmap() RoadmapRepository

	Dashboard() DashboardRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with store connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
