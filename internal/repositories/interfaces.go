package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// ===== SHARED LIST TYPES =====

// ListOptions orders and limits a list; zero values mean store order, no limit
type ListOptions struct {
	OrderBy string `json:"order_by"`
	Desc    bool   `json:"desc"`
	Limit   int    `json:"limit"`
}

// Snapshot is one pushed state of a live list. Skipped counts documents
// that could not be mapped.
type Snapshot[T any] struct {
	Items    []T
	Skipped  int
	ReadTime time.Time
	Err      error
}

// ===== VIDEO DOMAIN =====

type VideoFilters struct {
	UploaderID string
	CategoryID string
	ListOptions
}

type VideoUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CategoryID    *string `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	ThumbnailURL  *string `json:"thumbnail_url"`
}

type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, filters VideoFilters) ([]models.Video, error)
	Update(ctx context.Context, id string, update VideoUpdate) error
	Delete(ctx context.Context, id string) error

	// Engagement; each call is a single atomic write
	IncrementViews(ctx context.Context, id string) error
	// SetLike and SetBookmark only write when membership changes, so
	// repeating a call never counts twice
	SetLike(ctx context.Context, id, userID string, liked bool) (*models.Video, error)
	SetBookmark(ctx context.Context, id, userID string, bookmarked bool) (*models.Video, error)
	Rate(ctx context.Context, id, userID string, score float64) (*models.Video, error)
	AdjustComments(ctx context.Context, id string, delta int64) error
	AdjustReports(ctx context.Context, id string, delta int64) error

	Watch(ctx context.Context, filters VideoFilters) (<-chan Snapshot[models.Video], error)
	WatchByID(ctx context.Context, id string) (<-chan Snapshot[models.Video], error)
}

// ===== COMMENT DOMAIN =====

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, videoID, commentID string) (*models.Comment, error)
	List(ctx context.Context, videoID string) ([]models.Comment, error)
	Delete(ctx context.Context, videoID, commentID string) error

	CreateReply(ctx context.Context, reply *models.Reply) error
	ListReplies(ctx context.Context, videoID, commentID string) ([]models.Reply, error)
	DeleteReply(ctx context.Context, videoID, commentID, replyID string) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, videoID string) ([]models.Report, error)
	Delete(ctx context.Context, videoID, reportID string) error
}

// ===== CHALLENGE DOMAIN =====

type ChallengeFilters struct {
	UploaderID string
	CategoryID string
	ListOptions
}

type ChallengeUpdate struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	CategoryID    *string `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id"`
	Topic         *string `json:"topic"`
	ProblemURL    *string `json:"problem_url"`
	SolutionURL   *string `json:"solution_url"`
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	List(ctx context.Context, filters ChallengeFilters) ([]models.Challenge, error)
	Update(ctx context.Context, id string, update ChallengeUpdate) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, filters ChallengeFilters) (<-chan Snapshot[models.Challenge], error)
}

// ===== EVENT DOMAIN =====

type EventFilters struct {
	OwnerID string
	Mode    models.EventMode
	ListOptions
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filters EventFilters) ([]models.Event, error)
	// Replace overwrites the whole event so both dates change together
	Replace(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	Watch(ctx context.Context, filters EventFilters) (<-chan Snapshot[models.Event], error)
}

// ===== CATEGORY DOMAIN =====

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

// ===== ROADMAP DOMAIN =====

type RoadmapRepository interface {
	// FindByTitle returns the user's roadmap with title, or store.ErrNotFound
	FindByTitle(ctx context.Context, userID, title string) (*models.Roadmap, error)
	GetByID(ctx context.Context, id string) (*models.Roadmap, error)
	ListByUser(ctx context.Context, userID string) ([]models.Roadmap, error)
	// Save writes the parent document and replaces its steps
	Save(ctx context.Context, roadmap *models.Roadmap) error
	// ToggleStep flips one step without writing the parent
	ToggleStep(ctx context.Context, roadmapID, stepID string) (*models.RoadmapStep, error)
	Delete(ctx context.Context, id string) error
}

type PreferenceRepository interface {
	List(ctx context.Context, userID string) ([]models.Preference, error)
	Add(ctx context.Context, userID, categoryID string) error
	Remove(ctx context.Context, userID, categoryID string) error
}
