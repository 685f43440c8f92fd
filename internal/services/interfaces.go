package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

// ===== REQUEST DTOs =====

type CreateVideoRequest = validator.VideoCreateRequest
type UpdateVideoRequest = validator.VideoUpdateRequest
type RateVideoRequest = validator.RateRequest
type ReportVideoRequest = validator.ReportRequest
type CreateCommentRequest = validator.CommentCreateRequest
type CreateChallengeRequest = validator.ChallengeCreateRequest
type UpdateChallengeRequest = validator.ChallengeUpdateRequest
type EventRequest = validator.EventRequest
type CreateCategoryRequest = validator.CategoryCreateRequest
type UpdateProfileRequest = validator.ProfileUpdateRequest
type GenerateRoadmapRequest = validator.RoadmapGenerateRequest

// Actor is the signed-in user a call is made for
type Actor struct {
	ID    string
	Email string
	Role  models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanAuthor reports whether the actor may publish content
func (a Actor) CanAuthor() bool {
	return a.Role == models.RoleTeacher || a.Role == models.RoleAdmin
}

// Owns reports whether the actor owns ownerID's records or is an admin
func (a Actor) Owns(ownerID string) bool {
	return a.IsAdmin() || (a.ID != "" && a.ID == ownerID)
}

// ===== RESPONSE DTOs =====

type UserListResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// VideoResponse adds the caller's own engagement flags to a video
type VideoResponse struct {
	models.Video
	Liked      bool `json:"liked"`
	Bookmarked bool `json:"bookmarked"`
}

type CommentThread struct {
	models.Comment
	Replies []models.Reply `json:"replies"`
}

type KeyPointsResponse struct {
	Points []string `json:"points"`
}

// ViewResult is one computed state of a list page
type ViewResult struct {
	PageID string `json:"page_id,omitempty"`
	Entity string `json:"entity"`
	State  any    `json:"state"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]models.User, error)
	// Directory lists identities from the identity provider
	Directory(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, id string, req *UpdateProfileRequest) (*models.User, error)
	Delete(ctx context.Context, actor Actor, id string) error

	ListPreferences(ctx context.Context, userID string) ([]models.Preference, error)
	AddPreference(ctx context.Context, actor Actor, categoryID string) error
	RemovePreference(ctx context.Context, actor Actor, categoryID string) error
}

type VideoService interface {
	Create(ctx context.Context, actor Actor, req *CreateVideoRequest) (*models.Video, error)
	GetByID(ctx context.Context, id string, actor Actor) (*VideoResponse, error)
	List(ctx context.Context, filters repositories.VideoFilters) ([]models.Video, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateVideoRequest) (*models.Video, error)
	Delete(ctx context.Context, actor Actor, id string) error

	IncrementViews(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, actor Actor, id string) (*VideoResponse, error)
	ToggleBookmark(ctx context.Context, actor Actor, id string) (*VideoResponse, error)
	Rate(ctx context.Context, actor Actor, id string, req *RateVideoRequest) (*VideoResponse, error)
	Report(ctx context.Context, actor Actor, id string, req *ReportVideoRequest) (*models.Report, error)
	ListReports(ctx context.Context, actor Actor, id string) ([]models.Report, error)
}

type CommentService interface {
	Add(ctx context.Context, actor Actor, videoID string, req *CreateCommentRequest) (*models.Comment, error)
	List(ctx context.Context, videoID string) ([]CommentThread, error)
	Delete(ctx context.Context, actor Actor, videoID, commentID string) error
	AddReply(ctx context.Context, actor Actor, videoID, commentID string, req *CreateCommentRequest) (*models.Reply, error)
	ListReplies(ctx context.Context, videoID, commentID string) ([]models.Reply, error)
}

type ChallengeService interface {
	Create(ctx context.Context, actor Actor, req *CreateChallengeRequest) (*models.Challenge, error)
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	List(ctx context.Context, filters repositories.ChallengeFilters) ([]models.Challenge, error)
	Update(ctx context.Context, actor Actor, id string, req *UpdateChallengeRequest) (*models.Challenge, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type EventService interface {
	Create(ctx context.Context, actor Actor, req *EventRequest) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filters repositories.EventFilters) ([]models.Event, error)
	Update(ctx context.Context, actor Actor, id string, req *EventRequest) (*models.Event, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, actor Actor, req *CreateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type RoadmapService interface {
	Generate(ctx context.Context, actor Actor, req *GenerateRoadmapRequest) (*models.Roadmap, error)
	GetByID(ctx context.Context, actor Actor, id string) (*models.Roadmap, error)
	ListByUser(ctx context.Context, userID string) ([]models.Roadmap, error)
	ToggleStep(ctx context.Context, actor Actor, roadmapID, stepID string) (*models.RoadmapStep, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type LearningAssistService interface {
	Summarize(ctx context.Context, text string) (string, error)
	KeyPoints(ctx context.Context, text string) ([]string, error)
	// Stream summarizes text and reveals the summary progressively
	Stream(ctx context.Context, text string) (<-chan string, error)
}

type DashboardService interface {
	Admin(ctx context.Context) (*models.AdminStats, error)
	Teacher(ctx context.Context, teacherID string) (*models.TeacherStats, error)
	Learner(ctx context.Context, userID string) (*models.LearnerHome, error)
}

type ExportService interface {
	// Export writes entity ("users" or "videos") as an XLSX workbook
	Export(ctx context.Context, entity string, w io.Writer) error
}

type ViewService interface {
	// Query computes one filtered state of an entity list
	Query(ctx context.Context, entity string, filters viewstate.Filters) (*ViewResult, error)
	// Open starts a live page fed by a subscription. States stop when ctx ends.
	Open(ctx context.Context, entity string, filters viewstate.Filters) (string, <-chan ViewResult, error)
	SetFilters(pageID string, filters viewstate.Filters) error
	// Remove deletes a record through the page's dispatcher
	Remove(ctx context.Context, actor Actor, pageID, recordID string) error
	Close(pageID string) error
	Shutdown()
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	User() UserService
	Video() VideoService
	Comment() CommentService
	Challenge() ChallengeService
	Event() EventService
	Category() CategoryService
	Roadmap() RoadmapService
	Assist() LearningAssistService
	Dashboard() DashboardService
	Export() ExportService
	View() ViewService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
