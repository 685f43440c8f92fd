package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

type videoService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	guard     *dispatcher.Guard
	cascade   bool
}

// NewVideoService creates the video service. With cascade set, deleting a
// video also deletes its comments, replies and reports.
func NewVideoService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, guard *dispatcher.Guard, cascade bool) VideoService {
	return &videoService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		guard:     guard,
		cascade:   cascade,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *videoService) Create(ctx context.Context, actor Actor, req *CreateVideoRequest) (*models.Video, error) {
	s.logger.Info("Creating video", "uploader_id", actor.ID, "title", req.Title)

	if !actor.CanAuthor() {
		return nil, NewPermissionError(actor.ID, "", "video", "create", "only teachers and admins publish videos")
	}
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if _, err := s.repo.Category().GetByID(ctx, req.CategoryID); err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}

	video := &models.Video{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		UploaderID:    actor.ID,
		VideoURL:      req.VideoURL,
		ThumbnailURL:  req.ThumbnailURL,
	}
	if err := s.repo.Video().Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.logger.Info("Video created successfully", "video_id", video.ID)
	return s.get(ctx, video.ID)
}

func (s *videoService) GetByID(ctx context.Context, id string, actor Actor) (*VideoResponse, error) {
	video, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return respond(video, actor), nil
}

func (s *videoService) List(ctx context.Context, filters repositories.VideoFilters) ([]models.Video, error) {
	if filters.OrderBy == "" {
		filters.OrderBy = "uploaded_at"
		filters.Desc = true
	}
	videos, err := s.repo.Video().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *videoService) Update(ctx context.Context, actor Actor, id string, req *UpdateVideoRequest) (*models.Video, error) {
	video, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if req.CategoryID != nil && *req.CategoryID != video.CategoryID {
		if _, err := s.repo.Category().GetByID(ctx, *req.CategoryID); err != nil {
			return nil, notFound(err, ErrCategoryNotFound)
		}
	}

	update := repositories.VideoUpdate{
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		ThumbnailURL:  req.ThumbnailURL,
	}
	if err := s.repo.Video().Update(ctx, id, update); err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}
	return s.get(ctx, id)
}

func (s *videoService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if s.cascade {
		if err := s.deleteChildren(ctx, id); err != nil {
			return err
		}
	}
	if err := s.repo.Video().Delete(ctx, id); err != nil {
		return notFound(err, ErrVideoNotFound)
	}

	s.logger.Info("Video deleted", "video_id", id, "actor_id", actor.ID, "cascade", s.cascade)
	return nil
}

func (s *videoService) deleteChildren(ctx context.Context, videoID string) error {
	comments, err := s.repo.Comment().List(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to list comments for cascade: %w", err)
	}
	for _, comment := range comments {
		if err := deleteReplies(ctx, s.repo.Comment(), videoID, comment.ID); err != nil {
			return err
		}
		if err := s.repo.Comment().Delete(ctx, videoID, comment.ID); err != nil {
			return fmt.Errorf("failed to delete comment %s: %w", comment.ID, err)
		}
	}

	reports, err := s.repo.Report().List(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to list reports for cascade: %w", err)
	}
	for _, report := range reports {
		if err := s.repo.Report().Delete(ctx, videoID, report.ID); err != nil {
			return fmt.Errorf("failed to delete report %s: %w", report.ID, err)
		}
	}
	return nil
}

// ===== ENGAGEMENT =====

func (s *videoService) IncrementViews(ctx context.Context, id string) error {
	if err := s.repo.Video().IncrementViews(ctx, id); err != nil {
		return notFound(err, ErrVideoNotFound)
	}
	return nil
}

// ToggleLike flips the caller's like. A second click while the first is
// being written is rejected with ErrBusy.
func (s *videoService) ToggleLike(ctx context.Context, actor Actor, id string) (*VideoResponse, error) {
	return s.toggle(ctx, actor, id, "like",
		func(v *models.Video) bool { return v.LikedByUser(actor.ID) },
		s.repo.Video().SetLike)
}

func (s *videoService) ToggleBookmark(ctx context.Context, actor Actor, id string) (*VideoResponse, error) {
	return s.toggle(ctx, actor, id, "bookmark",
		func(v *models.Video) bool { return v.BookmarkedByUser(actor.ID) },
		s.repo.Video().SetBookmark)
}

func (s *videoService) toggle(
	ctx context.Context,
	actor Actor,
	id, kind string,
	current func(*models.Video) bool,
	set func(ctx context.Context, id, userID string, on bool) (*models.Video, error),
) (*VideoResponse, error) {
	if actor.ID == "" {
		return nil, ErrUnauthorized
	}

	var updated *models.Video
	err := s.guard.Do(dispatcher.Key(kind, actor.ID, id), func() error {
		video, err := s.get(ctx, id)
		if err != nil {
			return err
		}
		updated, err = set(ctx, id, actor.ID, !current(video))
		if err != nil {
			return notFound(err, ErrVideoNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dispatcher.ErrBusy) {
			s.logger.Debug("Toggle ignored while busy", "kind", kind, "video_id", id, "user_id", actor.ID)
		}
		return nil, err
	}
	return respond(updated, actor), nil
}

func (s *videoService) Rate(ctx context.Context, actor Actor, id string, req *RateVideoRequest) (*VideoResponse, error) {
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}

	var updated *models.Video
	err := s.guard.Do(dispatcher.Key("rate", actor.ID, id), func() error {
		var err error
		updated, err = s.repo.Video().Rate(ctx, id, actor.ID, req.Rating)
		return notFound(err, ErrVideoNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Video rated", "video_id", id, "user_id", actor.ID, "average", updated.AverageRating)
	return respond(updated, actor), nil
}

// Report stores the report under the video and bumps its report counter.
// The report is removed again when the counter cannot be written.
func (s *videoService) Report(ctx context.Context, actor Actor, id string, req *ReportVideoRequest) (*models.Report, error) {
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	report := &models.Report{VideoID: id, ReporterID: actor.ID, Reason: req.Reason}
	if err := s.repo.Report().Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	if err := s.repo.Video().AdjustReports(ctx, id, 1); err != nil {
		if delErr := s.repo.Report().Delete(ctx, id, report.ID); delErr != nil {
			s.logger.Error("Failed to remove uncounted report", "video_id", id, "report_id", report.ID, "error", delErr)
		}
		return nil, notFound(err, ErrVideoNotFound)
	}

	s.logger.Warn("Video reported", "video_id", id, "reporter_id", actor.ID)
	return report, nil
}

func (s *videoService) ListReports(ctx context.Context, actor Actor, id string) ([]models.Report, error) {
	if _, err := s.owned(ctx, actor, id, "read reports of"); err != nil {
		return nil, err
	}
	reports, err := s.repo.Report().List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ===== HELPERS =====

func (s *videoService) get(ctx context.Context, id string) (*models.Video, error) {
	video, err := s.repo.Video().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}
	return video, nil
}

func (s *videoService) owned(ctx context.Context, actor Actor, id, action string) (*models.Video, error) {
	video, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(video.UploaderID) {
		return nil, NewPermissionError(actor.ID, id, "video", action, "not the uploader")
	}
	return video, nil
}

func respond(video *models.Video, actor Actor) *VideoResponse {
	return &VideoResponse{
		Video:      *video,
		Liked:      video.LikedByUser(actor.ID),
		Bookmarked: video.BookmarkedByUser(actor.ID),
	}
}

func deleteReplies(ctx context.Context, comments repositories.CommentRepository, videoID, commentID string) error {
	replies, err := comments.ListReplies(ctx, videoID, commentID)
	if err != nil {
		return fmt.Errorf("failed to list replies of comment %s: %w", commentID, err)
	}
	for _, reply := range replies {
		if err := comments.DeleteReply(ctx, videoID, commentID, reply.ID); err != nil {
			return fmt.Errorf("failed to delete reply %s: %w", reply.ID, err)
		}
	}
	return nil
}
