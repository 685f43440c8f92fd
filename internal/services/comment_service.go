package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

// commentService adds and lists comments and replies. Comments are never edited.
type commentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cascade   bool
}

func NewCommentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cascade bool) CommentService {
	return &commentService{repo: repo, logger: logger, validator: validator, cascade: cascade}
}

func (s *commentService) Add(ctx context.Context, actor Actor, videoID string, req *CreateCommentRequest) (*models.Comment, error) {
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if _, err := s.repo.Video().GetByID(ctx, videoID); err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}

	comment := &models.Comment{
		VideoID:     videoID,
		Text:        req.Text,
		AuthorID:    actor.ID,
		AuthorEmail: actor.Email,
	}
	if err := s.repo.Comment().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	if err := s.repo.Video().AdjustComments(ctx, videoID, 1); err != nil {
		if delErr := s.repo.Comment().Delete(ctx, videoID, comment.ID); delErr != nil {
			s.logger.Error("Failed to remove uncounted comment", "video_id", videoID, "comment_id", comment.ID, "error", delErr)
		}
		return nil, notFound(err, ErrVideoNotFound)
	}

	s.logger.Info("Comment added", "video_id", videoID, "comment_id", comment.ID, "author_id", actor.ID)
	return s.reload(ctx, videoID, comment)
}

// List returns the comments of a video oldest first, each with its replies
func (s *commentService) List(ctx context.Context, videoID string) ([]CommentThread, error) {
	comments, err := s.repo.Comment().List(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	threads := make([]CommentThread, 0, len(comments))
	for _, comment := range comments {
		replies, err := s.repo.Comment().ListReplies(ctx, videoID, comment.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list replies: %w", err)
		}
		threads = append(threads, CommentThread{Comment: comment, Replies: replies})
	}
	return threads, nil
}

func (s *commentService) Delete(ctx context.Context, actor Actor, videoID, commentID string) error {
	comment, err := s.repo.Comment().GetByID(ctx, videoID, commentID)
	if err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	if !actor.Owns(comment.AuthorID) {
		return NewPermissionError(actor.ID, commentID, "comment", "delete", "not the author")
	}

	if s.cascade {
		if err := deleteReplies(ctx, s.repo.Comment(), videoID, commentID); err != nil {
			return err
		}
	}
	if err := s.repo.Comment().Delete(ctx, videoID, commentID); err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	if err := s.repo.Video().AdjustComments(ctx, videoID, -1); err != nil {
		s.logger.Warn("Failed to adjust comment counter", "video_id", videoID, "error", err)
	}
	return nil
}

func (s *commentService) AddReply(ctx context.Context, actor Actor, videoID, commentID string, req *CreateCommentRequest) (*models.Reply, error) {
	if errors := s.validator.Struct(req); len(errors) > 0 {
		return nil, errors
	}
	if _, err := s.repo.Comment().GetByID(ctx, videoID, commentID); err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}

	reply := &models.Reply{
		VideoID:     videoID,
		CommentID:   commentID,
		Text:        req.Text,
		AuthorID:    actor.ID,
		AuthorEmail: actor.Email,
	}
	if err := s.repo.Comment().CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.logger.Info("Reply added", "video_id", videoID, "comment_id", commentID, "reply_id", reply.ID)
	return reply, nil
}

func (s *commentService) ListReplies(ctx context.Context, videoID, commentID string) ([]models.Reply, error) {
	replies, err := s.repo.Comment().ListReplies(ctx, videoID, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// reload reads the stored comment back so CreatedAt carries the server time
func (s *commentService) reload(ctx context.Context, videoID string, comment *models.Comment) (*models.Comment, error) {
	stored, err := s.repo.Comment().GetByID(ctx, videoID, comment.ID)
	if err != nil {
		s.logger.Warn("Failed to reload comment", "comment_id", comment.ID, "error", err)
		return comment, nil
	}
	return stored, nil
}
