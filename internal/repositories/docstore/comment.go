package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// oldest first, the order a thread is read in
var byCreatedAt = store.Query{}.Order(mapper.FieldCreatedAt, false)

type CommentRepository struct {
	store    store.DocumentStore
	comments collection[models.Comment]
	replies  collection[models.Reply]
}

func NewCommentRepository(s store.DocumentStore, logger *slog.Logger) *CommentRepository {
	return &CommentRepository{
		store:    s,
		comments: newCollection(s, logger, "comment", mapper.ToComment),
		replies:  newCollection(s, logger, "reply", mapper.ToReply),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	id, err := r.store.Create(ctx, repositories.CommentsPath(comment.VideoID), mapper.FromComment(*comment))
	if err != nil {
		return fmt.Errorf("failed to create comment on video %s: %w", comment.VideoID, err)
	}
	comment.ID = id
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, videoID, commentID string) (*models.Comment, error) {
	return r.comments.get(ctx, repositories.CommentsPath(videoID), commentID)
}

func (r *CommentRepository) List(ctx context.Context, videoID string) ([]models.Comment, error) {
	return r.comments.list(ctx, repositories.CommentsPath(videoID), byCreatedAt)
}

func (r *CommentRepository) Delete(ctx context.Context, videoID, commentID string) error {
	if err := r.store.Delete(ctx, repositories.CommentsPath(videoID), commentID); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}
	return nil
}

func (r *CommentRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	path := repositories.RepliesPath(reply.VideoID, reply.CommentID)
	id, err := r.store.Create(ctx, path, mapper.FromReply(*reply))
	if err != nil {
		return fmt.Errorf("failed to create reply on comment %s: %w", reply.CommentID, err)
	}
	reply.ID = id
	return nil
}

func (r *CommentRepository) ListReplies(ctx context.Context, videoID, commentID string) ([]models.Reply, error) {
	return r.replies.list(ctx, repositories.RepliesPath(videoID, commentID), byCreatedAt)
}

func (r *CommentRepository) DeleteReply(ctx context.Context, videoID, commentID, replyID string) error {
	if err := r.store.Delete(ctx, repositories.RepliesPath(videoID, commentID), replyID); err != nil {
		return fmt.Errorf("failed to delete reply %s: %w", replyID, err)
	}
	return nil
}

type ReportRepository struct {
	store   store.DocumentStore
	reports collection[models.Report]
}

func NewReportRepository(s store.DocumentStore, logger *slog.Logger) *ReportRepository {
	return &ReportRepository{
		store:   s,
		reports: newCollection(s, logger, "report", mapper.ToReport),
	}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	id, err := r.store.Create(ctx, repositories.ReportsPath(report.VideoID), mapper.FromReport(*report))
	if err != nil {
		return fmt.Errorf("failed to report video %s: %w", report.VideoID, err)
	}
	report.ID = id
	return nil
}

func (r *ReportRepository) List(ctx context.Context, videoID string) ([]models.Report, error) {
	return r.reports.list(ctx, repositories.ReportsPath(videoID), byCreatedAt)
}

func (r *ReportRepository) Delete(ctx context.Context, videoID, reportID string) error {
	if err := r.store.Delete(ctx, repositories.ReportsPath(videoID), reportID); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	return nil
}
