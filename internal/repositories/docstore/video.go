package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// errUnchanged aborts a transform that would not change the document
var errUnchanged = errors.New("document unchanged")

type VideoRepository struct {
	store  store.DocumentStore
	videos collection[models.Video]
}

func NewVideoRepository(s store.DocumentStore, logger *slog.Logger) *VideoRepository {
	return &VideoRepository{
		store:  s,
		videos: newCollection(s, logger, "video", mapper.ToVideo),
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	data := mapper.FromVideo(*video)
	if video.ID != "" {
		if err := r.store.Set(ctx, repositories.CollectionVideos, video.ID, data); err != nil {
			return fmt.Errorf("failed to create video %s: %w", video.ID, err)
		}
		return nil
	}
	id, err := r.store.Create(ctx, repositories.CollectionVideos, data)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	video.ID = id
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	return r.videos.get(ctx, repositories.CollectionVideos, id)
}

func (r *VideoRepository) List(ctx context.Context, filters repositories.VideoFilters) ([]models.Video, error) {
	return r.videos.list(ctx, repositories.CollectionVideos, videoQuery(filters))
}

func (r *VideoRepository) Update(ctx context.Context, id string, update repositories.VideoUpdate) error {
	p := patch{}
	p.setString(mapper.FieldTitle, update.Title)
	p.setString(mapper.FieldDescription, update.Description)
	p.setString(mapper.FieldCategoryID, update.CategoryID)
	p.setString(mapper.FieldSubcategoryID, update.SubcategoryID)
	p.setString(mapper.FieldThumbnailURL, update.ThumbnailURL)
	if len(p) == 0 {
		return nil
	}
	if err := r.store.Update(ctx, repositories.CollectionVideos, id, store.Patch(p)); err != nil {
		return fmt.Errorf("failed to update video %s: %w", id, err)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, repositories.CollectionVideos, id); err != nil {
		return fmt.Errorf("failed to delete video %s: %w", id, err)
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	return r.adjust(ctx, id, mapper.FieldViews, 1)
}

func (r *VideoRepository) AdjustComments(ctx context.Context, id string, delta int64) error {
	return r.adjust(ctx, id, mapper.FieldCommentsCount, delta)
}

func (r *VideoRepository) AdjustReports(ctx context.Context, id string, delta int64) error {
	return r.adjust(ctx, id, mapper.FieldReportsCount, delta)
}

func (r *VideoRepository) adjust(ctx context.Context, id, field string, delta int64) error {
	if err := r.store.Update(ctx, repositories.CollectionVideos, id, store.Patch{field: store.Increment(delta)}); err != nil {
		return fmt.Errorf("failed to update %s of video %s: %w", field, id, err)
	}
	return nil
}

// SetLike moves userID in or out of liked_by and the like counter with it,
// both in the same write
func (r *VideoRepository) SetLike(ctx context.Context, id, userID string, liked bool) (*models.Video, error) {
	return r.setMembership(ctx, id, userID, liked, mapper.FieldLikedBy, mapper.FieldLikeCount)
}

func (r *VideoRepository) SetBookmark(ctx context.Context, id, userID string, bookmarked bool) (*models.Video, error) {
	return r.setMembership(ctx, id, userID, bookmarked, mapper.FieldBookmarkedBy, "")
}

func (r *VideoRepository) setMembership(ctx context.Context, id, userID string, member bool, setField, countField string) (*models.Video, error) {
	doc, err := r.store.Transform(ctx, repositories.CollectionVideos, id, func(current store.Data) (store.Data, error) {
		video, err := mapper.ToVideo(store.Document{ID: id, Data: current})
		if err != nil {
			return nil, err
		}
		members := video.BookmarkedBy
		if setField == mapper.FieldLikedBy {
			members = video.LikedBy
		}
		if slices.Contains(members, userID) == member {
			return nil, errUnchanged
		}

		p := store.Patch{setField: store.ArrayRemove(userID)}
		delta := int64(-1)
		if member {
			p[setField] = store.ArrayUnion(userID)
			delta = 1
		}
		if countField != "" {
			p[countField] = store.Increment(delta)
		}
		return store.ApplyPatch(current, p, time.Now().UTC()), nil
	})
	if errors.Is(err, errUnchanged) {
		return r.GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s of video %s: %w", setField, id, err)
	}
	return r.mapOne(doc)
}

// Rate replaces userID's rating, or adds it, and stores the new average
func (r *VideoRepository) Rate(ctx context.Context, id, userID string, score float64) (*models.Video, error) {
	doc, err := r.store.Transform(ctx, repositories.CollectionVideos, id, func(current store.Data) (store.Data, error) {
		ratings := mapper.UpsertRating(mapper.ToRatings(current[mapper.FieldRatings]), userID, score)
		current[mapper.FieldRatings] = mapper.FromRatings(ratings)
		current[mapper.FieldAverageRating] = mapper.AverageRating(ratings)
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rate video %s: %w", id, err)
	}
	return r.mapOne(doc)
}

func (r *VideoRepository) Watch(ctx context.Context, filters repositories.VideoFilters) (<-chan repositories.Snapshot[models.Video], error) {
	return r.videos.watch(ctx, repositories.CollectionVideos, videoQuery(filters))
}

func (r *VideoRepository) WatchByID(ctx context.Context, id string) (<-chan repositories.Snapshot[models.Video], error) {
	return r.videos.watchDoc(ctx, repositories.CollectionVideos, id)
}

func (r *VideoRepository) mapOne(doc *store.Document) (*models.Video, error) {
	video, err := mapper.ToVideo(*doc)
	if err != nil {
		return nil, fmt.Errorf("failed to map video %s: %w", doc.ID, err)
	}
	return &video, nil
}

func videoQuery(filters repositories.VideoFilters) store.Query {
	var q store.Query
	if filters.UploaderID != "" {
		q = q.And(mapper.FieldUploaderID, filters.UploaderID)
	}
	if filters.CategoryID != "" {
		q = q.And(mapper.FieldCategoryID, filters.CategoryID)
	}
	return listQuery(q, filters.ListOptions)
}
