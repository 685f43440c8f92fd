package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

func TestVideoCreate(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	svc := newVideoService(repo, false)

	valid := CreateVideoRequest{Title: "Channels", CategoryID: category.ID, VideoURL: "https://videos.learnhub.dev/ch"}

	tests := []struct {
		name    string
		actor   Actor
		mutate  func(r *CreateVideoRequest)
		wantErr error
		invalid bool
	}{
		{name: "teacher publishes", actor: teacher},
		{name: "admin publishes", actor: admin},
		{name: "learner forbidden", actor: learner, wantErr: ErrForbidden},
		{name: "unknown category", actor: teacher, mutate: func(r *CreateVideoRequest) { r.CategoryID = "missing" }, wantErr: ErrCategoryNotFound},
		{name: "bad url", actor: teacher, mutate: func(r *CreateVideoRequest) { r.VideoURL = "not a url" }, invalid: true},
		{name: "blank title", actor: teacher, mutate: func(r *CreateVideoRequest) { r.Title = "   " }, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			video, err := svc.Create(context.Background(), tt.actor, &req)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				var verrs ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.actor.ID, video.UploaderID)
				assert.Equal(t, int64(0), video.Views)
				assert.False(t, video.UploadedAt.IsZero())
			}
		})
	}
}

func TestVideoUpdateRequiresOwner(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	svc := newVideoService(repo, false)
	video := seedVideo(t, svc, teacher, category.ID, "Generics")

	_, err := svc.Update(context.Background(), teacher2, video.ID, &UpdateVideoRequest{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(context.Background(), teacher, video.ID, &UpdateVideoRequest{Title: ptr("Generics in depth")})
	require.NoError(t, err)
	assert.Equal(t, "Generics in depth", updated.Title)
	assert.Equal(t, video.VideoURL, updated.VideoURL)

	updated, err = svc.Update(context.Background(), admin, video.ID, &UpdateVideoRequest{Description: ptr("moderated")})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Description)

	_, err = svc.Update(context.Background(), teacher, "missing", &UpdateVideoRequest{})
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestToggleLikeFlipsOncePerClick(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	svc := newVideoService(repo, false)
	video := seedVideo(t, svc, teacher, category.ID, "Interfaces")
	ctx := context.Background()

	tests := []struct {
		actor     Actor
		wantLiked bool
		wantCount int64
	}{
		{learner, true, 1},
		{learner2, true, 2},
		{learner, false, 1},
		{learner, true, 2},
	}
	for _, tt := range tests {
		got, err := svc.ToggleLike(ctx, tt.actor, video.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.wantLiked, got.Liked)
		assert.Equal(t, tt.wantCount, got.LikeCount)
	}

	_, err := svc.ToggleLike(ctx, Actor{}, video.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ToggleLike(ctx, learner, "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestToggleWhileBusyIsRejected(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	guard := dispatcher.NewGuard()
	svc := NewVideoService(repo, slog.Default(), validator.New(), guard, false)
	video := seedVideo(t, svc, teacher, category.ID, "Maps")
	ctx := context.Background()

	err := guard.Do(dispatcher.Key("like", learner.ID, video.ID), func() error {
		_, err := svc.ToggleLike(ctx, learner, video.ID)
		assert.ErrorIs(t, err, ErrBusy)

		// bookmarks use their own key
		got, err := svc.ToggleBookmark(ctx, learner, video.ID)
		require.NoError(t, err)
		assert.True(t, got.Bookmarked)
		return nil
	})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, video.ID, learner)
	require.NoError(t, err)
	assert.False(t, got.Liked)
	assert.Equal(t, int64(0), got.LikeCount)
}

func TestRateKeepsOneRatingPerUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	svc := newVideoService(repo, false)
	video := seedVideo(t, svc, teacher, category.ID, "Testing")
	ctx := context.Background()

	_, err := svc.Rate(ctx, learner, video.ID, &RateVideoRequest{Rating: 4})
	require.NoError(t, err)
	got, err := svc.Rate(ctx, learner2, video.ID, &RateVideoRequest{Rating: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.AverageRating, 1e-9)

	got, err = svc.Rate(ctx, learner, video.ID, &RateVideoRequest{Rating: 5})
	require.NoError(t, err)
	assert.Len(t, got.Ratings, 2)
	assert.InDelta(t, 3.5, got.AverageRating, 1e-9)

	_, err = svc.Rate(ctx, learner, video.ID, &RateVideoRequest{Rating: 6})
	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestReportCountsAndVisibility(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	svc := newVideoService(repo, false)
	video := seedVideo(t, svc, teacher, category.ID, "Errors")
	ctx := context.Background()

	report, err := svc.Report(ctx, learner, video.ID, &ReportVideoRequest{Reason: "audio is broken"})
	require.NoError(t, err)
	assert.Equal(t, learner.ID, report.ReporterID)

	got, err := svc.GetByID(ctx, video.ID, learner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ReportsCount)

	_, err = svc.ListReports(ctx, learner, video.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	reports, err := svc.ListReports(ctx, teacher, video.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestReportRemovedWhenCounterFails(t *testing.T) {
	repo, _ := newTestRepo(t)
	category := seedCategory(t, repo, "Go")
	video := seedVideo(t, newVideoService(repo, false), teacher, category.ID, "Maps")
	ctx := context.Background()

	boom := errors.New("counter write failed")
	svc := newVideoService(counterFailRepo{Repository: repo, err: boom}, false)

	_, err := svc.Report(ctx, learner, video.ID, &ReportVideoRequest{Reason: "wrong captions"})
	assert.ErrorIs(t, err, boom)

	reports, err := repo.Report().List(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, reports)

	got, err := repo.Video().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ReportsCount)
}

func TestDeleteVideoCascade(t *testing.T) {
	tests := []struct {
		name         string
		cascade      bool
		wantComments int
		wantReports  int
	}{
		{name: "cascade removes children", cascade: true, wantComments: 0, wantReports: 0},
		{name: "without cascade children stay", cascade: false, wantComments: 1, wantReports: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newTestRepo(t)
			category := seedCategory(t, repo, "Go")
			videos := newVideoService(repo, tt.cascade)
			comments := NewCommentService(repo, slog.Default(), validator.New(), tt.cascade)
			video := seedVideo(t, videos, teacher, category.ID, "Context")
			ctx := context.Background()

			comment, err := comments.Add(ctx, learner, video.ID, &CreateCommentRequest{Text: "great"})
			require.NoError(t, err)
			_, err = comments.AddReply(ctx, teacher, video.ID, comment.ID, &CreateCommentRequest{Text: "thanks"})
			require.NoError(t, err)
			_, err = videos.Report(ctx, learner2, video.ID, &ReportVideoRequest{Reason: "spam links"})
			require.NoError(t, err)

			assert.ErrorIs(t, videos.Delete(ctx, learner, video.ID), ErrForbidden)
			require.NoError(t, videos.Delete(ctx, teacher, video.ID))

			_, err = videos.GetByID(ctx, video.ID, teacher)
			assert.ErrorIs(t, err, ErrVideoNotFound)

			left, err := repo.Comment().List(ctx, video.ID)
			require.NoError(t, err)
			assert.Len(t, left, tt.wantComments)
			reports, err := repo.Report().List(ctx, video.ID)
			require.NoError(t, err)
			assert.Len(t, reports, tt.wantReports)
			replies, err := repo.Comment().ListReplies(ctx, video.ID, comment.ID)
			require.NoError(t, err)
			assert.Len(t, replies, tt.wantComments)
		})
	}
}
