package docstore

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/mapper"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

func newTestRepository(t *testing.T) (repositories.Repository, store.DocumentStore) {
	t.Helper()
	s, err := store.NewMemoryStore(nil, slog.Default())
	require.NoError(t, err)

	manager := NewRepositoryManager(RepositoryConfig{Store: s, Logger: slog.Default()})
	require.NoError(t, manager.Initialize())
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })
	return manager.GetRepository(), s
}

func createVideo(t *testing.T, repo repositories.Repository) *models.Video {
	t.Helper()
	video := &models.Video{Title: "Goroutines", UploaderID: "t1", CategoryID: "go"}
	require.NoError(t, repo.Video().Create(context.Background(), video))
	require.NotEmpty(t, video.ID)
	return video
}

func TestSetLikeIsIdempotentPerUser(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	video := createVideo(t, repo)

	tests := []struct {
		name      string
		user      string
		liked     bool
		wantCount int64
		wantUsers []string
	}{
		{name: "first like", user: "u1", liked: true, wantCount: 1, wantUsers: []string{"u1"}},
		{name: "repeated like", user: "u1", liked: true, wantCount: 1, wantUsers: []string{"u1"}},
		{name: "second user", user: "u2", liked: true, wantCount: 2, wantUsers: []string{"u1", "u2"}},
		{name: "unlike", user: "u1", liked: false, wantCount: 1, wantUsers: []string{"u2"}},
		{name: "repeated unlike", user: "u1", liked: false, wantCount: 1, wantUsers: []string{"u2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Video().SetLike(ctx, video.ID, tt.user, tt.liked)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.LikeCount)
			assert.Equal(t, tt.wantUsers, got.LikedBy)
		})
	}
}

func TestSetBookmarkLeavesCounters(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	video := createVideo(t, repo)

	got, err := repo.Video().SetBookmark(ctx, video.ID, "u1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.BookmarkedBy)
	assert.Equal(t, int64(0), got.LikeCount)

	_, err = repo.Video().SetBookmark(ctx, "missing", "u1", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRateKeepsOneEntryPerUser(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	video := createVideo(t, repo)

	_, err := repo.Video().Rate(ctx, video.ID, "u1", 2)
	require.NoError(t, err)
	_, err = repo.Video().Rate(ctx, video.ID, "u2", 4)
	require.NoError(t, err)
	got, err := repo.Video().Rate(ctx, video.ID, "u1", 5)
	require.NoError(t, err)

	assert.Len(t, got.Ratings, 2)
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)

	stored, err := repo.Video().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, stored.AverageRating, 1e-9)
}

func TestCountersAndUpdate(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	video := createVideo(t, repo)

	require.NoError(t, repo.Video().IncrementViews(ctx, video.ID))
	require.NoError(t, repo.Video().IncrementViews(ctx, video.ID))
	require.NoError(t, repo.Video().AdjustComments(ctx, video.ID, 3))
	require.NoError(t, repo.Video().AdjustComments(ctx, video.ID, -1))

	title := "Goroutines in depth"
	require.NoError(t, repo.Video().Update(ctx, video.ID, repositories.VideoUpdate{Title: &title}))

	got, err := repo.Video().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, int64(2), got.CommentsCount)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, "t1", got.UploaderID)

	list, err := repo.Video().List(ctx, repositories.VideoFilters{UploaderID: "t1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.Video().List(ctx, repositories.VideoFilters{UploaderID: "t2"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWatchByIDReportsDeletion(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	video := createVideo(t, repo)

	snaps, err := repo.Video().WatchByID(ctx, video.ID)
	require.NoError(t, err)

	first := <-snaps
	require.Len(t, first.Items, 1)
	assert.Equal(t, "Goroutines", first.Items[0].Title)

	require.NoError(t, repo.Video().Delete(ctx, video.ID))
	require.Eventually(t, func() bool {
		select {
		case snap := <-snaps:
			return len(snap.Items) == 0
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCommentsAndReplies(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	video := createVideo(t, repo)

	comment := &models.Comment{VideoID: video.ID, Text: "Great!", AuthorID: "u1", AuthorEmail: "u1@example.com"}
	require.NoError(t, repo.Comment().Create(ctx, comment))

	reply := &models.Reply{VideoID: video.ID, CommentID: comment.ID, Text: "Thanks", AuthorID: "t1"}
	require.NoError(t, repo.Comment().CreateReply(ctx, reply))

	comments, err := repo.Comment().List(ctx, video.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, video.ID, comments[0].VideoID)

	replies, err := repo.Comment().ListReplies(ctx, video.ID, comment.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, comment.ID, replies[0].CommentID)
	assert.Equal(t, "Thanks", replies[0].Text)

	report := &models.Report{VideoID: video.ID, ReporterID: "u2", Reason: "spam"}
	require.NoError(t, repo.Report().Create(ctx, report))
	reports, err := repo.Report().List(ctx, video.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestRoadmapSaveFindToggle(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	roadmap := &models.Roadmap{
		UserID: "u1",
		Title:  "Backend",
		Steps: []models.RoadmapStep{
			{Order: 1, Title: "HTTP"},
			{Order: 2, Title: "Databases"},
		},
	}
	require.NoError(t, repo.Roadmap().Save(ctx, roadmap))
	require.NotEmpty(t, roadmap.ID)

	found, err := repo.Roadmap().FindByTitle(ctx, "u1", "Backend")
	require.NoError(t, err)
	assert.Equal(t, roadmap.ID, found.ID)
	require.Len(t, found.Steps, 2)
	assert.Equal(t, "HTTP", found.Steps[0].Title)

	step, err := repo.Roadmap().ToggleStep(ctx, roadmap.ID, found.Steps[1].ID)
	require.NoError(t, err)
	assert.True(t, step.Completed)

	// saving again with one step replaces the old steps
	found.Steps = []models.RoadmapStep{{Order: 1, Title: "Go"}}
	require.NoError(t, repo.Roadmap().Save(ctx, found))

	got, err := repo.Roadmap().GetByID(ctx, roadmap.ID)
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "Go", got.Steps[0].Title)

	list, err := repo.Roadmap().ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Roadmap().FindByTitle(ctx, "u2", "Backend")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.Roadmap().Delete(ctx, roadmap.ID))
	_, err = repo.Roadmap().GetByID(ctx, roadmap.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersAndPreferences(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	user := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, repo.User().Create(ctx, user))
	assert.Equal(t, models.RoleLearner, user.Role)

	got, err := repo.User().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.User().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	phone := "+84 123"
	require.NoError(t, repo.User().UpdateProfile(ctx, "u1", repositories.UserProfileUpdate{Phone: &phone}))
	got, err = repo.User().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "Ada", got.Name)

	require.NoError(t, repo.Preference().Add(ctx, "u1", "go"))
	require.NoError(t, repo.Preference().Add(ctx, "u1", "go"))
	require.NoError(t, repo.Preference().Add(ctx, "u1", "rust"))
	prefs, err := repo.Preference().List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, prefs, 2)

	require.NoError(t, repo.Preference().Remove(ctx, "u1", "rust"))
	prefs, err = repo.Preference().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, "go", prefs[0].CategoryID)
}

func TestDashboardAggregatesSkipMalformed(t *testing.T) {
	repo, s := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, repositories.CollectionUsers, "a", store.Data{mapper.FieldRole: "admin"}))
	require.NoError(t, s.Set(ctx, repositories.CollectionUsers, "t", store.Data{mapper.FieldRole: "teacher"}))
	require.NoError(t, s.Set(ctx, repositories.CollectionUsers, "l", store.Data{}))

	require.NoError(t, s.Set(ctx, repositories.CollectionVideos, "v1", store.Data{mapper.FieldUploadedAt: "2025-01-10"}))
	require.NoError(t, s.Set(ctx, repositories.CollectionVideos, "v2", store.Data{mapper.FieldUploadedAt: "not-a-date"}))
	require.NoError(t, s.Set(ctx, repositories.CollectionVideos, "v3", store.Data{mapper.FieldUploadedAt: "2025-01-20"}))

	count, err := repo.Dashboard().Count(ctx, repositories.CollectionVideos)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	roles, err := repo.Dashboard().UsersByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, roles[models.RoleAdmin])
	assert.Equal(t, 1, roles[models.RoleTeacher])
	assert.Equal(t, 1, roles[models.RoleLearner])

	monthly, skipped, err := repo.Dashboard().Monthly(ctx, repositories.CollectionVideos, mapper.FieldUploadedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []models.MonthlyCount{{Month: "2025-01", Count: 2}}, monthly)

	// the malformed video is left out of lists too
	videos, err := repo.Video().List(ctx, repositories.VideoFilters{})
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestEventReplace(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	event := &models.Event{
		Title:                 "GopherCon",
		EventDate:             time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		RegistrationCloseDate: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
		Mode:                  models.EventOnline,
		OwnerID:               "t1",
	}
	require.NoError(t, repo.Event().Create(ctx, event))

	event.Mode = models.EventOffline
	event.Location = "Hall A"
	require.NoError(t, repo.Event().Replace(ctx, event))

	got, err := repo.Event().GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventOffline, got.Mode)
	assert.Equal(t, "Hall A", got.Location)
	assert.True(t, event.EventDate.Equal(got.EventDate))

	list, err := repo.Event().List(ctx, repositories.EventFilters{Mode: models.EventOffline})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestManagerRequiresStore(t *testing.T) {
	manager := NewRepositoryManager(RepositoryConfig{})
	assert.Error(t, manager.Initialize())
	assert.Error(t, manager.HealthCheck(context.Background()))
	assert.NoError(t, manager.Shutdown(context.Background()))
}
