package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

type viewFixture struct {
	repo     repositories.Repository
	videos   VideoService
	view     ViewService
	category *models.Category
}

func newViewFixture(t *testing.T) viewFixture {
	t.Helper()
	repo, _ := newTestRepo(t)
	v := validator.New()
	videos := newVideoService(repo, false)
	view := NewViewService(repo,
		NewUserService(repo, slog.Default(), v),
		videos,
		NewChallengeService(repo, slog.Default(), v),
		NewEventService(repo, slog.Default(), v),
		slog.Default(),
		ViewServiceConfig{BannerTTL: time.Second, PageIdleTTL: time.Minute},
	)
	t.Cleanup(view.Shutdown)
	return viewFixture{repo: repo, videos: videos, view: view, category: seedCategory(t, repo, "Go")}
}

func waitForVideos(t *testing.T, results <-chan ViewResult, cond func(viewstate.State[models.Video]) bool) viewstate.State[models.Video] {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-results:
			require.True(t, ok, "stream closed")
			state, ok := r.State.(viewstate.State[models.Video])
			require.True(t, ok, "unexpected state %T", r.State)
			if cond(state) {
				return state
			}
		case <-timeout:
			t.Fatal("timed out waiting for view state")
		}
	}
}

func titles(videos []models.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.Title
	}
	return out
}

func TestViewQuery(t *testing.T) {
	fx := newViewFixture(t)
	ctx := context.Background()
	for _, title := range []string{"Go generics", "Rust traits", "Go channels"} {
		seedVideo(t, fx.videos, teacher, fx.category.ID, title)
	}

	result, err := fx.view.Query(ctx, EntityVideos, viewstate.Filters{Search: "go", SortKey: "title"})
	require.NoError(t, err)
	state := result.State.(viewstate.State[models.Video])
	assert.Equal(t, viewstate.StatusLoaded, state.Status)
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, []string{"Go channels", "Go generics"}, titles(state.Filtered))

	_, err = fx.view.Query(ctx, EntityVideos, viewstate.Filters{SortKey: "grade"})
	assert.ErrorIs(t, err, viewstate.ErrUnknownSortKey)
	_, err = fx.view.Query(ctx, "grades", viewstate.Filters{})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestViewPageFollowsStore(t *testing.T) {
	fx := newViewFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := seedVideo(t, fx.videos, teacher, fx.category.ID, "Mine")
	seedVideo(t, fx.videos, teacher2, fx.category.ID, "Theirs")

	pageID, results, err := fx.view.Open(ctx, EntityVideos, viewstate.Filters{SortKey: "title"})
	require.NoError(t, err)
	require.NotEmpty(t, pageID)

	state := waitForVideos(t, results, func(s viewstate.State[models.Video]) bool {
		return s.Status == viewstate.StatusLoaded && s.Total == 2
	})
	assert.Equal(t, []string{"Mine", "Theirs"}, titles(state.Filtered))

	// writes made elsewhere reach the page
	seedVideo(t, fx.videos, teacher, fx.category.ID, "Newest")
	waitForVideos(t, results, func(s viewstate.State[models.Video]) bool { return s.Total == 3 })

	require.NoError(t, fx.view.SetFilters(pageID, viewstate.Filters{Search: "the"}))
	waitForVideos(t, results, func(s viewstate.State[models.Video]) bool {
		return len(s.Filtered) == 1 && s.Filtered[0].Title == "Theirs"
	})
	assert.ErrorIs(t, fx.view.SetFilters(pageID, viewstate.Filters{SortKey: "grade"}), viewstate.ErrUnknownSortKey)

	// a rejected delete reverts and shows the error
	err = fx.view.Remove(ctx, learner, pageID, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	state = waitForVideos(t, results, func(s viewstate.State[models.Video]) bool {
		return s.Status == viewstate.StatusError
	})
	assert.Equal(t, 3, state.Total)
	assert.NotEmpty(t, state.Banner)

	require.NoError(t, fx.view.Remove(ctx, teacher, pageID, mine.ID))
	waitForVideos(t, results, func(s viewstate.State[models.Video]) bool {
		return s.Status == viewstate.StatusLoaded && s.Total == 2
	})
	_, err = fx.videos.GetByID(ctx, mine.ID, teacher)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	require.NoError(t, fx.view.Close(pageID))
	assert.ErrorIs(t, fx.view.Close(pageID), ErrPageNotFound)
	assert.ErrorIs(t, fx.view.SetFilters(pageID, viewstate.Filters{}), ErrPageNotFound)

	for range results {
	}
}

func TestViewOpenUnknownEntity(t *testing.T) {
	fx := newViewFixture(t)
	_, _, err := fx.view.Open(context.Background(), "grades", viewstate.Filters{})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}
