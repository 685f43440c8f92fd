package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/dispatcher"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories/docstore"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

var (
	admin    = Actor{ID: "admin-1", Email: "admin@learnhub.dev", Role: models.RoleAdmin}
	teacher  = Actor{ID: "teacher-1", Email: "teacher@learnhub.dev", Role: models.RoleTeacher}
	teacher2 = Actor{ID: "teacher-2", Email: "other@learnhub.dev", Role: models.RoleTeacher}
	learner  = Actor{ID: "learner-1", Email: "learner@learnhub.dev", Role: models.RoleLearner}
	learner2 = Actor{ID: "learner-2", Email: "second@learnhub.dev", Role: models.RoleLearner}
)

func newTestRepo(t *testing.T) (repositories.Repository, store.DocumentStore) {
	t.Helper()
	s, err := store.NewMemoryStore(nil, slog.Default())
	require.NoError(t, err)

	manager := docstore.NewRepositoryManager(docstore.RepositoryConfig{Store: s, Logger: slog.Default()})
	require.NoError(t, manager.Initialize())
	t.Cleanup(func() { _ = manager.Shutdown(context.Background()) })
	return manager.GetRepository(), s
}

func seedCategory(t *testing.T, repo repositories.Repository, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Subcategories: []string{"basics"}}
	require.NoError(t, repo.Category().Create(context.Background(), category))
	return category
}

func newVideoService(repo repositories.Repository, cascade bool) VideoService {
	return NewVideoService(repo, slog.Default(), validator.New(), dispatcher.NewGuard(), cascade)
}

func seedVideo(t *testing.T, svc VideoService, actor Actor, categoryID, title string) *models.Video {
	t.Helper()
	video, err := svc.Create(context.Background(), actor, &CreateVideoRequest{
		Title:      title,
		CategoryID: categoryID,
		VideoURL:   "https://videos.learnhub.dev/" + title,
	})
	require.NoError(t, err)
	return video
}

func ptr[T any](v T) *T { return &v }

// fakeCompleter returns a canned reply and records prompts
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

// counterFailRepo serves the wrapped repository but fails every counter
// write on videos
type counterFailRepo struct {
	repositories.Repository
	err error
}

func (r counterFailRepo) Video() repositories.VideoRepository {
	return counterFailVideos{VideoRepository: r.Repository.Video(), err: r.err}
}

type counterFailVideos struct {
	repositories.VideoRepository
	err error
}

func (v counterFailVideos) AdjustComments(context.Context, string, int64) error { return v.err }

func (v counterFailVideos) AdjustReports(context.Context, string, int64) error { return v.err }
