package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/media"
	"github.com/SAP-F-2025/learnhub-service/internal/models"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories/docstore"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUsers = map[string]models.User{
	"admin-token":   {ID: "admin-1", Name: "Ada", Email: "admin@learnhub.dev", Role: models.RoleAdmin},
	"teacher-token": {ID: "teacher-1", Name: "Tess", Email: "teacher@learnhub.dev", Role: models.RoleTeacher},
	"learner-token": {ID: "learner-1", Name: "Lee", Email: "learner@learnhub.dev", Role: models.RoleLearner},
}

// fakeSessions resolves the tokens in testUsers
type fakeSessions struct {
	mu        sync.Mutex
	refreshed []models.User
	signedOut []string
}

func (f *fakeSessions) Current(ctx context.Context, token string) (*auth.Profile, error) {
	user, ok := testUsers[token]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return &auth.Profile{User: user}, nil
}

func (f *fakeSessions) SignIn(ctx context.Context, code, state string) (*auth.Session, error) {
	if code != "good-code" {
		return nil, auth.ErrUnauthenticated
	}
	return &auth.Session{Token: "teacher-token", Profile: &auth.Profile{User: testUsers["teacher-token"]}}, nil
}

func (f *fakeSessions) SignOut(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *fakeSessions) Refresh(ctx context.Context, token string, user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, user)
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, kind media.Kind, file media.File) (string, error) {
	if _, err := io.ReadAll(file.Body); err != nil {
		return "", err
	}
	return f.url, f.err
}

type testServer struct {
	router   *gin.Engine
	sessions *fakeSessions
	uploader *fakeUploader
	services services.ServiceManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s, err := store.NewMemoryStore(nil, slog.Default())
	require.NoError(t, err)
	repos := docstore.NewRepositoryManager(docstore.RepositoryConfig{Store: s, Logger: slog.Default()})
	require.NoError(t, repos.Initialize())

	sm := services.NewServiceManager(repos, nil, nil, slog.Default(), validator.New(), services.ServiceManagerConfig{})
	require.NoError(t, sm.Initialize(context.Background()))
	t.Cleanup(func() { _ = sm.Shutdown(context.Background()) })

	// profiles exist in the store the way a first sign-in leaves them
	for _, user := range testUsers {
		u := user
		require.NoError(t, repos.GetRepository().User().Create(context.Background(), &u))
	}

	logger := utils.NewSlogLogger(slog.Default())
	sessions := &fakeSessions{}
	uploader := &fakeUploader{url: "https://media.learnhub.dev/thumbnails/a.png"}

	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(sm, sessions, uploader, validator.New(), logger).SetupRoutes(router)

	return &testServer{router: router, sessions: sessions, uploader: uploader, services: sm}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var errBoom = errors.New("boom")
